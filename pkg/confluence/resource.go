package confluence

import (
	"context"
	"fmt"
	"net/url"
	"slices"
	"strings"

	"github.com/tonimelisma/confluence-client/internal/logger"
)

// State is the load state of a resource as seen by its last Response.
type State int

const (
	// StateUnloaded means no request has been made yet.
	StateUnloaded State = iota
	// StateError means the last request failed.
	StateError
	// StateOK means the last request succeeded.
	StateOK
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateError:
		return "error"
	case StateOK:
		return "ok"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Resource is the behaviour shared by pages and spaces.
type Resource interface {
	Get(ctx context.Context) error
	Save(ctx context.Context) error
	Delete(ctx context.Context) error
	Identifier() (string, bool)
	State() State
	StatusCode() (int, bool)
	HasErrors() bool
	ErrorMessage() string
	URL() (string, bool)
}

var (
	_ Resource = (*Page)(nil)
	_ Resource = (*Space)(nil)
)

// record is implemented by the snapshot types.
type record interface {
	identifier() (string, bool)
	exists() bool
	links() *Links
}

// resource holds what pages and spaces have in common: the snapshot, the
// expansion list, the endpoint templates and the last Response.
type resource[T any, P interface {
	*T
	record
}] struct {
	kind      string
	caller    Caller
	logger    logger.Logger
	data      P
	expands   []string
	templates map[string]string
	last      *Response
}

func newResource[T any, P interface {
	*T
	record
}](caller Caller, kind string, templates map[string]string, expands []string) resource[T, P] {
	return resource[T, P]{
		kind:      kind,
		caller:    caller,
		logger:    loggerFor(caller),
		data:      P(new(T)),
		expands:   expands,
		templates: templates,
	}
}

// AddExpand adds name to the expansions sent with Get. Adding a name twice
// has no effect.
func (r *resource[T, P]) AddExpand(name string) {
	if !slices.Contains(r.expands, name) {
		r.expands = append(r.expands, name)
	}
}

// RemoveExpand drops name from the expansions. Unknown names are ignored.
func (r *resource[T, P]) RemoveExpand(name string) {
	r.expands = slices.DeleteFunc(r.expands, func(e string) bool { return e == name })
}

// Expands returns the expansions in the order they were added.
func (r *resource[T, P]) Expands() []string {
	return slices.Clone(r.expands)
}

// Identifier returns the resource's primary identifier.
func (r *resource[T, P]) Identifier() (string, bool) {
	return r.data.identifier()
}

// Endpoint returns the resolved endpoint for op, or "" when the resource has
// no endpoint for it. Before an identifier is set the template is returned
// unresolved.
func (r *resource[T, P]) Endpoint(op string) string {
	return r.endpoint(op)
}

// Snapshot returns the live snapshot. Changes made through it are sent on
// the next Save.
func (r *resource[T, P]) Snapshot() P {
	return r.data
}

// endpoint renders the template for op with the identifier the snapshot
// holds right now, however it was set.
func (r *resource[T, P]) endpoint(op string) string {
	tmpl := r.templates[op]
	if id, ok := r.data.identifier(); ok {
		return renderEndpoint(tmpl, url.PathEscape(id))
	}
	return tmpl
}

// Get loads the resource with its expansions. The snapshot is replaced by
// whatever the server returned, also on failure, so callers check HasErrors
// before trusting fields.
func (r *resource[T, P]) Get(ctx context.Context) error {
	id, ok := r.Identifier()
	if !ok {
		return fmt.Errorf("get %s: %w", r.kind, ErrIdentifierNotSet)
	}

	params := url.Values{}
	if len(r.expands) > 0 {
		params.Set("expand", strings.Join(r.expands, ","))
	}

	r.logger.Debugf("loading %s %s", r.kind, id)
	return r.absorb(r.caller.Get(ctx, r.endpoint(OpGet), params))
}

// Save creates the resource when it does not exist on the server yet and
// updates it otherwise.
func (r *resource[T, P]) Save(ctx context.Context) error {
	var resp *Response
	if r.data.exists() {
		id, ok := r.Identifier()
		if !ok {
			return fmt.Errorf("update %s: %w", r.kind, ErrIdentifierNotSet)
		}
		r.logger.Debugf("updating %s %s", r.kind, id)
		resp = r.caller.Put(ctx, r.endpoint(OpUpdate), r.data)
	} else {
		r.logger.Debugf("creating %s", r.kind)
		resp = r.caller.Post(ctx, r.endpoint(OpCreate), r.data)
	}
	return r.absorb(resp)
}

// Delete removes the resource. On success the snapshot is reset so the
// instance can be reused.
func (r *resource[T, P]) Delete(ctx context.Context) error {
	id, ok := r.Identifier()
	if !ok {
		return fmt.Errorf("delete %s: %w", r.kind, ErrIdentifierNotSet)
	}

	r.logger.Debugf("deleting %s %s", r.kind, id)
	r.last = r.caller.Delete(ctx, r.endpoint(OpDelete))
	if r.last.StatusCode == StatusOK {
		r.data = P(new(T))
	}
	return nil
}

// absorb stores resp and replaces the snapshot with its body.
func (r *resource[T, P]) absorb(resp *Response) error {
	r.last = resp
	fresh := P(new(T))
	if err := resp.Decode(fresh); err != nil {
		r.data = fresh
		return fmt.Errorf("%s response: %w", r.kind, err)
	}
	r.data = fresh
	if resp.HasErrors {
		r.logger.Debugf("%s request failed: %s", r.kind, resp.ErrorMessage)
	}
	return nil
}

// LastResponse returns the most recent Response, or nil before any request.
func (r *resource[T, P]) LastResponse() *Response {
	return r.last
}

// StatusCode returns the status of the last Response. ok is false before
// any request.
func (r *resource[T, P]) StatusCode() (code int, ok bool) {
	if r.last == nil {
		return 0, false
	}
	return r.last.StatusCode, true
}

// ErrorMessage returns the error text of the last Response.
func (r *resource[T, P]) ErrorMessage() string {
	if r.last == nil {
		return msgDataNotLoaded
	}
	return r.last.ErrorMessage
}

// HasErrors reports whether the last request failed. It is true before any
// request has been made.
func (r *resource[T, P]) HasErrors() bool {
	return r.last == nil || r.last.HasErrors
}

// State reports the tri-state load status.
func (r *resource[T, P]) State() State {
	switch {
	case r.last == nil:
		return StateUnloaded
	case r.last.HasErrors:
		return StateError
	}
	return StateOK
}

// URL returns the web UI link of the resource.
func (r *resource[T, P]) URL() (string, bool) {
	links := r.data.links()
	if links == nil {
		return "", false
	}
	return links.Base + links.WebUI, true
}
