package confluence

import (
	"context"
	"fmt"
	"net/url"

	"github.com/hashicorp/go-multierror"
)

// Page is a Confluence page. Its primary identifier is the numeric content id.
//
// Example:
//
//	page := confluence.NewPage(client)
//	page.SetTitle("Release notes")
//	page.SetSpaceKey("DEV")
//	page.SetBody("<p>Hello</p>")
//	if err := page.Save(ctx); err != nil {
//		return err
//	}
//	if page.HasErrors() {
//		return fmt.Errorf("saving page: %s", page.ErrorMessage())
//	}
type Page struct {
	resource[PageData, *PageData]
}

// NewPage returns an empty page of type "page" with the default expansions.
func NewPage(caller Caller) *Page {
	p := &Page{resource: newResource[PageData, *PageData](caller, "page", pageEndpointTemplates(), defaultPageExpands())}
	p.data.Type = ContentTypePage
	return p
}

// NewPageFromData wraps an already decoded snapshot, e.g. a scan result.
func NewPageFromData(caller Caller, data PageData) *Page {
	p := NewPage(caller)
	p.data = &data
	return p
}

// ID returns the page id.
func (p *Page) ID() (ContentID, bool) {
	if p.data.ID == nil {
		return 0, false
	}
	return *p.data.ID, true
}

// SetID sets the page id.
func (p *Page) SetID(id ContentID) {
	p.data.ID = contentIDPtr(id)
}

func (p *Page) Title() string {
	return p.data.Title
}

func (p *Page) SetTitle(title string) {
	p.data.Title = title
}

func (p *Page) Type() string {
	return p.data.Type
}

func (p *Page) Status() string {
	return p.data.Status
}

func (p *Page) SetStatus(s string) {
	p.data.Status = s
}

// Version returns the version number, or 0 when the page has no version.
func (p *Page) Version() int {
	if p.data.Version == nil {
		return 0
	}
	return p.data.Version.Number
}

// SetVersion sets the version number.
func (p *Page) SetVersion(n int) {
	p.version().Number = n
}

func (p *Page) version() *Version {
	if p.data.Version == nil {
		p.data.Version = &Version{}
	}
	return p.data.Version
}

// SpaceKey returns the key of the page's space.
func (p *Page) SpaceKey() string {
	if p.data.Space == nil {
		return ""
	}
	return p.data.Space.Key
}

// SetSpaceKey moves the page to the space with the given key on next Save.
func (p *Page) SetSpaceKey(key string) {
	if p.data.Space == nil {
		p.data.Space = &SpaceRef{}
	}
	p.data.Space.Key = key
}

// SetBody sets the storage-format body.
func (p *Page) SetBody(body string) {
	if p.data.Body == nil {
		p.data.Body = &Body{}
	}
	p.data.Body.Storage = &BodyValue{Value: body, Representation: RepresentationStorage}
}

// StorageBody returns the storage body from the snapshot without fetching.
func (p *Page) StorageBody() (string, bool) {
	if p.data.Body == nil || p.data.Body.Storage == nil {
		return "", false
	}
	return p.data.Body.Storage.Value, true
}

// EnsureLoaded adds expansion and fetches the page when the snapshot does
// not carry it yet. A page without an id is left untouched.
func (p *Page) EnsureLoaded(ctx context.Context, expansion string) error {
	if p.hasExpansion(expansion) {
		return nil
	}
	if _, ok := p.Identifier(); !ok {
		return nil
	}
	p.AddExpand(expansion)
	return p.Get(ctx)
}

// hasExpansion reports whether the snapshot holds the data of expansion.
func (p *Page) hasExpansion(expansion string) bool {
	d := p.data
	switch expansion {
	case "ancestors":
		return d.Ancestors != nil
	case "metadata.labels":
		return d.Metadata != nil && d.Metadata.Labels != nil
	case "space":
		return d.Space != nil
	case "version":
		return d.Version != nil
	}
	if d.Body == nil {
		return false
	}
	for _, mode := range []string{BodyStorage, BodyView, BodyExportView, BodyAnonymousExportView} {
		if expansion == "body."+mode {
			v, _ := d.Body.representation(mode)
			return v != nil
		}
	}
	return false
}

// Body returns the storage body, fetching it first when it is not loaded.
func (p *Page) Body(ctx context.Context) (string, bool, error) {
	return p.BodyRepresentation(ctx, BodyStorage)
}

// BodyRepresentation returns the body in the given representation, fetching
// it first when it is not loaded. Unknown modes return ok == false without a
// request.
func (p *Page) BodyRepresentation(ctx context.Context, mode string) (string, bool, error) {
	if _, known := (&Body{}).representation(mode); !known {
		return "", false, nil
	}
	if err := p.EnsureLoaded(ctx, "body."+mode); err != nil {
		return "", false, err
	}
	if p.data.Body == nil {
		return "", false, nil
	}
	v, _ := p.data.Body.representation(mode)
	if v == nil {
		return "", false, nil
	}
	return v.Value, true, nil
}

// Ancestors returns the ancestor references from the snapshot.
func (p *Page) Ancestors() []ContentRef {
	return p.data.Ancestors
}

// Parent loads and returns the page's direct parent, or nil for a top level
// page.
func (p *Page) Parent(ctx context.Context) (*Page, error) {
	if err := p.EnsureLoaded(ctx, "ancestors"); err != nil {
		return nil, err
	}
	if len(p.data.Ancestors) == 0 {
		return nil, nil
	}

	parent := NewPage(p.caller)
	parent.SetID(p.data.Ancestors[0].ID)
	if err := parent.Get(ctx); err != nil {
		return nil, fmt.Errorf("loading parent of page: %w", err)
	}
	return parent, nil
}

// SetParentID makes id the direct parent. Existing ancestors are kept after it.
func (p *Page) SetParentID(id ContentID) {
	p.data.Ancestors = append([]ContentRef{{ID: id}}, p.data.Ancestors...)
}

// SetParent makes parent the direct parent. parent must have an id.
func (p *Page) SetParent(parent *Page) error {
	if parent == nil {
		return fmt.Errorf("%w: nil page", ErrInvalidParent)
	}
	id, ok := parent.ID()
	if !ok {
		return fmt.Errorf("%w: parent page has no id", ErrInvalidParent)
	}
	p.SetParentID(id)
	return nil
}

// SetParentString makes the page with the given decimal id the direct parent.
func (p *Page) SetParentString(id string) error {
	parsed, err := ParseContentID(id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidParent, err)
	}
	p.SetParentID(parsed)
	return nil
}

// SuppressNotifications marks the next save as a minor edit so watchers are
// not emailed.
func (p *Page) SuppressNotifications() {
	p.version().MinorEdit = true
}

// Save creates or updates the page. Updates bump the version by one; the
// server rejects the update when someone else saved in between.
func (p *Page) Save(ctx context.Context) error {
	p.SuppressNotifications()
	if p.data.exists() {
		p.data.Version.Number++
	}
	return p.resource.Save(ctx)
}

// Labels returns the label names, loading them first when needed. ok is
// false when the snapshot has no labels collection.
func (p *Page) Labels(ctx context.Context) (labels []string, ok bool, err error) {
	if err := p.EnsureLoaded(ctx, "metadata.labels"); err != nil {
		return nil, false, err
	}
	if p.data.Metadata == nil || p.data.Metadata.Labels == nil {
		return nil, false, nil
	}

	labels = make([]string, 0, len(p.data.Metadata.Labels.Results))
	for _, l := range p.data.Metadata.Labels.Results {
		labels = append(labels, l.DisplayName())
	}
	return labels, true, nil
}

// AddLabel adds a global label. The snapshot is not updated; call Get to see
// the change.
func (p *Page) AddLabel(ctx context.Context, name string) (*Response, error) {
	if _, ok := p.Identifier(); !ok {
		return nil, fmt.Errorf("add label: %w", ErrIdentifierNotSet)
	}
	p.logger.Debugf("adding label %q", name)
	return p.caller.Post(ctx, p.endpoint(OpLabels), Label{Prefix: LabelPrefixGlobal, Name: name}), nil
}

// RemoveLabel removes a label. The snapshot is not updated.
func (p *Page) RemoveLabel(ctx context.Context, name string) (*Response, error) {
	if _, ok := p.Identifier(); !ok {
		return nil, fmt.Errorf("remove label: %w", ErrIdentifierNotSet)
	}
	p.logger.Debugf("removing label %q", name)
	return p.caller.Delete(ctx, p.endpoint(OpLabels)+url.PathEscape(name)), nil
}

// RemoveAllLabels removes every label the page currently has. Removal is not
// atomic: it keeps going after a failure and reports all failures together.
func (p *Page) RemoveAllLabels(ctx context.Context) error {
	labels, _, err := p.Labels(ctx)
	if err != nil {
		return err
	}

	var result *multierror.Error
	for _, name := range labels {
		resp, err := p.RemoveLabel(ctx, name)
		if err != nil {
			result = multierror.Append(result, err)
			continue
		}
		if resp.HasErrors {
			result = multierror.Append(result, fmt.Errorf("removing label %q: %w", name, resp.Err()))
		}
	}
	return result.ErrorOrNil()
}
