package confluence

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ContentID is a numeric Confluence id. Confluence sends content ids as
// strings and space ids as numbers; both forms are accepted and ids are
// always written back as strings.
type ContentID int64

// ParseContentID converts a decimal string into a ContentID.
func ParseContentID(s string) (ContentID, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing content id %q: %w", s, err)
	}
	return ContentID(n), nil
}

func (id ContentID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

func (id ContentID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.String())
}

func (id *ContentID) UnmarshalJSON(b []byte) error {
	raw := string(bytes.Trim(b, `"`))
	if raw == "" || raw == "null" {
		*id = 0
		return nil
	}
	parsed, err := ParseContentID(raw)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func contentIDPtr(id ContentID) *ContentID {
	return &id
}

// Links is the "_links" section Confluence attaches to entities.
type Links struct {
	Base   string `json:"base,omitempty"`
	WebUI  string `json:"webui,omitempty"`
	TinyUI string `json:"tinyui,omitempty"`
	Self   string `json:"self,omitempty"`
	Next   string `json:"next,omitempty"`
}

// BodyValue is one representation of a content body or a space description.
type BodyValue struct {
	Value          string `json:"value"`
	Representation string `json:"representation"`
}

// Body holds the body representations a page was loaded with.
type Body struct {
	Storage             *BodyValue `json:"storage,omitempty"`
	View                *BodyValue `json:"view,omitempty"`
	ExportView          *BodyValue `json:"export_view,omitempty"`
	AnonymousExportView *BodyValue `json:"anonymous_export_view,omitempty"`
}

func (b *Body) representation(mode string) (*BodyValue, bool) {
	switch mode {
	case BodyStorage:
		return b.Storage, true
	case BodyView:
		return b.View, true
	case BodyExportView:
		return b.ExportView, true
	case BodyAnonymousExportView:
		return b.AnonymousExportView, true
	}
	return nil, false
}

// Version is the content version block.
type Version struct {
	Number    int    `json:"number,omitempty"`
	MinorEdit bool   `json:"minorEdit"`
	Message   string `json:"message,omitempty"`
}

// SpaceRef is the space a page belongs to.
type SpaceRef struct {
	Key  string `json:"key,omitempty"`
	Name string `json:"name,omitempty"`
}

// ContentRef points at another piece of content, e.g. an ancestor or a
// space homepage.
type ContentRef struct {
	ID     ContentID `json:"id"`
	Type   string    `json:"type,omitempty"`
	Title  string    `json:"title,omitempty"`
	Status string    `json:"status,omitempty"`
}

// Label is a content label.
type Label struct {
	ID     string `json:"id,omitempty"`
	Prefix string `json:"prefix,omitempty"`
	Name   string `json:"name"`
	Label  string `json:"label,omitempty"`
}

// DisplayName returns the label as Confluence shows it.
func (l Label) DisplayName() string {
	if l.Label != "" {
		return l.Label
	}
	return l.Name
}

// LabelCollection is the "metadata.labels" expansion.
type LabelCollection struct {
	Results []Label `json:"results"`
	Size    int     `json:"size,omitempty"`
}

// Metadata is the content metadata block.
type Metadata struct {
	Labels *LabelCollection `json:"labels,omitempty"`
}

// PageData is the snapshot of a page. Pointer and slice fields are nil when
// the server did not send them, which is how lazy loading decides whether a
// fetch is needed.
type PageData struct {
	ID        *ContentID   `json:"id,omitempty"`
	Type      string       `json:"type,omitempty"`
	Status    string       `json:"status,omitempty"`
	Title     string       `json:"title,omitempty"`
	Space     *SpaceRef    `json:"space,omitempty"`
	Version   *Version     `json:"version,omitempty"`
	Ancestors []ContentRef `json:"ancestors,omitempty"`
	Body      *Body        `json:"body,omitempty"`
	Metadata  *Metadata    `json:"metadata,omitempty"`
	Links     *Links       `json:"_links,omitempty"`
}

func (d *PageData) identifier() (string, bool) {
	if d.ID == nil {
		return "", false
	}
	return d.ID.String(), true
}

func (d *PageData) exists() bool {
	return d.ID != nil
}

func (d *PageData) links() *Links {
	return d.Links
}

// SpaceDescription is the "description" expansion of a space.
type SpaceDescription struct {
	Plain *BodyValue `json:"plain,omitempty"`
}

// SpaceData is the snapshot of a space. Key is chosen by the client; ID is
// assigned by the server when the space is created.
type SpaceData struct {
	ID          *ContentID        `json:"id,omitempty"`
	Key         string            `json:"key,omitempty"`
	Name        string            `json:"name,omitempty"`
	Type        string            `json:"type,omitempty"`
	Status      string            `json:"status,omitempty"`
	Description *SpaceDescription `json:"description,omitempty"`
	Homepage    *ContentRef       `json:"homepage,omitempty"`
	Links       *Links            `json:"_links,omitempty"`
}

func (d *SpaceData) identifier() (string, bool) {
	return d.Key, d.Key != ""
}

func (d *SpaceData) exists() bool {
	return d.ID != nil
}

func (d *SpaceData) links() *Links {
	return d.Links
}

// ScanPage is one page of a content scan.
type ScanPage struct {
	Results    []PageData `json:"results"`
	Limit      int        `json:"limit,omitempty"`
	Size       int        `json:"size,omitempty"`
	Cursor     string     `json:"cursor,omitempty"`
	NextCursor string     `json:"nextCursor,omitempty"`
	PrevCursor string     `json:"prevCursor,omitempty"`
	Links      *Links     `json:"_links,omitempty"`
}
