package confluence

import (
	"context"
	"fmt"
)

// Space is a Confluence space. Its primary identifier is the space key.
type Space struct {
	resource[SpaceData, *SpaceData]
}

// NewSpace returns an empty space with the default expansions.
func NewSpace(caller Caller) *Space {
	return &Space{resource: newResource[SpaceData, *SpaceData](caller, "space", spaceEndpointTemplates(), defaultSpaceExpands())}
}

// Key returns the space key.
func (s *Space) Key() string {
	return s.data.Key
}

// SetKey sets the space key.
func (s *Space) SetKey(key string) {
	s.data.Key = key
}

// ID returns the server assigned space id.
func (s *Space) ID() (ContentID, bool) {
	if s.data.ID == nil {
		return 0, false
	}
	return *s.data.ID, true
}

func (s *Space) Name() string {
	return s.data.Name
}

func (s *Space) SetName(name string) {
	s.data.Name = name
}

func (s *Space) Type() string {
	return s.data.Type
}

func (s *Space) SetType(t string) {
	s.data.Type = t
}

func (s *Space) Status() string {
	return s.data.Status
}

func (s *Space) SetStatus(st string) {
	s.data.Status = st
}

// Description returns the plain text description.
func (s *Space) Description() (string, bool) {
	if s.data.Description == nil || s.data.Description.Plain == nil {
		return "", false
	}
	return s.data.Description.Plain.Value, true
}

// SetDescription sets the plain text description.
func (s *Space) SetDescription(description string) {
	if s.data.Description == nil {
		s.data.Description = &SpaceDescription{}
	}
	s.data.Description.Plain = &BodyValue{Value: description, Representation: RepresentationPlain}
}

// HomepageID returns the id of the space homepage.
func (s *Space) HomepageID() (ContentID, bool) {
	if s.data.Homepage == nil {
		return 0, false
	}
	return s.data.Homepage.ID, true
}

// Homepage loads the space homepage. It returns nil when the space has none.
func (s *Space) Homepage(ctx context.Context) (*Page, error) {
	id, ok := s.HomepageID()
	if !ok {
		return nil, nil
	}
	page := NewPage(s.caller)
	page.SetID(id)
	if err := page.Get(ctx); err != nil {
		return nil, err
	}
	return page, nil
}

// checkLoaded fails when the space's last request did not succeed.
func (s *Space) checkLoaded() error {
	if s.HasErrors() {
		return fmt.Errorf("%w: %s", ErrSpaceNotLoaded, s.ErrorMessage())
	}
	return nil
}

// GetPage loads the page with the given id. When the page lives in another
// space its Response is turned into a 404. A failed load keeps the server's
// status and message.
func (s *Space) GetPage(ctx context.Context, id ContentID) (*Page, error) {
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}

	page := NewPage(s.caller)
	page.SetID(id)
	if err := page.Get(ctx); err != nil {
		return nil, err
	}

	if !page.HasErrors() && page.SpaceKey() != s.Key() {
		s.logger.Debugf("page %s belongs to space %q, not %q", id, page.SpaceKey(), s.Key())
		page.LastResponse().markNotFound(fmt.Sprintf("Page %s is not in space %s", id, s.Key()))
	}
	return page, nil
}

// NewPage returns an unsaved page in this space. A zero parentID puts the
// page under the space homepage.
func (s *Space) NewPage(title, body string, parentID ContentID) (*Page, error) {
	if err := s.checkLoaded(); err != nil {
		return nil, err
	}

	page := NewPage(s.caller)
	page.SetSpaceKey(s.Key())
	page.SetTitle(title)
	page.SetBody(body)

	if parentID == 0 {
		parentID, _ = s.HomepageID()
	}
	if parentID != 0 {
		page.SetParentID(parentID)
	}
	return page, nil
}

// RestorePage moves a trashed page back to current. With a non-zero
// parentID the restored page is reloaded and moved under that parent in a
// second save. The two saves are independent; if the second fails the page
// stays restored under its old parent.
func (s *Space) RestorePage(ctx context.Context, pageID ContentID, version int, parentID ContentID) (*Page, error) {
	page := NewPage(s.caller)
	page.SetID(pageID)
	page.SetVersion(version)
	page.SetStatus(StatusCurrent)

	if err := page.Save(ctx); err != nil {
		return page, fmt.Errorf("restoring page %s: %w", pageID, err)
	}
	if parentID == 0 || page.HasErrors() {
		return page, nil
	}

	if err := page.Get(ctx); err != nil {
		return page, fmt.Errorf("reloading restored page %s: %w", pageID, err)
	}
	page.SetParentID(parentID)
	if err := page.Save(ctx); err != nil {
		return page, fmt.Errorf("moving restored page %s: %w", pageID, err)
	}
	return page, nil
}
