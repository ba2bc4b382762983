package confluence

import (
	"context"
	"fmt"
)

// Server is the entry point for loading and creating pages and spaces.
type Server struct {
	caller Caller
}

// NewServer returns a Server using caller for all requests.
func NewServer(caller Caller) *Server {
	return &Server{caller: caller}
}

// Caller returns the transport used by the server.
func (s *Server) Caller() Caller {
	return s.caller
}

// GetPage loads a page by id. Check HasErrors on the result.
func (s *Server) GetPage(ctx context.Context, id ContentID) (*Page, error) {
	page := NewPage(s.caller)
	page.SetID(id)
	if err := page.Get(ctx); err != nil {
		return nil, fmt.Errorf("getting page %s: %w", id, err)
	}
	return page, nil
}

// GetSpace loads a space by key. Check HasErrors on the result.
func (s *Server) GetSpace(ctx context.Context, key string) (*Space, error) {
	space := NewSpace(s.caller)
	space.SetKey(key)
	if err := space.Get(ctx); err != nil {
		return nil, fmt.Errorf("getting space %q: %w", key, err)
	}
	return space, nil
}

// CreateSpace creates a space. An empty description is not sent.
func (s *Server) CreateSpace(ctx context.Context, name, key, description string) (*Space, error) {
	space := NewSpace(s.caller)
	space.SetKey(key)
	space.SetName(name)
	if description != "" {
		space.SetDescription(description)
	}
	if err := space.Save(ctx); err != nil {
		return nil, fmt.Errorf("creating space %q: %w", key, err)
	}
	return space, nil
}

// NewPage returns an empty page bound to the server's transport.
func (s *Server) NewPage() *Page {
	return NewPage(s.caller)
}

// NewSpace returns an empty space bound to the server's transport.
func (s *Server) NewSpace() *Space {
	return NewSpace(s.caller)
}
