package app

import (
	"context"

	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

// SDK is the part of the Confluence model the commands use. It is satisfied
// by *confluence.Server.
type SDK interface {
	GetPage(ctx context.Context, id confluence.ContentID) (*confluence.Page, error)
	GetSpace(ctx context.Context, key string) (*confluence.Space, error)
	CreateSpace(ctx context.Context, name, key, description string) (*confluence.Space, error)
	NewPage() *confluence.Page
	NewSpace() *confluence.Space
}

var _ SDK = (*confluence.Server)(nil)
