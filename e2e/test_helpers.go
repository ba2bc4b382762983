//go:build e2e

package e2e

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"
	"time"

	"github.com/spf13/afero"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/internal/config"
	"github.com/tonimelisma/confluence-client/internal/logger"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

// E2ETestHelper provides utilities for E2E testing against a live server.
type E2ETestHelper struct {
	Config *Config
	Server *confluence.Server
	Space  *confluence.Space
	TestID string

	created []confluence.ContentID
}

// NewE2ETestHelper connects to the server of the configured section and
// loads the test space.
func NewE2ETestHelper(t *testing.T) *E2ETestHelper {
	t.Helper()

	cfg := LoadConfig()
	if cfg.SpaceKey == "" {
		t.Fatal(`
E2E Testing Setup Required:

1. Configure a server:
   ./confluence-client config init --section e2e --base-url https://wiki.example.com --token <token>

2. Pick a space the token may write to:
   export CONFLUENCE_E2E_SECTION=e2e
   export CONFLUENCE_E2E_SPACE=SANDBOX

3. Run E2E tests:
   go test -tags=e2e -v ./e2e/...
`)
	}

	path, err := config.DefaultLocation().Path()
	if err != nil {
		t.Fatalf("Failed to resolve config path: %v", err)
	}
	file, err := config.Load(afero.NewOsFs(), path)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}
	sc, err := file.Server(cfg.Section)
	if err != nil {
		t.Fatalf("Failed to read section %s: %v", cfg.Section, err)
	}

	server, err := app.Connect(sc, logger.NewDefaultLogger(testing.Verbose()))
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	h := &E2ETestHelper{
		Config: cfg,
		Server: server,
		TestID: generateTestID(),
	}

	ctx := h.Context(t)
	h.Space, err = server.GetSpace(ctx, cfg.SpaceKey)
	if err != nil {
		t.Fatalf("Failed to load space: %v", err)
	}
	if h.Space.HasErrors() {
		t.Fatalf("Failed to load space %s: %s", cfg.SpaceKey, h.Space.ErrorMessage())
	}

	t.Cleanup(func() {
		h.Cleanup(t)
	})
	return h
}

// Context returns a context bounded by the E2E timeout.
func (h *E2ETestHelper) Context(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), h.Config.Timeout)
	t.Cleanup(cancel)
	return ctx
}

// Title returns a page title unique to this run.
func (h *E2ETestHelper) Title(name string) string {
	return fmt.Sprintf("e2e %s %s", h.TestID, name)
}

// CreatePage creates a page in the test space and schedules it for cleanup.
func (h *E2ETestHelper) CreatePage(t *testing.T, name, body string, parent confluence.ContentID) *confluence.Page {
	t.Helper()

	page, err := h.Space.NewPage(h.Title(name), body, parent)
	if err != nil {
		t.Fatalf("Failed to build page: %v", err)
	}
	if err := page.Save(h.Context(t)); err != nil {
		t.Fatalf("Failed to save page: %v", err)
	}
	if page.HasErrors() {
		t.Fatalf("Failed to create page %q: %s", name, page.ErrorMessage())
	}

	id, _ := page.ID()
	h.created = append(h.created, id)
	return page
}

// Cleanup deletes the pages created by this run, children first.
func (h *E2ETestHelper) Cleanup(t *testing.T) {
	if !h.Config.Cleanup {
		t.Logf("Leaving %d page(s) in space %s", len(h.created), h.Config.SpaceKey)
		return
	}

	ctx := context.Background()
	for i := len(h.created) - 1; i >= 0; i-- {
		page := h.Server.NewPage()
		page.SetID(h.created[i])
		if err := page.Delete(ctx); err != nil || page.HasErrors() {
			t.Logf("Failed to delete page %s: %v %s", h.created[i], err, page.ErrorMessage())
		}
	}
}

func generateTestID() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return time.Now().Format("20060102-150405")
	}
	return time.Now().Format("20060102-150405") + "-" + hex.EncodeToString(b)
}
