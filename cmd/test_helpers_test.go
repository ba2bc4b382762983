package cmd

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/tonimelisma/confluence-client/internal/app"
	"github.com/tonimelisma/confluence-client/internal/logger"
	"github.com/tonimelisma/confluence-client/pkg/confluence"
)

// newTestApp returns an App whose SDK talks to an httptest server serving mux.
func newTestApp(t *testing.T, mux *http.ServeMux) *app.App {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := confluence.NewClient(confluence.Options{BaseURL: srv.URL, Token: "test-token"})
	require.NoError(t, err)

	return &app.App{
		Section: "default",
		Logger:  logger.NoopLogger{},
		SDK:     confluence.NewServer(client),
	}
}

// newTestCommand returns a command with a background context and the flags
// added by setup, parsed from args.
func newTestCommand(t *testing.T, setup func(*cobra.Command), args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("config", "", "")
	cmd.Flags().String("section", "default", "")
	cmd.Flags().Bool("debug", false, "")
	if setup != nil {
		setup(cmd)
	}
	require.NoError(t, cmd.Flags().Parse(args))
	cmd.SetContext(context.Background())
	return cmd
}

// captureOutput runs f with os.Stdout redirected and returns what it printed.
func captureOutput(t *testing.T, f func()) string {
	t.Helper()
	old := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	f()

	w.Close()
	os.Stdout = old
	out, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(out)
}

// reply writes body as a JSON response.
func reply(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}
