package cmd

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const runbookPage = `{
	"id": "42",
	"type": "page",
	"status": "current",
	"title": "Runbook",
	"space": {"key": "OPS"},
	"version": {"number": 3},
	"ancestors": [{"id": "7", "type": "page", "title": "Operations"}],
	"body": {"storage": {"value": "<p>restart it</p>", "representation": "storage"}},
	"metadata": {"labels": {"results": [{"prefix": "global", "name": "oncall"}, {"prefix": "global", "name": "howto"}]}}
}`

const operationsPage = `{
	"id": "7",
	"type": "page",
	"status": "current",
	"title": "Operations",
	"space": {"key": "OPS"},
	"version": {"number": 1},
	"ancestors": []
}`

func pageMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /rest/api/content/42", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, runbookPage)
	})
	mux.HandleFunc("GET /rest/api/content/7", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusOK, operationsPage)
	})
	mux.HandleFunc("GET /rest/api/content/404", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusNotFound, `{"message":"No content found with id 404"}`)
	})
	return mux
}

func TestPageGetLogic(t *testing.T) {
	a := newTestApp(t, pageMux())
	cmd := newTestCommand(t, nil)

	out := captureOutput(t, func() {
		require.NoError(t, pageGetLogic(a, cmd, []string{"42"}))
	})
	assert.Contains(t, out, "Runbook")
	assert.Contains(t, out, "OPS")
	assert.Contains(t, out, "oncall, howto")
}

func TestPageGetLogicErrors(t *testing.T) {
	a := newTestApp(t, pageMux())
	cmd := newTestCommand(t, nil)

	err := pageGetLogic(a, cmd, []string{"404"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Not Found")
	assert.Contains(t, err.Error(), "status 404")

	err = pageGetLogic(a, cmd, []string{"abc"})
	assert.ErrorContains(t, err, `invalid page id "abc"`)
}

func TestPageBodyLogic(t *testing.T) {
	a := newTestApp(t, pageMux())
	setup := func(c *cobra.Command) { c.Flags().String("format", "storage", "") }

	out := captureOutput(t, func() {
		require.NoError(t, pageBodyLogic(a, newTestCommand(t, setup), []string{"42"}))
	})
	assert.Contains(t, out, "<p>restart it</p>")

	err := pageBodyLogic(a, newTestCommand(t, setup, "--format", "wiki"), []string{"42"})
	assert.ErrorContains(t, err, `no "wiki" body`)
}

func TestPageCreateLogic(t *testing.T) {
	var created map[string]any
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/api/content", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
		reply(w, http.StatusOK, `{"id":"99","type":"page","title":"New","space":{"key":"OPS"},"version":{"number":1}}`)
	})
	a := newTestApp(t, mux)

	bodyFile := filepath.Join(t.TempDir(), "body.html")
	require.NoError(t, os.WriteFile(bodyFile, []byte("<p>from file</p>"), 0o600))

	cmd := newTestCommand(t, func(c *cobra.Command) {
		c.Flags().String("space", "", "")
		c.Flags().String("title", "", "")
		c.Flags().String("parent", "", "")
		addBodyFlags(c)
	}, "--space", "OPS", "--title", "New", "--parent", "7", "--body-file", bodyFile)

	out := captureOutput(t, func() {
		require.NoError(t, pageCreateLogic(a, cmd))
	})
	assert.Contains(t, out, `Created page 99 "New" in space OPS.`)

	assert.Equal(t, "New", created["title"])
	assert.Equal(t, map[string]any{"key": "OPS"}, created["space"])
	ancestors := created["ancestors"].([]any)
	require.Len(t, ancestors, 1)
	assert.Equal(t, "7", ancestors[0].(map[string]any)["id"])
	storage := created["body"].(map[string]any)["storage"].(map[string]any)
	assert.Equal(t, "<p>from file</p>", storage["value"])
}

func TestPageCreateLogicInvalidParent(t *testing.T) {
	a := newTestApp(t, http.NewServeMux())
	cmd := newTestCommand(t, func(c *cobra.Command) {
		c.Flags().String("space", "", "")
		c.Flags().String("title", "", "")
		c.Flags().String("parent", "", "")
		addBodyFlags(c)
	}, "--space", "OPS", "--title", "New", "--parent", "seven")

	err := pageCreateLogic(a, cmd)
	assert.ErrorContains(t, err, "invalid parent")
}

func TestPageUpdateLogic(t *testing.T) {
	var updated map[string]any
	mux := pageMux()
	mux.HandleFunc("PUT /rest/api/content/42", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&updated))
		reply(w, http.StatusOK, `{"id":"42","type":"page","title":"Runbook v2","space":{"key":"OPS"},"version":{"number":4}}`)
	})
	a := newTestApp(t, mux)

	cmd := newTestCommand(t, func(c *cobra.Command) {
		c.Flags().String("title", "", "")
		c.Flags().String("parent", "", "")
		addBodyFlags(c)
	}, "--title", "Runbook v2")

	out := captureOutput(t, func() {
		require.NoError(t, pageUpdateLogic(a, cmd, []string{"42"}))
	})
	assert.Contains(t, out, "Updated page 42 to version 4.")

	assert.Equal(t, "Runbook v2", updated["title"])
	version := updated["version"].(map[string]any)
	assert.EqualValues(t, 4, version["number"])
	assert.Equal(t, true, version["minorEdit"])
}

func TestPageUpdateLogicConflict(t *testing.T) {
	mux := pageMux()
	mux.HandleFunc("PUT /rest/api/content/42", func(w http.ResponseWriter, r *http.Request) {
		reply(w, http.StatusConflict, `{"message":"Version must be incremented on update"}`)
	})
	a := newTestApp(t, mux)

	cmd := newTestCommand(t, func(c *cobra.Command) {
		c.Flags().String("title", "", "")
		c.Flags().String("parent", "", "")
		addBodyFlags(c)
	}, "--body", "<p>new</p>")

	err := pageUpdateLogic(a, cmd, []string{"42"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Version must be incremented on update")
	assert.Contains(t, err.Error(), "status 409")
}

func TestPageDeleteLogic(t *testing.T) {
	deleted := false
	mux := http.NewServeMux()
	mux.HandleFunc("DELETE /rest/api/content/42", func(w http.ResponseWriter, r *http.Request) {
		deleted = true
		w.WriteHeader(http.StatusNoContent)
	})
	a := newTestApp(t, mux)

	out := captureOutput(t, func() {
		require.NoError(t, pageDeleteLogic(a, newTestCommand(t, nil), []string{"42"}))
	})
	assert.True(t, deleted)
	assert.Contains(t, out, "Deleted page 42.")
}

func TestPageParentLogic(t *testing.T) {
	a := newTestApp(t, pageMux())

	out := captureOutput(t, func() {
		require.NoError(t, pageParentLogic(a, newTestCommand(t, nil), []string{"42"}))
	})
	assert.Contains(t, out, "Operations")

	out = captureOutput(t, func() {
		require.NoError(t, pageParentLogic(a, newTestCommand(t, nil), []string{"7"}))
	})
	assert.Contains(t, out, "Page 7 is a top level page.")
}

func TestPageLabelsLogic(t *testing.T) {
	a := newTestApp(t, pageMux())

	out := captureOutput(t, func() {
		require.NoError(t, pageLabelsLogic(a, newTestCommand(t, nil), []string{"42"}))
	})
	assert.Contains(t, out, "Labels on page 42:")
	assert.Contains(t, out, "oncall")
	assert.Contains(t, out, "howto")
}

func TestPageLabelAddLogic(t *testing.T) {
	var mu sync.Mutex
	var added []string
	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/api/content/42/label/", func(w http.ResponseWriter, r *http.Request) {
		var label struct {
			Prefix string `json:"prefix"`
			Name   string `json:"name"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&label))
		assert.Equal(t, "global", label.Prefix)
		mu.Lock()
		added = append(added, label.Name)
		mu.Unlock()
		reply(w, http.StatusOK, `{"results":[]}`)
	})
	a := newTestApp(t, mux)

	out := captureOutput(t, func() {
		require.NoError(t, pageLabelAddLogic(a, newTestCommand(t, nil), []string{"42", "oncall", "howto"}))
	})
	assert.Equal(t, []string{"oncall", "howto"}, added)
	assert.Contains(t, out, "Added 2 label(s) to page 42.")
}

func TestPageLabelRmLogic(t *testing.T) {
	var removed []string
	mux := pageMux()
	mux.HandleFunc("DELETE /rest/api/content/42/label/{name}", func(w http.ResponseWriter, r *http.Request) {
		removed = append(removed, r.PathValue("name"))
		if r.PathValue("name") == "howto" {
			reply(w, http.StatusForbidden, `{"message":"not allowed"}`)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	a := newTestApp(t, mux)
	setup := func(c *cobra.Command) { c.Flags().Bool("all", false, "") }

	t.Run("named", func(t *testing.T) {
		removed = nil
		out := captureOutput(t, func() {
			require.NoError(t, pageLabelRmLogic(a, newTestCommand(t, setup), []string{"42", "oncall"}))
		})
		assert.Equal(t, []string{"oncall"}, removed)
		assert.Contains(t, out, "Removed 1 label(s) from page 42.")
	})

	t.Run("all continues past failures", func(t *testing.T) {
		removed = nil
		err := pageLabelRmLogic(a, newTestCommand(t, setup, "--all"), []string{"42"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), `removing label "howto"`)
		assert.Equal(t, []string{"oncall", "howto"}, removed)
	})

	t.Run("needs names or all", func(t *testing.T) {
		assert.Error(t, pageLabelRmLogic(a, newTestCommand(t, setup), []string{"42"}))
		assert.Error(t, pageLabelRmLogic(a, newTestCommand(t, setup, "--all"), []string{"42", "oncall"}))
	})
}
