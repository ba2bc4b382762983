package confluence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contentStore is a minimal in-memory content endpoint.
type contentStore struct {
	nextID int
	pages  map[string]json.RawMessage
}

func newContentStore() *contentStore {
	return &contentStore{nextID: 100, pages: map[string]json.RawMessage{}}
}

func (s *contentStore) handle(c call) *Response {
	switch c.Method {
	case "POST":
		var page map[string]any
		_ = json.Unmarshal(c.Body, &page)
		id := fmt.Sprint(s.nextID)
		s.nextID++
		page["id"] = id
		raw, _ := json.Marshal(page)
		s.pages[id] = raw
		return NewResponse(200, raw)
	case "GET":
		id := strings.TrimPrefix(c.Endpoint, "/rest/api/content/")
		raw, ok := s.pages[id]
		if !ok {
			return jsonResponse(404, `{"message":"No content found"}`)
		}
		return NewResponse(200, raw)
	}
	return jsonResponse(405, "")
}

func TestSetBodyIsLocal(t *testing.T) {
	caller := newFakeCaller(t, nil)
	page := NewPage(caller)

	page.SetBody("<p>x</p>")

	storage := page.Snapshot().Body.Storage
	assert.Equal(t, "<p>x</p>", storage.Value)
	assert.Equal(t, "storage", storage.Representation)
	_, ok := page.StatusCode()
	assert.False(t, ok)
	assert.Empty(t, caller.calls)
}

func TestNewPageDefaults(t *testing.T) {
	page := NewPage(nil)
	assert.Equal(t, "page", page.Type())
	assert.Equal(t, []string{"body.storage", "space", "version", "ancestors", "metadata.labels"}, page.Expands())
}

func TestCreateThenGetRoundTrip(t *testing.T) {
	store := newContentStore()
	caller := newFakeCaller(t, store.handle)
	ctx := context.Background()

	page := NewPage(caller)
	page.SetTitle("Runbook")
	page.SetBody("<p>steps</p>")
	page.SetSpaceKey("OPS")
	page.SetParentID(12)
	require.NoError(t, page.Save(ctx))
	require.False(t, page.HasErrors())

	id, ok := page.ID()
	require.True(t, ok)

	loaded := NewPage(caller)
	loaded.SetID(id)
	require.NoError(t, loaded.Get(ctx))

	assert.Equal(t, "Runbook", loaded.Title())
	body, ok, err := loaded.Body(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>steps</p>", body)
	assert.Equal(t, "OPS", loaded.SpaceKey())
	assert.Equal(t, []ContentRef{{ID: 12}}, loaded.Ancestors())
}

func TestCreateSendsMinorEditWithoutBump(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response { return jsonResponse(200, `{"id":"1"}`) })
	page := NewPage(caller)
	page.SetTitle("T")

	require.NoError(t, page.Save(context.Background()))

	body := decodeBody(t, caller.calls[0])
	assert.Equal(t, map[string]any{"minorEdit": true}, body["version"])
	assert.NotContains(t, body, "id")
}

func TestUpdateIncrementsVersion(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response { return NewResponse(200, c.Body) })
	page := NewPage(caller)
	page.SetID(3)
	page.SetVersion(1)

	require.NoError(t, page.Save(context.Background()))

	require.Len(t, caller.calls, 1)
	assert.Equal(t, "PUT", caller.calls[0].Method)
	assert.Equal(t, "/rest/api/content/3", caller.calls[0].Endpoint)
	version := decodeBody(t, caller.calls[0])["version"].(map[string]any)
	assert.EqualValues(t, 2, version["number"])
	assert.Equal(t, true, version["minorEdit"])
	assert.Equal(t, 2, page.Version())
}

func TestBodyLoadsOnce(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response {
		return jsonResponse(200, `{"id":"8","body":{"storage":{"value":"<p>hi</p>","representation":"storage"}}}`)
	})
	page := NewPage(caller)
	page.SetID(8)
	ctx := context.Background()

	body, ok, err := page.Body(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>hi</p>", body)

	_, _, err = page.Body(ctx)
	require.NoError(t, err)
	assert.Len(t, caller.calls, 1)
}

func TestBodyWithoutIDDoesNotFetch(t *testing.T) {
	caller := newFakeCaller(t, nil)
	page := NewPage(caller)

	_, ok, err := page.Body(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, caller.calls)
}

func TestBodyRepresentation(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response {
		return jsonResponse(200, `{"id":"8","body":{"view":{"value":"<p>rendered</p>","representation":"view"}}}`)
	})
	page := NewPage(caller)
	page.SetID(8)
	ctx := context.Background()

	_, ok, err := page.BodyRepresentation(ctx, "wiki")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, caller.calls)

	view, ok, err := page.BodyRepresentation(ctx, BodyView)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "<p>rendered</p>", view)
	assert.Contains(t, caller.calls[0].Params.Get("expand"), "body.view")
}

func TestParent(t *testing.T) {
	t.Run("top level page", func(t *testing.T) {
		caller := newFakeCaller(t, func(c call) *Response { return jsonResponse(200, `{"id":"1","ancestors":[]}`) })
		page := NewPage(caller)
		page.SetID(1)

		parent, err := page.Parent(context.Background())
		require.NoError(t, err)
		assert.Nil(t, parent)
		assert.Len(t, caller.calls, 1)
	})

	t.Run("parent is loaded", func(t *testing.T) {
		caller := newFakeCaller(t, func(c call) *Response {
			if c.Endpoint == "/rest/api/content/2" {
				return jsonResponse(200, `{"id":"2","title":"Parent"}`)
			}
			return jsonResponse(200, `{"id":"1","ancestors":[{"id":"2"},{"id":"3"}]}`)
		})
		page := NewPage(caller)
		page.SetID(1)

		parent, err := page.Parent(context.Background())
		require.NoError(t, err)
		require.NotNil(t, parent)
		assert.Equal(t, "Parent", parent.Title())
		assert.False(t, parent.HasErrors())
		assert.Len(t, caller.calls, 2)
	})
}

func TestSetParentInsertsFirst(t *testing.T) {
	page := NewPage(nil)
	page.SetParentID(1)

	other := NewPage(nil)
	other.SetID(2)
	require.NoError(t, page.SetParent(other))
	require.NoError(t, page.SetParentString("3"))

	assert.Equal(t, []ContentRef{{ID: 3}, {ID: 2}, {ID: 1}}, page.Ancestors())

	assert.ErrorIs(t, page.SetParentString("abc"), ErrInvalidParent)
	assert.ErrorIs(t, page.SetParent(NewPage(nil)), ErrInvalidParent)
	assert.ErrorIs(t, page.SetParent(nil), ErrInvalidParent)
}

func TestLabels(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response {
		return jsonResponse(200, `{"id":"4","metadata":{"labels":{"results":[
			{"prefix":"global","name":"ops","label":"ops"},
			{"prefix":"global","name":"runbook"}]}}}`)
	})
	page := NewPage(caller)
	page.SetID(4)

	labels, ok, err := page.Labels(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"ops", "runbook"}, labels)
}

func TestLabelsAbsent(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response { return jsonResponse(200, `{"id":"4","metadata":{}}`) })
	page := NewPage(caller)
	page.SetID(4)

	labels, ok, err := page.Labels(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, labels)
}

func TestAddAndRemoveLabel(t *testing.T) {
	caller := newFakeCaller(t, nil)
	page := NewPage(caller)
	ctx := context.Background()

	_, err := page.AddLabel(ctx, "ops")
	assert.ErrorIs(t, err, ErrIdentifierNotSet)

	page.SetID(4)
	resp, err := page.AddLabel(ctx, "ops")
	require.NoError(t, err)
	assert.False(t, resp.HasErrors)

	_, err = page.RemoveLabel(ctx, "ops")
	require.NoError(t, err)

	require.Len(t, caller.calls, 2)
	assert.Equal(t, "POST", caller.calls[0].Method)
	assert.Equal(t, "/rest/api/content/4/label/", caller.calls[0].Endpoint)
	assert.Equal(t, map[string]any{"prefix": "global", "name": "ops"}, decodeBody(t, caller.calls[0]))
	assert.Equal(t, "DELETE", caller.calls[1].Method)
	assert.Equal(t, "/rest/api/content/4/label/ops", caller.calls[1].Endpoint)

	// Label calls leave the snapshot alone.
	_, ok := page.StatusCode()
	assert.False(t, ok)
}

func TestRemoveAllLabelsContinuesAfterFailure(t *testing.T) {
	caller := newFakeCaller(t, func(c call) *Response {
		switch {
		case c.Method == "GET":
			return jsonResponse(200, `{"id":"4","metadata":{"labels":{"results":[
				{"name":"a"},{"name":"b"},{"name":"c"}]}}}`)
		case strings.HasSuffix(c.Endpoint, "/b"):
			return jsonResponse(500, `{"message":"boom"}`)
		}
		return jsonResponse(204, "")
	})
	page := NewPage(caller)
	page.SetID(4)

	err := page.RemoveAllLabels(context.Background())
	require.Error(t, err)

	var merr *multierror.Error
	require.True(t, errors.As(err, &merr))
	assert.Len(t, merr.Errors, 1)
	assert.Contains(t, err.Error(), "Internal Server Error: boom")

	var deletes []string
	for _, c := range caller.calls {
		if c.Method == "DELETE" {
			deletes = append(deletes, c.Endpoint)
		}
	}
	assert.Equal(t, []string{
		"/rest/api/content/4/label/a",
		"/rest/api/content/4/label/b",
		"/rest/api/content/4/label/c",
	}, deletes)
}

func TestNewPageFromData(t *testing.T) {
	id := ContentID(77)
	page := NewPageFromData(nil, PageData{ID: &id, Title: "Scanned"})
	assert.Equal(t, "/rest/api/content/77", page.Endpoint(OpGet))
	assert.Equal(t, "Scanned", page.Title())
}

func TestContentIDJSON(t *testing.T) {
	var d struct {
		A ContentID `json:"a"`
		B ContentID `json:"b"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a":"123","b":456}`), &d))
	assert.Equal(t, ContentID(123), d.A)
	assert.Equal(t, ContentID(456), d.B)

	out, err := json.Marshal(ContentID(9))
	require.NoError(t, err)
	assert.Equal(t, `"9"`, string(out))

	assert.Error(t, json.Unmarshal([]byte(`{"a":"x"}`), &d))
}
