package confluence

import (
	"context"
	"encoding/json"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

type call struct {
	Method   string
	Endpoint string
	Params   url.Values
	Body     json.RawMessage
}

// fakeCaller records every call and answers with handler.
type fakeCaller struct {
	t       *testing.T
	calls   []call
	handler func(c call) *Response
}

func newFakeCaller(t *testing.T, handler func(c call) *Response) *fakeCaller {
	return &fakeCaller{t: t, handler: handler}
}

func (f *fakeCaller) record(method, endpoint string, params url.Values, body any) *Response {
	c := call{Method: method, Endpoint: endpoint, Params: params}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(f.t, err)
		c.Body = raw
	}
	f.calls = append(f.calls, c)
	if f.handler == nil {
		return NewResponse(StatusOK, []byte("{}"))
	}
	return f.handler(c)
}

func (f *fakeCaller) Get(_ context.Context, endpoint string, params url.Values) *Response {
	return f.record("GET", endpoint, params, nil)
}

func (f *fakeCaller) Post(_ context.Context, endpoint string, body any) *Response {
	return f.record("POST", endpoint, nil, body)
}

func (f *fakeCaller) Put(_ context.Context, endpoint string, body any) *Response {
	return f.record("PUT", endpoint, nil, body)
}

func (f *fakeCaller) Delete(_ context.Context, endpoint string) *Response {
	return f.record("DELETE", endpoint, nil, nil)
}

func jsonResponse(status int, body string) *Response {
	return NewResponse(status, []byte(body))
}

// decodeBody unmarshals the body of a recorded call into a generic map.
func decodeBody(t *testing.T, c call) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(c.Body, &m))
	return m
}
