package confluence

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// statusCategories maps the statuses Confluence documents to the prefix of
// the error text reported in a Response.
var statusCategories = map[int]string{
	StatusBadRequest:         "Bad Request",
	StatusUnauthorized:       "Unauthorized",
	StatusForbidden:          "Forbidden",
	StatusNotFound:           "Not Found",
	StatusMethodNotAllowed:   "Method Not Allowed",
	StatusConflict:           "Conflict",
	StatusTooManyRequests:    "Too Many Requests",
	StatusRetryWith:          "Retry With",
	StatusInternalError:      "Internal Server Error",
	StatusServiceUnavailable: "Service Unavailable",
	StatusGatewayTimeout:     "Gateway Timeout",
}

// Response is the normalized result of every transport call. Data always
// holds a JSON document; it is "{}" when the server sent nothing usable.
type Response struct {
	StatusCode   int
	Data         json.RawMessage
	ErrorMessage string
	HasErrors    bool
}

// NewResponse normalizes a raw HTTP status and body.
//
// 202 and 204 become 200 with an empty object. A body that is not JSON is
// replaced by an empty object. Any status other than 200 is an error; the
// error text is the server's "message" (or "Unknown Error"), prefixed with
// the status category for the statuses listed in statusCategories.
func NewResponse(status int, body []byte) *Response {
	if status == StatusAccepted || status == StatusNoContent {
		return &Response{StatusCode: StatusOK, Data: emptyObject()}
	}

	data := emptyObject()
	if trimmed := bytes.TrimSpace(body); len(trimmed) > 0 && json.Valid(trimmed) {
		data = json.RawMessage(trimmed)
	}

	resp := &Response{
		StatusCode: status,
		Data:       data,
		HasErrors:  status != StatusOK,
	}
	if resp.HasErrors {
		resp.ErrorMessage = errorText(status, serverMessage(data))
	}
	return resp
}

// failedResponse is returned when no usable response was received at all.
func failedResponse(err error) *Response {
	msg := msgNoServerData
	if err != nil {
		msg = fmt.Sprintf("%s: %v", msgNoServerData, err)
	}
	return &Response{
		StatusCode:   StatusBadRequest,
		Data:         emptyObject(),
		ErrorMessage: msg,
		HasErrors:    true,
	}
}

// Decode unmarshals the response data into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(r.Data, v); err != nil {
		return fmt.Errorf("%w: %w", ErrDecodingFailed, err)
	}
	return nil
}

// Err returns nil for a successful response and a *ResponseError otherwise.
func (r *Response) Err() error {
	if r == nil {
		return &ResponseError{Message: msgDataNotLoaded}
	}
	if !r.HasErrors {
		return nil
	}
	return &ResponseError{StatusCode: r.StatusCode, Message: r.ErrorMessage}
}

// markNotFound rewrites r in place into a 404 carrying message.
func (r *Response) markNotFound(message string) {
	r.StatusCode = StatusNotFound
	r.ErrorMessage = message
	r.HasErrors = true
}

// ResponseError carries a failed Response as a Go error. Kind, when set, is
// the sentinel the error unwraps to.
type ResponseError struct {
	StatusCode int
	Message    string
	Kind       error
}

func (e *ResponseError) Error() string {
	if e.Kind != nil {
		return fmt.Sprintf("%v: %s (status %d)", e.Kind, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("%s (status %d)", e.Message, e.StatusCode)
}

func (e *ResponseError) Unwrap() error {
	return e.Kind
}

func errorText(status int, message string) string {
	if category, ok := statusCategories[status]; ok {
		return category + ": " + message
	}
	return fmt.Sprintf("HTTP %d: %s", status, message)
}

func serverMessage(data json.RawMessage) string {
	var body struct {
		Message *string `json:"message"`
	}
	if err := json.Unmarshal(data, &body); err != nil || body.Message == nil {
		return msgUnknownError
	}
	return *body.Message
}

func emptyObject() json.RawMessage {
	return json.RawMessage("{}")
}
