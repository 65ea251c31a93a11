package transport

import (
	"encoding/json"
	"net/http"
)

// Response is the HTTP response envelope: status, parsed JSON body
// (a single object or, for batch requests, an array), and the curl
// command that reproduces the request.
type Response struct {
	Status  int
	Body    any
	CurlCmd string
}

// HTMLResponse is the raw-body counterpart used by HTML-fetching probes
// (GraphiQL detection).
type HTMLResponse struct {
	Status  int
	Body    string
	CurlCmd string
}

func newResponse(resp *http.Response, curl string) (*Response, error) {
	var body any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		body = map[string]any{"error": "failed to parse response as JSON"}
	}

	return &Response{
		Status:  resp.StatusCode,
		Body:    body,
		CurlCmd: curl,
	}, nil
}

// object returns Body as a map, if it is one (single GraphQL response).
func (r *Response) object() map[string]any {
	m, _ := r.Body.(map[string]any)
	return m
}

// Array returns Body as a slice, if it is one (batch response).
func (r *Response) Array() ([]any, bool) {
	arr, ok := r.Body.([]any)
	return arr, ok
}

// HasData reports whether the response carries a top-level "data" key.
func (r *Response) HasData() bool {
	obj := r.object()
	if obj == nil {
		return false
	}
	_, ok := obj["data"]
	return ok
}

// HasErrors reports whether the response carries a top-level "errors" key.
func (r *Response) HasErrors() bool {
	obj := r.object()
	if obj == nil {
		return false
	}
	_, ok := obj["errors"]
	return ok
}

// Data returns the "data" object, or nil.
func (r *Response) Data() map[string]any {
	obj := r.object()
	if obj == nil {
		return nil
	}
	data, _ := obj["data"].(map[string]any)
	return data
}

// Errors returns the "errors" array, or nil.
func (r *Response) Errors() []any {
	obj := r.object()
	if obj == nil {
		return nil
	}
	errs, _ := obj["errors"].([]any)
	return errs
}

// ErrorMessages returns the "message" string of every element of
// "errors" that has one.
func (r *Response) ErrorMessages() []string {
	var out []string
	for _, e := range r.Errors() {
		em, ok := e.(map[string]any)
		if !ok {
			continue
		}
		if msg, ok := em["message"].(string); ok {
			out = append(out, msg)
		}
	}
	return out
}

// FirstErrorMessage returns the first error's message, if any.
func (r *Response) FirstErrorMessage() (string, bool) {
	msgs := r.ErrorMessages()
	if len(msgs) == 0 {
		return "", false
	}
	return msgs[0], true
}

// Extensions returns the "extensions" object of the first error entry.
func (r *Response) Extensions() map[string]any {
	errs := r.Errors()
	if len(errs) == 0 {
		return nil
	}
	first, ok := errs[0].(map[string]any)
	if !ok {
		return nil
	}
	ext, _ := first["extensions"].(map[string]any)
	return ext
}

// ErrorsJoined concatenates every error message, space-separated and
// with case preserved, for probes that do substring matching across
// the whole error set.
func (r *Response) ErrorsJoined() string {
	joined := ""
	for _, m := range r.ErrorMessages() {
		joined += m + " "
	}
	return joined
}
