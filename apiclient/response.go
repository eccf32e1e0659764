package apiclient

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/BaSui01/genbridge/types"
)

// PayloadKind tells how a response body was decoded.
type PayloadKind int

const (
	PayloadEmpty PayloadKind = iota
	PayloadJSON
	PayloadText
)

func (k PayloadKind) String() string {
	switch k {
	case PayloadJSON:
		return "json"
	case PayloadText:
		return "text"
	default:
		return "empty"
	}
}

// Response is a fully buffered, classified response.
type Response struct {
	StatusCode int
	Header     http.Header
	Kind       PayloadKind
	Raw        []byte
	// Data is the generic decoded payload: map[string]any/[]any/... for JSON,
	// string for text, and an empty map otherwise.
	Data any
}

// Decode unmarshals a JSON payload into v. Empty payloads leave v untouched.
func (r *Response) Decode(v any) error {
	switch r.Kind {
	case PayloadJSON:
		if err := json.Unmarshal(r.Raw, v); err != nil {
			return types.NewError(types.ErrDecode, "failed to decode response").WithCause(err)
		}
		return nil
	case PayloadText:
		return types.Errorf(types.ErrDecode, "response is %s, not JSON", r.Header.Get("Content-Type"))
	default:
		return nil
	}
}

// Text returns the body of a text payload.
func (r *Response) Text() string {
	if s, ok := r.Data.(string); ok {
		return s
	}
	return ""
}

// Decode is the typed form of Response.Decode.
func Decode[T any](resp *Response) (*T, error) {
	var out T
	if err := resp.Decode(&out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestError is returned for any status outside 200–299.
type RequestError struct {
	StatusCode int
	Body       any
	Raw        []byte
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("API request failed with status %d", e.StatusCode)
}

// As lets errors.As view a RequestError as a REQUEST_FAILED *types.Error.
func (e *RequestError) As(target any) bool {
	t, ok := target.(**types.Error)
	if !ok {
		return false
	}
	*t = types.NewError(types.ErrRequestFailed, e.Error()).
		WithHTTPStatus(e.StatusCode).
		WithRetryable(e.StatusCode >= 500 || e.StatusCode == 429)
	return true
}

// AsRequestError finds a *RequestError in err's chain.
func AsRequestError(err error) (*RequestError, bool) {
	var re *RequestError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}

// classify decodes raw by content type. A decode failure on a success status
// is an error; on an error status the RequestError is still produced.
func classify(status int, header http.Header, raw []byte) (*Response, error) {
	resp := &Response{StatusCode: status, Header: header, Raw: raw}
	ct := strings.ToLower(header.Get("Content-Type"))

	var decodeErr error
	switch {
	case strings.Contains(ct, "json") && len(raw) > 0:
		var data any
		if err := json.Unmarshal(raw, &data); err != nil {
			decodeErr = types.NewError(types.ErrDecode, "failed to decode JSON response").
				WithCause(err).WithHTTPStatus(status)
		} else {
			resp.Kind = PayloadJSON
			resp.Data = data
		}
	case strings.Contains(ct, "text/"):
		resp.Kind = PayloadText
		resp.Data = string(raw)
	default:
		resp.Kind = PayloadEmpty
		resp.Data = map[string]any{}
	}

	if status < 200 || status > 299 {
		return nil, &RequestError{StatusCode: status, Body: resp.Data, Raw: raw}
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return resp, nil
}
