package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"reflect"
	"sort"
	"strings"

	"github.com/BaSui01/genbridge/types"
)

// Query holds query parameters. A nil value, including a typed nil pointer,
// means "undefined" and is omitted. Non-nil pointers are dereferenced.
type Query map[string]any

// Request describes one logical call.
type Request struct {
	Method  Method
	Path    string
	Body    any
	Headers map[string]string
	Query   Query
}

// encode builds the query string in sorted key order.
func (q Query) encode() string {
	if len(q) == 0 {
		return ""
	}
	keys := make([]string, 0, len(q))
	for k, v := range q {
		if _, ok := deref(v); !ok {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		if sb.Len() > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(k))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(formatScalar(q[k])))
	}
	return sb.String()
}

// deref unwraps pointers; ok is false when v is nil at any level.
func deref(v any) (any, bool) {
	if v == nil {
		return nil, false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return nil, false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		if rv.IsNil() {
			return nil, false
		}
	}
	return rv.Interface(), true
}

func formatScalar(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		if reflect.ValueOf(val).Kind() == reflect.Ptr {
			inner, _ := deref(val)
			return formatScalar(inner)
		}
		return fmt.Sprint(val)
	}
}

// buildURL joins base and path, ensuring exactly one slash between them.
func buildURL(base, path string, q Query) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := base + path
	if qs := q.encode(); qs != "" {
		if strings.Contains(path, "?") {
			u += "&" + qs
		} else {
			u += "?" + qs
		}
	}
	return u
}

// mergeHeaders applies default < config < custom precedence. Keys are
// canonicalized so "content-type" overrides "Content-Type".
func mergeHeaders(defaults, custom map[string]string) http.Header {
	h := make(http.Header, len(defaults)+len(custom)+1)
	h.Set("Content-Type", "application/json")
	for k, v := range defaults {
		h.Set(k, v)
	}
	for k, v := range custom {
		h.Set(k, v)
	}
	return h
}

// encodeBody serializes body once so every attempt can resend it.
func encodeBody(m Method, body any) ([]byte, error) {
	if body == nil || !m.allowsBody() {
		return nil, nil
	}
	switch b := body.(type) {
	case string:
		return []byte(b), nil
	case []byte:
		return b, nil
	case json.RawMessage:
		return b, nil
	case io.Reader:
		data, err := io.ReadAll(b)
		if err != nil {
			return nil, types.NewError(types.ErrEncode, "failed to read request body").WithCause(err)
		}
		return data, nil
	default:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		if err := enc.Encode(b); err != nil {
			return nil, types.NewError(types.ErrEncode, "failed to encode request body").WithCause(err)
		}
		return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
	}
}
