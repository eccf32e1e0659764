package testutil

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// Reply is one scripted response.
type Reply struct {
	Status      int
	ContentType string
	// Body is written verbatim when string or []byte, JSON-encoded otherwise.
	Body   any
	Header map[string]string
	Delay  time.Duration
}

// JSON builds a JSON reply.
func JSON(status int, body any) Reply {
	return Reply{Status: status, ContentType: "application/json", Body: body}
}

// Text builds a text/plain reply.
func Text(status int, body string) Reply {
	return Reply{Status: status, ContentType: "text/plain; charset=utf-8", Body: body}
}

// Call is a recorded request.
type Call struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     []byte
}

// JSONBody decodes the recorded body into a generic map.
func (c Call) JSONBody() map[string]any {
	var m map[string]any
	_ = json.Unmarshal(c.Body, &m)
	return m
}

type route struct {
	replies []Reply
	served  int
}

// APIServer is an httptest server answering from per-route scripts. Each
// route serves its replies in order and repeats the last one.
type APIServer struct {
	*httptest.Server

	mu     sync.Mutex
	routes map[string]*route
	calls  []Call
}

// NewAPIServer starts a server closed at test cleanup.
func NewAPIServer(t testing.TB) *APIServer {
	t.Helper()
	s := &APIServer{routes: make(map[string]*route)}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	t.Cleanup(s.Close)
	return s
}

// On scripts replies for method and path.
func (s *APIServer) On(method, path string, replies ...Reply) *APIServer {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.routes[method+" "+path] = &route{replies: replies}
	return s
}

// Calls returns all recorded requests.
func (s *APIServer) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Call, len(s.calls))
	copy(out, s.calls)
	return out
}

// CallCount returns how many requests hit method and path.
func (s *APIServer) CallCount(method, path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c.Method == method && c.Path == path {
			n++
		}
	}
	return n
}

// LastCall returns the most recent request to method and path.
func (s *APIServer) LastCall(method, path string) (Call, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.calls) - 1; i >= 0; i-- {
		if c := s.calls[i]; c.Method == method && c.Path == path {
			return c, true
		}
	}
	return Call{}, false
}

func (s *APIServer) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	s.calls = append(s.calls, Call{
		Method:   r.Method,
		Path:     r.URL.Path,
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
	})
	rt, ok := s.routes[r.Method+" "+r.URL.Path]
	var reply Reply
	if ok && len(rt.replies) > 0 {
		reply = rt.replies[min(rt.served, len(rt.replies)-1)]
		rt.served++
	}
	s.mu.Unlock()

	if !ok {
		reply = JSON(http.StatusNotFound, map[string]any{"error": "no route for " + r.Method + " " + r.URL.Path})
	}
	if reply.Delay > 0 {
		select {
		case <-time.After(reply.Delay):
		case <-r.Context().Done():
			return
		}
	}
	for k, v := range reply.Header {
		w.Header().Set(k, v)
	}
	if reply.ContentType != "" {
		w.Header().Set("Content-Type", reply.ContentType)
	}
	status := reply.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	switch b := reply.Body.(type) {
	case nil:
	case string:
		_, _ = io.WriteString(w, b)
	case []byte:
		_, _ = w.Write(b)
	default:
		_ = json.NewEncoder(w).Encode(b)
	}
}
