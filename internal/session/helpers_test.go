package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"
)

// recordedRequest is one call seen by the fake API.
type recordedRequest struct {
	Method    string
	Body      map[string]interface{}
	RequestID string
}

// fakeAPI is an httptest server speaking /u/auth. respond decides the status
// and JSON payload per request; a nil payload sends an empty body.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []recordedRequest
	respond  func(r *http.Request, body map[string]interface{}) (int, interface{})
}

func newFakeAPI(t *testing.T, respond func(r *http.Request, body map[string]interface{}) (int, interface{})) *fakeAPI {
	t.Helper()

	api := &fakeAPI{respond: respond}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != authPath {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		raw, _ := io.ReadAll(r.Body)
		var body map[string]interface{}
		_ = json.Unmarshal(raw, &body)

		api.mu.Lock()
		api.requests = append(api.requests, recordedRequest{
			Method:    r.Method,
			Body:      body,
			RequestID: r.Header.Get(RequestIDHeader),
		})
		api.mu.Unlock()

		status, payload := api.respond(r, body)
		if payload != nil {
			w.Header().Set("Content-Type", "application/json")
		}
		w.WriteHeader(status)
		if payload != nil {
			switch p := payload.(type) {
			case string:
				_, _ = io.WriteString(w, p)
			default:
				_ = json.NewEncoder(w).Encode(p)
			}
		}
	}))
	t.Cleanup(api.Close)

	return api
}

// calls returns the recorded requests with the given method.
func (a *fakeAPI) calls(method string) []recordedRequest {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []recordedRequest
	for _, req := range a.requests {
		if req.Method == method {
			out = append(out, req)
		}
	}
	return out
}

// authkeyResponse is a successful POST/PATCH payload.
func authkeyResponse(key string, expires int64) map[string]interface{} {
	return map[string]interface{}{"authkey": key, "expires": expires}
}

// newTestClient creates a client whose refresher effectively never fires.
func newTestClient(t *testing.T, baseURL string, opts ...Option) *Client {
	t.Helper()

	opts = append([]Option{WithRefreshInterval(time.Hour)}, opts...)
	c, err := New(baseURL, opts...)
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	t.Cleanup(func() { c.Close(context.Background()) })
	return c
}

// recordingLogger captures console lines per level.
type recordingLogger struct {
	mu    sync.Mutex
	debug []string
	info  []string
	errs  []string
}

func (l *recordingLogger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.debug = append(l.debug, sprintf(format, args...))
}

func (l *recordingLogger) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.info = append(l.info, sprintf(format, args...))
}

func (l *recordingLogger) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errs = append(l.errs, sprintf(format, args...))
}

func (l *recordingLogger) total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.debug) + len(l.info) + len(l.errs)
}

func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
