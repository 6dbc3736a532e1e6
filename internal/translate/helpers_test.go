package translate_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alnah/go-classic-translate/internal/translate"
)

// stubResponse is one canned HTTP reply.
type stubResponse struct {
	status int
	body   string
}

// stubServer replies with responses in order, repeating the last one.
// It records the number of requests and the last request body.
type stubServer struct {
	*httptest.Server
	calls    atomic.Int32
	lastPath atomic.Value
	lastBody atomic.Value
}

func newStubServer(t *testing.T, responses ...stubResponse) *stubServer {
	t.Helper()
	s := &stubServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(s.calls.Add(1)) - 1
		body, _ := io.ReadAll(r.Body)
		s.lastPath.Store(r.URL.Path)
		s.lastBody.Store(string(body))

		resp := responses[min(n, len(responses)-1)]
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(resp.status)
		_, _ = w.Write([]byte(resp.body))
	}))
	t.Cleanup(s.Close)
	return s
}

func (s *stubServer) Calls() int {
	return int(s.calls.Load())
}

func (s *stubServer) Body() string {
	b, _ := s.lastBody.Load().(string)
	return b
}

func (s *stubServer) Path() string {
	p, _ := s.lastPath.Load().(string)
	return p
}

// fastRetry keeps retry tests quick.
func fastRetry(n int) []translate.Option {
	return []translate.Option{
		translate.WithMaxRetries(n),
		translate.WithRetryDelays(time.Millisecond, time.Millisecond),
	}
}
