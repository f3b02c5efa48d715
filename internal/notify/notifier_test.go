package notify

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/LISSConsulting/mainloop/internal/session"
)

type delivery struct {
	method      string
	body        string
	contentType string
	title       string
}

// recorder is an httptest.Server that keeps every POST it receives.
type recorder struct {
	*httptest.Server
	mu  sync.Mutex
	got []delivery
}

func newRecorder(t *testing.T) *recorder {
	t.Helper()
	rec := &recorder{}
	rec.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		rec.mu.Lock()
		rec.got = append(rec.got, delivery{
			method:      r.Method,
			body:        string(body),
			contentType: r.Header.Get("Content-Type"),
			title:       r.Header.Get("X-Title"),
		})
		rec.mu.Unlock()
	}))
	t.Cleanup(rec.Close)
	return rec
}

func (r *recorder) bodies() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.got))
	for i, d := range r.got {
		out[i] = d.body
	}
	sort.Strings(out) // deliveries race each other
	return out
}

// everyKind is one entry of each kind, with the kind name as message.
func everyKind() []session.LogEntry {
	kinds := []session.LogKind{
		session.LogInfo, session.LogRunStart, session.LogStep, session.LogTerminate,
		session.LogError, session.LogDone, session.LogStopped,
	}
	entries := make([]session.LogEntry, len(kinds))
	for i, k := range kinds {
		entries[i] = session.LogEntry{Kind: k, Message: k.String()}
	}
	return entries
}

func TestHook_Filtering(t *testing.T) {
	tests := []struct {
		name                         string
		onTerminate, onError, onStop bool
		want                         []string
	}{
		{name: "all disabled", want: []string{}},
		{name: "terminate only", onTerminate: true, want: []string{"terminate"}},
		{name: "error only", onError: true, want: []string{"error"}},
		{name: "stop only", onStop: true, want: []string{"stopped"}},
		{name: "all enabled", onTerminate: true, onError: true, onStop: true, want: []string{"error", "stopped", "terminate"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecorder(t)
			n := New(srv.URL, "demo", tt.onTerminate, tt.onError, tt.onStop)
			for _, e := range everyKind() {
				n.Hook(e)
			}
			if !n.Flush(2 * time.Second) {
				t.Fatal("Flush timed out")
			}

			got := srv.bodies()
			if len(got) != len(tt.want) {
				t.Fatalf("delivered %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("delivery %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestHook_RequestShape(t *testing.T) {
	tests := []struct {
		name      string
		project   string
		wantTitle string
	}{
		{name: "project title", project: "countdown", wantTitle: "countdown"},
		{name: "fallback title", project: "", wantTitle: "spin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newRecorder(t)
			n := New(srv.URL, tt.project, true, false, false)
			n.Hook(session.LogEntry{Kind: session.LogTerminate, Message: "Terminated after 3 steps"})
			n.Flush(2 * time.Second)

			srv.mu.Lock()
			defer srv.mu.Unlock()
			if len(srv.got) != 1 {
				t.Fatalf("expected 1 request, got %d", len(srv.got))
			}
			d := srv.got[0]
			if d.method != http.MethodPost {
				t.Errorf("method = %q, want POST", d.method)
			}
			if d.body != "Terminated after 3 steps" {
				t.Errorf("body = %q", d.body)
			}
			if d.contentType != "text/plain" {
				t.Errorf("Content-Type = %q, want text/plain", d.contentType)
			}
			if d.title != tt.wantTitle {
				t.Errorf("X-Title = %q, want %q", d.title, tt.wantTitle)
			}
		})
	}
}

func TestHook_UnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := New(srv.URL, "", true, true, true)
	for _, e := range everyKind() {
		n.Hook(e)
	}
	if !n.Flush(2 * time.Second) {
		t.Error("Flush timed out on a refused connection")
	}
}

func TestFlush(t *testing.T) {
	t.Run("nothing in flight", func(t *testing.T) {
		n := New("http://127.0.0.1:1", "", false, false, false)
		if !n.Flush(10 * time.Millisecond) {
			t.Error("Flush with nothing in flight should return true")
		}
	})

	t.Run("slow endpoint times out", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			<-release
		}))
		defer srv.Close()
		defer close(release)

		n := New(srv.URL, "", true, false, false)
		n.Hook(session.LogEntry{Kind: session.LogTerminate, Message: "x"})
		if n.Flush(20 * time.Millisecond) {
			t.Error("Flush should report undelivered notifications")
		}
	})
}
