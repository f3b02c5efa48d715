// Package notify sends fire-and-forget HTTP notifications for session events.
// The primary use case is ntfy.sh, but any HTTP webhook works.
package notify

import (
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/LISSConsulting/mainloop/internal/session"
)

// Notifier posts plain-text HTTP notifications for selected session events.
type Notifier struct {
	url         string
	title       string
	onTerminate bool
	onError     bool
	onStop      bool
	client      *http.Client
	inflight    sync.WaitGroup
}

// New creates a Notifier. projectName is used as the X-Title header; if empty,
// "spin" is used instead.
func New(notifURL, projectName string, onTerminate, onError, onStop bool) *Notifier {
	title := "spin"
	if projectName != "" {
		title = projectName
	}
	return &Notifier{
		url:         notifURL,
		title:       title,
		onTerminate: onTerminate,
		onError:     onError,
		onStop:      onStop,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// Hook is a session.Recorder Hook. It fires asynchronous POSTs for events
// that match the configured notification flags.
func (n *Notifier) Hook(entry session.LogEntry) {
	switch entry.Kind {
	case session.LogTerminate:
		if n.onTerminate {
			n.send(entry.Message)
		}
	case session.LogError:
		if n.onError {
			n.send(entry.Message)
		}
	case session.LogStopped:
		if n.onStop {
			n.send(entry.Message)
		}
	}
}

// Flush waits up to timeout for in-flight notifications. It reports whether
// all of them finished.
func (n *Notifier) Flush(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		n.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (n *Notifier) send(message string) {
	n.inflight.Add(1)
	go func() {
		defer n.inflight.Done()
		n.post(message)
	}()
}

// post sends a plain-text POST to the configured URL. Errors are silently
// discarded so notification failures never interrupt the run.
func (n *Notifier) post(message string) {
	req, err := http.NewRequest(http.MethodPost, n.url, strings.NewReader(message))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("X-Title", n.title)
	resp, err := n.client.Do(req)
	if err != nil {
		return
	}
	resp.Body.Close()
}
