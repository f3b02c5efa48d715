//go:build js && wasm

// Command spin-web runs the countdown demo in a browser. Build with
//
//	GOOS=js GOARCH=wasm go build -o spin.wasm ./cmd/spin-web
//
// and load it with wasm_exec.js from the Go distribution. Each animation
// frame advances the countdown by one step and appends a line to the
// element with id "log" (created when missing).
package main

import (
	"strings"
	"syscall/js"

	"github.com/LISSConsulting/mainloop/internal/session"
	"github.com/LISSConsulting/mainloop/mainloop"
)

const steps = 120

func main() {
	out := newDOMWriter("log")
	rec := &session.Recorder{
		Inner:    &session.Countdown{Remaining: steps},
		Project:  "spin-web",
		MaxSteps: steps,
		Log:      out,
	}

	mainloop.Run(rec)

	// Unreachable under js/wasm: Run parks this goroutine and the browser
	// keeps calling the stepper from requestAnimationFrame.
	rec.Done()
}

// domWriter appends each written line as a <div> to a container element.
type domWriter struct {
	doc       js.Value
	container js.Value
}

func newDOMWriter(id string) *domWriter {
	doc := js.Global().Get("document")
	el := doc.Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		el = doc.Call("createElement", "pre")
		el.Set("id", id)
		doc.Get("body").Call("appendChild", el)
	}
	return &domWriter{doc: doc, container: el}
}

func (w *domWriter) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		div := w.doc.Call("createElement", "div")
		div.Set("textContent", line)
		w.container.Call("appendChild", div)
	}
	return len(p), nil
}
