//go:build !(js && wasm)

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/LISSConsulting/mainloop/internal/session"
	"github.com/LISSConsulting/mainloop/internal/tui"
	"github.com/LISSConsulting/mainloop/mainloop"
)

// runPlain drives rec on the calling goroutine. Entries are written to
// rec.Log as they happen.
func runPlain(rec *session.Recorder) {
	mainloop.Run(rec)
	rec.Done()
}

// runWithTUI drives rec on a background goroutine and renders its entries
// with the bubbletea TUI on the calling one. The program exits when the
// driver closes the events channel.
func runWithTUI(rec *session.Recorder, stop *session.StopRequest, accentColor, project string) error {
	events := make(chan session.LogEntry, 128)
	rec.Events = events

	driverDone := make(chan struct{})
	go func() {
		defer close(driverDone)
		defer close(events)
		mainloop.Run(rec)
		rec.Done()
	}()

	model := tui.New(events, accentColor, project, stop.Request)
	program := tea.NewProgram(model, tea.WithAltScreen())
	final, tuiErr := program.Run()

	// The TUI may exit before the run ends (second stop key, program error).
	// Ask the stepper to finish and keep draining so the recorder never
	// blocks on a full channel.
	if m, ok := final.(tui.Model); !ok || !m.Done() {
		stop.Request()
	}
	go func() {
		for range events {
		}
	}()
	<-driverDone

	if tuiErr != nil {
		return fmt.Errorf("tui: %w", tuiErr)
	}
	return nil
}

// stopOnSignal raises stop on SIGINT or SIGTERM. The returned function
// detaches the handler.
func stopOnSignal(stop *session.StopRequest) func() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt, syscall.SIGTERM)
	done := make(chan struct{})
	go func() {
		select {
		case <-sigs:
			fmt.Fprintln(os.Stderr, "stop requested — finishing current step")
			stop.Request()
		case <-done:
		}
	}()
	return func() {
		signal.Stop(sigs)
		close(done)
	}
}
