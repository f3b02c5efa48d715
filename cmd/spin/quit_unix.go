//go:build !windows && !(js && wasm)

package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

// registerQuitHandler makes SIGQUIT exit immediately, without waiting for
// the stepper to observe a stop request.
func registerQuitHandler() {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGQUIT)
	go func() {
		<-sigs
		fmt.Fprintln(os.Stderr, "SIGQUIT — exiting immediately")
		os.Exit(1)
	}()
}
