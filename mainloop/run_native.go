//go:build !(js && wasm)

package mainloop

// Run takes ownership of s and calls s.Step until it returns Terminate, then
// returns to the caller. The caller must not use s afterwards.
func Run(s Stepper) {
	runDirect(s, &quitFlag{})
}

func runDirect(s Stepper, q *quitFlag) {
	for {
		iterate(s, q)
		if q.stopped() {
			break
		}
	}
}
