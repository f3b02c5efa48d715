package mainloop

// host is a scheduling facility that re-invokes a callback from its own event
// loop. register must not invoke the callback before it returns.
type host interface {
	register(callback func()) registration
}

// registration is a live recurring callback on a host.
type registration interface {
	cancel()
}

// schedule registers the iteration wrapper for s with h and returns at once;
// all further iterations are driven by h. The callback unregisters itself on
// Terminate.
func schedule(h host, s Stepper, q *quitFlag) {
	var reg registration
	reg = h.register(func() {
		if q.stopped() {
			return
		}
		if iterate(s, q) == Terminate && reg != nil {
			reg.cancel()
		}
	})
}
