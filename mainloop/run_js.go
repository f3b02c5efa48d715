//go:build js && wasm

package mainloop

import "syscall/js"

// Run takes ownership of s and registers it with the browser's
// requestAnimationFrame, calling s.Step once per frame until it returns
// Terminate. Run never returns: the calling goroutine is parked so that the
// Go runtime yields to the JavaScript event loop, and code after the call is
// never reached.
func Run(s Stepper) {
	schedule(animationFrames{}, s, &quitFlag{})
	select {}
}

// animationFrames is the browser host: a callback re-armed through
// window.requestAnimationFrame after every frame.
type animationFrames struct{}

func (animationFrames) register(callback func()) registration {
	f := &frameLoop{window: js.Global()}
	f.fn = js.FuncOf(func(this js.Value, args []js.Value) any {
		if f.cancelled {
			return nil
		}
		callback()
		if !f.cancelled {
			f.request()
		}
		return nil
	})
	f.request()
	return f
}

type frameLoop struct {
	window    js.Value
	fn        js.Func
	id        js.Value
	cancelled bool
}

func (f *frameLoop) request() {
	f.id = f.window.Call("requestAnimationFrame", f.fn)
}

func (f *frameLoop) cancel() {
	if f.cancelled {
		return
	}
	f.cancelled = true
	if !f.id.IsUndefined() {
		f.window.Call("cancelAnimationFrame", f.id)
	}
	f.fn.Release()
}
