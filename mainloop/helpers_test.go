package mainloop

// scriptStepper returns Continue until call number terminateAt, then
// Terminate, and Continue again for any later call. It records the sequence
// number of every call and whether the driver's quit flag was set when the
// call was made.
type scriptStepper struct {
	terminateAt int
	flag        *quitFlag

	calls    int
	seq      []int
	flagSeen []bool
}

func (s *scriptStepper) Step() Event {
	s.calls++
	s.seq = append(s.seq, s.calls)
	if s.flag != nil {
		s.flagSeen = append(s.flagSeen, s.flag.stopped())
	}
	if s.calls == s.terminateAt {
		return Terminate
	}
	return Continue
}
