package dfa

const (
	Accept uint8 = 0
	Reject uint8 = 1
)

// State is the decoder state between bytes.
type State struct {
	Scalar rune
	State  uint8
}

// Step feeds one byte and returns the new state. On Accept, s.Scalar holds the
// completed scalar value. On Reject, s.Scalar is meaningless and the caller
// should Reset.
func (s *State) Step(b byte) uint8 {
	class := byteClass[b]
	if s.State != Accept {
		s.Scalar = s.Scalar<<6 | rune(b&0x3F)
	} else {
		s.Scalar = rune(0xFF>>class) & rune(b)
	}
	s.State = transitions[int(s.State)*NumClasses+int(class)]
	return s.State
}

// Reset returns the machine to the initial state.
func (s *State) Reset() {
	s.State = Accept
	s.Scalar = 0
}

// Pending reports whether a multi-byte sequence has started but not completed.
func (s *State) Pending() bool {
	return s.State != Accept && s.State != Reject
}

// IsContinuation reports whether b has the bit pattern 10xxxxxx.
func IsContinuation(b byte) bool {
	return b&0xC0 == 0x80
}

// Valid reports whether p is entirely well-formed UTF-8.
func Valid(p []byte) bool {
	var s State
	for _, b := range p {
		if s.Step(b) == Reject {
			return false
		}
	}
	return s.State == Accept
}
