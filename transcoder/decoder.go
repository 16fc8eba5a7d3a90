package transcoder

import (
	"unicode/utf16"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/internal/dfa"
	"github.com/wippyai/utf8codec/internal/scalar"
)

// decodeState is the decoder state carried between bytes and, for streams,
// between chunks.
type decodeState struct {
	m     dfa.State
	skip  bool  // dropping continuation bytes after a reject
	start int64 // offset of the first byte of the pending sequence
	pos   int64 // offset of the next chunk
}

// run decodes src and appends the resulting code units to dst.
//
// On reject one U+FFFD is emitted and the following continuation bytes are
// skipped. A reject raised mid-sequence by a byte that is not a continuation
// byte does not consume that byte; it starts the next sequence.
func (st *decodeState) run(dst []uint16, src []byte, rep *Report) []uint16 {
	for i := 0; i < len(src); {
		b := src[i]
		if st.skip {
			if dfa.IsContinuation(b) {
				i++
				continue
			}
			st.skip = false
		}

		prev := st.m.State
		if prev == dfa.Accept {
			st.start = st.pos + int64(i)
		}

		switch st.m.Step(b) {
		case dfa.Accept:
			dst = appendScalar(dst, st.m.Scalar)
			i++
		case dfa.Reject:
			dst = append(dst, scalar.RuneError)
			rep.note(int(st.start))
			st.m.Reset()
			if prev != dfa.Accept && !dfa.IsContinuation(b) {
				continue
			}
			st.skip = true
			i++
		default:
			i++
		}
	}
	st.pos += int64(len(src))
	return dst
}

// flush terminates the input. A pending sequence becomes one U+FFFD.
func (st *decodeState) flush(dst []uint16, rep *Report) []uint16 {
	if st.m.State != dfa.Accept {
		dst = append(dst, scalar.RuneError)
		rep.note(int(st.start))
		rep.Truncated = true
	}
	st.m.Reset()
	st.skip = false
	return dst
}

func appendScalar(dst []uint16, r rune) []uint16 {
	if r <= 0xFFFF {
		return append(dst, uint16(r))
	}
	hi, lo := scalar.Split(r)
	return append(dst, hi, lo)
}

// Decoder converts UTF-8 to UTF-16 code units with the table-driven DFA in
// internal/dfa. It is safe for concurrent use; use StreamDecoder for input
// that arrives in chunks.
type Decoder struct {
	opts Options
}

// NewDecoder creates a decoder. The zero Options replace ill-formed sequences
// with U+FFFD and reject input over MaxStringSize bytes.
func NewDecoder(opts Options) *Decoder {
	return &Decoder{opts: opts}
}

var totalDecoder = NewDecoder(Options{MaxSize: Unlimited})

// Decode converts UTF-8 bytes to UTF-16 code units. It never fails:
// ill-formed sequences become U+FFFD.
func Decode(data []byte) []uint16 {
	units, _, _ := totalDecoder.DecodeReport(data)
	return units
}

// DecodeToString decodes data and returns the result as a Go string.
func DecodeToString(data []byte) string {
	return string(utf16.Decode(Decode(data)))
}

// Valid reports whether data is entirely well-formed UTF-8.
func Valid(data []byte) bool {
	return dfa.Valid(data)
}

// Validate reports the first ill-formed or truncated sequence in data.
func Validate(data []byte) error {
	var m dfa.State
	start := 0
	for i, b := range data {
		if m.State == dfa.Accept {
			start = i
		}
		if m.Step(b) == dfa.Reject {
			return errors.InvalidUTF8(errors.PhaseValidate, start, data[start:])
		}
	}
	if m.State != dfa.Accept {
		return errors.InvalidUTF8(errors.PhaseValidate, start, data[start:])
	}
	return nil
}

// Decode converts data to UTF-16 code units.
func (d *Decoder) Decode(data []byte) ([]uint16, error) {
	units, _, err := d.DecodeReport(data)
	return units, err
}

// DecodeReport is Decode that also describes the substitutions it made.
func (d *Decoder) DecodeReport(data []byte) ([]uint16, Report, error) {
	rep := newReport()
	if limit := d.opts.Limit(); len(data) > limit {
		return nil, rep, errors.TooLarge(errors.PhaseDecode, "input", len(data), limit)
	}

	// Every emitted unit consumes at least one byte.
	var st decodeState
	units := st.run(make([]uint16, 0, len(data)), data, &rep)
	units = st.flush(units, &rep)

	if d.opts.Strict && !rep.Clean() {
		return nil, rep, errors.InvalidUTF8(errors.PhaseDecode, rep.First, data[rep.First:])
	}
	return units, rep, nil
}

// DecodeToString decodes data and returns the result as a Go string.
func (d *Decoder) DecodeToString(data []byte) (string, error) {
	units, err := d.Decode(data)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}
