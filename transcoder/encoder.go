package transcoder

import (
	"unicode/utf16"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/internal/scalar"
)

// unitKind is the classification of one input position. Preflight and fill
// share classify, so the computed length always equals the written length.
type unitKind uint8

const (
	kindOne     unitKind = iota // U+0000..U+007F
	kindTwo                     // U+0080..U+07FF
	kindThree                   // U+0800..U+FFFF, not a surrogate
	kindPair                    // high+low surrogate, consumes two units
	kindReplace                 // unpaired surrogate, U+FFFD
)

var kindWidth = [...]int{
	kindOne:     1,
	kindTwo:     2,
	kindThree:   3,
	kindPair:    4,
	kindReplace: 3,
}

// Encoder converts UTF-16 code units to UTF-8 in two passes over the input:
// Preflight sizes the output exactly, then the fill writes it. An Encoder
// holds no mutable state and is safe for concurrent use.
type Encoder struct {
	opts Options
}

// NewEncoder creates an encoder. The zero Options replace unpaired surrogates
// with U+FFFD and cap output at MaxStringSize bytes.
func NewEncoder(opts Options) *Encoder {
	return &Encoder{opts: opts}
}

var totalEncoder = NewEncoder(Options{MaxSize: Unlimited})

// Encode converts UTF-16 code units to UTF-8. It never fails: unpaired
// surrogates become U+FFFD.
func Encode(units []uint16) []byte {
	b, _, _ := totalEncoder.EncodeReport(units)
	return b
}

// EncodeString converts a Go string to UTF-16 and then encodes it. Invalid
// UTF-8 in s is replaced by U+FFFD during the first conversion.
func EncodeString(s string) []byte {
	return Encode(Units(s))
}

// Units converts a Go string to UTF-16 code units.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// classify returns the kind of units[i] and the number of units it consumes.
func (e *Encoder) classify(units []uint16, i int) (unitKind, int) {
	u := units[i]
	switch {
	case u < 0x80:
		return kindOne, 1
	case u < 0x800:
		return kindTwo, 1
	case scalar.IsHighSurrogate(u):
		if i+1 < len(units) && scalar.IsLowSurrogate(units[i+1]) {
			return kindPair, 2
		}
		return kindReplace, 1
	case scalar.IsLowSurrogate(u) && e.opts.LoneLow == ReplaceLoneLow:
		return kindReplace, 1
	default:
		return kindThree, 1
	}
}

// Preflight returns the exact number of bytes Encode writes for units.
func (e *Encoder) Preflight(units []uint16) int {
	n := 0
	for i := 0; i < len(units); {
		k, adv := e.classify(units, i)
		n += kindWidth[k]
		i += adv
	}
	return n
}

// fill writes the UTF-8 form of units into dst, which must hold at least
// Preflight(units) bytes, and returns the number of bytes written.
func (e *Encoder) fill(dst []byte, units []uint16, rep *Report) int {
	j := 0
	for i := 0; i < len(units); {
		k, adv := e.classify(units, i)
		u := units[i]
		switch k {
		case kindOne:
			dst[j] = byte(u)
		case kindTwo:
			dst[j] = 0xC0 | byte(u>>6)
			dst[j+1] = 0x80 | byte(u)&0x3F
		case kindThree:
			dst[j] = 0xE0 | byte(u>>12)
			dst[j+1] = 0x80 | byte(u>>6)&0x3F
			dst[j+2] = 0x80 | byte(u)&0x3F
		case kindPair:
			r := scalar.Combine(u, units[i+1])
			dst[j] = 0xF0 | byte(r>>18)
			dst[j+1] = 0x80 | byte(r>>12)&0x3F
			dst[j+2] = 0x80 | byte(r>>6)&0x3F
			dst[j+3] = 0x80 | byte(r)&0x3F
		case kindReplace:
			copy(dst[j:j+3], scalar.RuneErrorUTF8[:])
			rep.note(i)
		}
		j += kindWidth[k]
		i += adv
	}
	return j
}

// Encode converts units to UTF-8 with one allocation of the preflight length.
func (e *Encoder) Encode(units []uint16) ([]byte, error) {
	b, _, err := e.EncodeReport(units)
	return b, err
}

// EncodeReport is Encode that also describes the substitutions it made.
func (e *Encoder) EncodeReport(units []uint16) ([]byte, Report, error) {
	rep := newReport()
	n := e.Preflight(units)
	if limit := e.opts.Limit(); n > limit {
		return nil, rep, errors.TooLarge(errors.PhaseEncode, "output", n, limit)
	}

	dst := make([]byte, n)
	e.fill(dst, units, &rep)
	if err := e.strictErr(units, rep); err != nil {
		return nil, rep, err
	}
	return dst, rep, nil
}

// EncodeInto writes the UTF-8 form of units into dst and returns the number
// of bytes written. dst must hold at least Preflight(units) bytes.
func (e *Encoder) EncodeInto(dst []byte, units []uint16) (int, error) {
	n := e.Preflight(units)
	if len(dst) < n {
		return 0, errors.New(errors.PhaseEncode, errors.KindOutOfBounds).
			Detail("destination holds %d bytes, need %d", len(dst), n).
			Value(n).
			Build()
	}

	rep := newReport()
	w := e.fill(dst, units, &rep)
	if err := e.strictErr(units, rep); err != nil {
		return 0, err
	}
	return w, nil
}

func (e *Encoder) strictErr(units []uint16, rep Report) error {
	if !e.opts.Strict || rep.Clean() {
		return nil
	}
	return errors.LoneSurrogate(errors.PhaseEncode, rep.First, units[rep.First])
}

// ValidUnits reports whether units contain no unpaired surrogates.
func ValidUnits(units []uint16) bool {
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case scalar.IsHighSurrogate(u):
			if i+1 >= len(units) || !scalar.IsLowSurrogate(units[i+1]) {
				return false
			}
			i++
		case scalar.IsLowSurrogate(u):
			return false
		}
	}
	return true
}
