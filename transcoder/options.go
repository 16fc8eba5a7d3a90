package transcoder

import (
	"github.com/wippyai/utf8codec/internal/scalar"
)

// LoneLowPolicy controls how the encoder treats a low surrogate that is not
// preceded by a high surrogate.
type LoneLowPolicy uint8

const (
	// ReplaceLoneLow encodes an unpaired low surrogate as U+FFFD, the same as
	// an unpaired high surrogate.
	ReplaceLoneLow LoneLowPolicy = iota

	// EncodeLoneLow encodes an unpaired low surrogate as an ordinary three-byte
	// sequence (ED B0..BF xx). The output is not well-formed UTF-8; decoders
	// turn it into U+FFFD. Kept for byte compatibility with older encoders.
	EncodeLoneLow
)

func (p LoneLowPolicy) String() string {
	switch p {
	case ReplaceLoneLow:
		return "replace"
	case EncodeLoneLow:
		return "encode"
	default:
		return "unknown"
	}
}

// ParseLoneLowPolicy maps "replace" and "encode" to a policy.
func ParseLoneLowPolicy(s string) (LoneLowPolicy, bool) {
	switch s {
	case "", "replace":
		return ReplaceLoneLow, true
	case "encode", "legacy":
		return EncodeLoneLow, true
	}
	return ReplaceLoneLow, false
}

// Unlimited disables the MaxSize check.
const Unlimited = -1

// Options configures an Encoder or Decoder. The zero value substitutes
// U+FFFD for malformed input and limits sizes to MaxStringSize.
type Options struct {
	// Strict reports the first malformed unit or byte sequence as an error
	// instead of substituting U+FFFD.
	Strict bool

	LoneLow LoneLowPolicy

	// MaxSize bounds the encoder output and the decoder input in bytes.
	// Zero means MaxStringSize; Unlimited disables the check.
	MaxSize int
}

// MaxStringSize is the default size limit (1 GB).
const MaxStringSize = scalar.MaxStringSize

// Limit returns the effective size limit in bytes.
func (o Options) Limit() int {
	switch {
	case o.MaxSize == 0:
		return MaxStringSize
	case o.MaxSize < 0:
		return int(^uint(0) >> 1)
	default:
		return o.MaxSize
	}
}

// Report describes the substitutions made by one encode or decode call.
type Report struct {
	// Replacements is the number of U+FFFD substitutions.
	Replacements int

	// First is the input offset (unit index for encoding, byte index for
	// decoding) of the first substituted sequence, or -1.
	First int

	// Truncated is set when decoding ended in the middle of a sequence.
	Truncated bool
}

func newReport() Report {
	return Report{First: -1}
}

func (r *Report) note(offset int) {
	if r.Replacements == 0 {
		r.First = offset
	}
	r.Replacements++
}

// Clean reports whether no substitution happened.
func (r Report) Clean() bool {
	return r.Replacements == 0
}
