package codec

import (
	"encoding/binary"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	utf8codec "github.com/wippyai/utf8codec"
	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/internal/scalar"
	"github.com/wippyai/utf8codec/transcoder"
)

// Strategy names.
const (
	NameNative = "native"
	NamePure   = "pure"
)

// Strategy is one way of running the codec. Available reports whether the
// strategy can honor the configuration it was built with.
type Strategy interface {
	utf8codec.Codec
	Name() string
	Available() bool
}

// New builds the named strategy for cfg.
func New(name string, cfg Config) (Strategy, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	switch name {
	case NameNative:
		return NewNative(opts), nil
	case NamePure:
		return NewPure(opts), nil
	}
	return nil, errors.NotFound(errors.PhaseSelect, "strategy", name)
}

// Pure runs the table-driven transcoder.
type Pure struct {
	enc *transcoder.Encoder
	dec *transcoder.Decoder
}

func NewPure(opts transcoder.Options) *Pure {
	return &Pure{
		enc: transcoder.NewEncoder(opts),
		dec: transcoder.NewDecoder(opts),
	}
}

func (p *Pure) Name() string    { return NamePure }
func (p *Pure) Available() bool { return true }

func (p *Pure) Encode(units []uint16) ([]byte, error) {
	return p.enc.Encode(units)
}

func (p *Pure) Decode(data []byte) ([]uint16, error) {
	return p.dec.Decode(data)
}

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// Native delegates to the golang.org/x/text UTF-8 and UTF-16 codecs.
//
// x/text substitutes per maximal subpart and folds some runs of unpaired
// surrogates into one U+FFFD, so both directions are fed input that is
// already well-formed: unpaired units become U+FFFD before the UTF-16
// decoder, and ill-formed UTF-8 goes through transcoder.Sanitizer first.
// Native is unavailable under strict options or the legacy lone-low policy.
type Native struct {
	opts transcoder.Options
}

func NewNative(opts transcoder.Options) *Native {
	return &Native{opts: opts}
}

func (n *Native) Name() string { return NameNative }

func (n *Native) Available() bool {
	return !n.opts.Strict && n.opts.LoneLow == transcoder.ReplaceLoneLow
}

func (n *Native) Encode(units []uint16) ([]byte, error) {
	// Every unit produces at least one byte.
	limit := n.opts.Limit()
	if len(units) > limit {
		return nil, errors.TooLarge(errors.PhaseEncode, "output", len(units), limit)
	}

	out, err := utf16le.NewDecoder().Bytes(pairedLE(units))
	if err != nil {
		return nil, errors.Wrap(errors.PhaseEncode, errors.KindInvalidInput, err, "x/text utf-16 decoder")
	}
	if len(out) > limit {
		return nil, errors.TooLarge(errors.PhaseEncode, "output", len(out), limit)
	}
	if out == nil {
		out = []byte{}
	}
	return out, nil
}

func (n *Native) Decode(data []byte) ([]uint16, error) {
	if limit := n.opts.Limit(); len(data) > limit {
		return nil, errors.TooLarge(errors.PhaseDecode, "input", len(data), limit)
	}

	t := transform.Chain(transcoder.Sanitizer(), unicode.UTF8.NewDecoder(), utf16le.NewEncoder())
	b, _, err := transform.Bytes(t, data)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDecode, errors.KindInvalidInput, err, "x/text utf-8 decoder")
	}
	units := make([]uint16, len(b)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(b[2*i:])
	}
	return units, nil
}

// pairedLE serializes units little-endian with every unpaired surrogate
// replaced by U+FFFD.
func pairedLE(units []uint16) []byte {
	src := make([]byte, 0, 2*len(units))
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case scalar.IsHighSurrogate(u) && i+1 < len(units) && scalar.IsLowSurrogate(units[i+1]):
			src = binary.LittleEndian.AppendUint16(src, u)
			src = binary.LittleEndian.AppendUint16(src, units[i+1])
			i++
		case scalar.IsSurrogate(u):
			src = binary.LittleEndian.AppendUint16(src, scalar.RuneError)
		default:
			src = binary.LittleEndian.AppendUint16(src, u)
		}
	}
	return src
}
