package codec

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/transcoder"
)

type encodeVector struct {
	units []uint16
	want  []byte
	lossy bool
}

type decodeVector struct {
	data  []byte
	want  []uint16
	lossy bool
}

var encodeVectors = []encodeVector{
	{units: []uint16{'t', 'e', 's', 't'}, want: []byte{116, 101, 115, 116}},
	{units: []uint16{0x65E5, 0x672C, 0x8A9E}, want: []byte{230, 151, 165, 230, 156, 172, 232, 170, 158}},
	{units: []uint16{0xD83D, 0xDE00}, want: []byte{0xF0, 0x9F, 0x98, 0x80}},
	{units: []uint16{0xD800, 0x41}, want: []byte{0xEF, 0xBF, 0xBD, 0x41}, lossy: true},
	{units: []uint16{0xDBFF}, want: []byte{0xEF, 0xBF, 0xBD}, lossy: true},
	{units: []uint16{0xD800, 0xD800, 0x41}, want: []byte{0xEF, 0xBF, 0xBD, 0xEF, 0xBF, 0xBD, 0x41}, lossy: true},
}

var decodeVectors = []decodeVector{
	{data: []byte{230, 151, 165, 230, 156, 172, 232, 170, 158}, want: []uint16{0x65E5, 0x672C, 0x8A9E}},
	{data: []byte{0xF0, 0x9F, 0x98, 0x80}, want: []uint16{0xD83D, 0xDE00}},
	{data: []byte{0xC0, 0x41}, want: []uint16{0xFFFD, 0x41}, lossy: true},
	{data: []byte{0xE2, 0x82}, want: []uint16{0xFFFD}, lossy: true},
	{data: []byte{0x80, 0x80, 0x80}, want: []uint16{0xFFFD}, lossy: true},
	{data: []byte{0xED, 0xA0, 0x80, 0x41}, want: []uint16{0xFFFD, 0x41}, lossy: true},
	{data: []byte{0xE0, 0x80, 0x80}, want: []uint16{0xFFFD}, lossy: true},
}

// loneLowVector depends on the configured policy.
func loneLowVector(policy transcoder.LoneLowPolicy) encodeVector {
	if policy == transcoder.EncodeLoneLow {
		return encodeVector{units: []uint16{0xDC00, 0xDC00}, want: []byte{0xED, 0xB0, 0x80, 0xED, 0xB0, 0x80}}
	}
	return encodeVector{units: []uint16{0xDC00, 0xDC00}, want: []byte{0xEF, 0xBF, 0xBD, 0xEF, 0xBF, 0xBD}, lossy: true}
}

// Conformance runs the reference vectors through s. Under strict options the
// lossy vectors must fail instead of substituting U+FFFD.
func Conformance(s Strategy, cfg Config) error {
	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	fail := func(format string, args ...any) error {
		return errors.New(errors.PhaseSelect, errors.KindUnsupported).
			Path(s.Name()).
			Detail(format, args...).
			Build()
	}

	for _, v := range append(slices.Clone(encodeVectors), loneLowVector(opts.LoneLow)) {
		got, err := s.Encode(v.units)
		if v.lossy && opts.Strict {
			if err == nil {
				return fail("strict encode of %04X succeeded", v.units)
			}
			continue
		}
		if err != nil {
			return fail("encode %04X: %v", v.units, err)
		}
		if !bytes.Equal(got, v.want) {
			return fail("encode %04X = % X, want % X", v.units, got, v.want)
		}
	}

	for _, v := range decodeVectors {
		got, err := s.Decode(v.data)
		if v.lossy && opts.Strict {
			if err == nil {
				return fail("strict decode of % X succeeded", v.data)
			}
			continue
		}
		if err != nil {
			return fail("decode % X: %v", v.data, err)
		}
		if !slices.Equal(got, v.want) {
			return fail("decode % X = %04X, want %04X", v.data, got, v.want)
		}
	}
	return nil
}

// Select returns the first strategy in probe order that is available and
// passes Conformance. Config.Strategy bypasses the probe but is still checked.
func Select(cfg Config) (Strategy, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := Logger()

	if cfg.Strategy != "" {
		s, err := probe(cfg.Strategy, cfg)
		if err != nil {
			return nil, err
		}
		log.Info("strategy forced", zap.String("strategy", s.Name()))
		return s, nil
	}

	var tried []string
	for _, name := range cfg.order() {
		if cfg.disabled(name) {
			log.Debug("strategy disabled", zap.String("strategy", name))
			continue
		}
		tried = append(tried, name)
		s, err := probe(name, cfg)
		if err != nil {
			log.Debug("strategy rejected", zap.String("strategy", name), zap.Error(err))
			continue
		}
		log.Info("strategy selected", zap.String("strategy", s.Name()), zap.Strings("tried", tried))
		return s, nil
	}

	return nil, errors.New(errors.PhaseSelect, errors.KindUnsupported).
		Detail("no usable strategy among %v", tried).
		Build()
}

func probe(name string, cfg Config) (Strategy, error) {
	s, err := New(name, cfg)
	if err != nil {
		return nil, err
	}
	if !s.Available() {
		return nil, errors.Unsupported(errors.PhaseSelect, fmt.Sprintf("strategy %q with these options", name))
	}
	if err := Conformance(s, cfg); err != nil {
		return nil, err
	}
	return s, nil
}

var (
	defaultOnce     sync.Once
	defaultStrategy Strategy
	defaultErr      error
)

// Default returns the strategy selected for the zero Config plus the
// environment override. The probe runs once per process.
func Default() (Strategy, error) {
	defaultOnce.Do(func() {
		defaultStrategy, defaultErr = Select(Config{}.WithEnv())
	})
	return defaultStrategy, defaultErr
}
