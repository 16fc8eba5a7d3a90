package codec

import (
	"context"
	"unicode/utf16"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/transcoder"
)

// Facade runs a Strategy behind context-aware calls. The context is checked
// before each call; a call in progress is not interrupted.
type Facade struct {
	s Strategy
}

func NewFacade(s Strategy) *Facade {
	return &Facade{s: s}
}

func (f *Facade) Strategy() Strategy {
	return f.s
}

func (f *Facade) Encode(ctx context.Context, units []uint16) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.s.Encode(units)
}

func (f *Facade) Decode(ctx context.Context, data []byte) ([]uint16, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.s.Decode(data)
}

// EncodeString encodes a Go string. Invalid UTF-8 in s becomes U+FFFD
// before encoding.
func (f *Facade) EncodeString(ctx context.Context, s string) ([]byte, error) {
	return f.Encode(ctx, transcoder.Units(s))
}

func (f *Facade) DecodeString(ctx context.Context, data []byte) (string, error) {
	units, err := f.Decode(ctx, data)
	if err != nil {
		return "", err
	}
	return string(utf16.Decode(units)), nil
}

func defaultFacade() (*Facade, error) {
	s, err := Default()
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, errors.NotInitialized(errors.PhaseSelect, "default strategy")
	}
	return NewFacade(s), nil
}

// Encode encodes units with the Default strategy.
func Encode(ctx context.Context, units []uint16) ([]byte, error) {
	f, err := defaultFacade()
	if err != nil {
		return nil, err
	}
	return f.Encode(ctx, units)
}

// Decode decodes data with the Default strategy.
func Decode(ctx context.Context, data []byte) ([]uint16, error) {
	f, err := defaultFacade()
	if err != nil {
		return nil, err
	}
	return f.Decode(ctx, data)
}

func EncodeString(ctx context.Context, s string) ([]byte, error) {
	f, err := defaultFacade()
	if err != nil {
		return nil, err
	}
	return f.EncodeString(ctx, s)
}

func DecodeString(ctx context.Context, data []byte) (string, error) {
	f, err := defaultFacade()
	if err != nil {
		return "", err
	}
	return f.DecodeString(ctx, data)
}
