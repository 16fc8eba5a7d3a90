package codec

import (
	"math/rand"
	"testing"
	"unicode/utf16"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/transcoder"
)

func strategies(opts transcoder.Options) []Strategy {
	return []Strategy{NewNative(opts), NewPure(opts)}
}

func TestStrategies_Vectors(t *testing.T) {
	for _, s := range strategies(transcoder.Options{}) {
		t.Run(s.Name(), func(t *testing.T) {
			require.True(t, s.Available())

			b, err := s.Encode(transcoder.Units("test"))
			require.NoError(t, err)
			assert.Equal(t, []byte{116, 101, 115, 116}, b)

			b, err = s.Encode(transcoder.Units("日本語"))
			require.NoError(t, err)
			assert.Equal(t, []byte{230, 151, 165, 230, 156, 172, 232, 170, 158}, b)

			units, err := s.Decode([]byte{0xF0, 0x9F, 0x98, 0x80})
			require.NoError(t, err)
			assert.Equal(t, []uint16{0xD83D, 0xDE00}, units)

			units, err = s.Decode([]byte{0xC0, 0x41})
			require.NoError(t, err)
			assert.Equal(t, []uint16{0xFFFD, 0x41}, units)

			units, err = s.Decode([]byte{0xE2, 0x82})
			require.NoError(t, err)
			assert.Equal(t, []uint16{0xFFFD}, units)

			require.NoError(t, Conformance(s, Config{}))
		})
	}
}

func TestStrategies_AgreeOnEncode(t *testing.T) {
	native, pure := NewNative(transcoder.Options{}), NewPure(transcoder.Options{})
	rng := rand.New(rand.NewSource(11))

	for i := 0; i < 1000; i++ {
		units := make([]uint16, rng.Intn(32))
		for j := range units {
			if rng.Intn(3) == 0 {
				units[j] = uint16(0xD800 + rng.Intn(0x800))
			} else {
				units[j] = uint16(rng.Intn(0x10000))
			}
		}
		want, err := pure.Encode(units)
		require.NoError(t, err)
		got, err := native.Encode(units)
		require.NoError(t, err)
		require.Equal(t, want, got, "units %04X", units)
	}
}

func TestStrategies_UnpairedRuns(t *testing.T) {
	fffd := []byte{0xEF, 0xBF, 0xBD}
	tests := []struct {
		units []uint16
		want  []byte
	}{
		{[]uint16{0xDC00, 0xDC00}, append(append([]byte{}, fffd...), fffd...)},
		{[]uint16{0xDC00, 0xDC00, 0xDC00, 0x41}, append(append(append(append([]byte{}, fffd...), fffd...), fffd...), 0x41)},
		{[]uint16{0xD800, 0xD800}, append(append([]byte{}, fffd...), fffd...)},
		{[]uint16{0xDC00, 0xD83D, 0xDE00}, append(append([]byte{}, fffd...), 0xF0, 0x9F, 0x98, 0x80)},
	}
	for _, s := range strategies(transcoder.Options{}) {
		for _, tt := range tests {
			got, err := s.Encode(tt.units)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s: %04X", s.Name(), tt.units)
		}
	}
}

func TestStrategies_Resync(t *testing.T) {
	tests := []struct {
		in   []byte
		want []uint16
	}{
		{[]byte{0x80, 0x80, 0x80}, []uint16{0xFFFD}},
		{[]byte{0xED, 0xA0, 0x80}, []uint16{0xFFFD}},
		{[]byte{0xE0, 0x80, 0x80}, []uint16{0xFFFD}},
		{[]byte{0xC3, 0x41}, []uint16{0xFFFD, 0x41}},
		{[]byte{0xF4, 0x90, 0x80, 0x80, 0x41}, []uint16{0xFFFD, 0x41}},
	}
	for _, s := range strategies(transcoder.Options{}) {
		for _, tt := range tests {
			got, err := s.Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got, "%s: % X", s.Name(), tt.in)
		}
	}
}

func TestStrategies_AgreeOnDecode(t *testing.T) {
	native, pure := NewNative(transcoder.Options{}), NewPure(transcoder.Options{})
	rng := rand.New(rand.NewSource(12))

	for i := 0; i < 2000; i++ {
		in := make([]byte, rng.Intn(32))
		rng.Read(in)
		want, err := pure.Decode(in)
		require.NoError(t, err)
		got, err := native.Decode(in)
		require.NoError(t, err)
		require.Equal(t, want, got, "input % X", in)
	}
}

func TestStrategies_AgreeOnValidDecode(t *testing.T) {
	native, pure := NewNative(transcoder.Options{}), NewPure(transcoder.Options{})
	inputs := []string{"", "ascii", "é ß", "日本語", "😀 and 𝄞", "\ufeffbom kept"}

	for _, in := range inputs {
		want := utf16.Encode([]rune(in))
		got, err := pure.Decode([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, want, got, "pure %q", in)

		got, err = native.Decode([]byte(in))
		require.NoError(t, err)
		assert.Equal(t, want, got, "native %q", in)
	}
}

func TestNative_Availability(t *testing.T) {
	assert.True(t, NewNative(transcoder.Options{}).Available())
	assert.False(t, NewNative(transcoder.Options{Strict: true}).Available())
	assert.False(t, NewNative(transcoder.Options{LoneLow: transcoder.EncodeLoneLow}).Available())
	assert.True(t, NewPure(transcoder.Options{Strict: true}).Available())
}

func TestNative_MaxSize(t *testing.T) {
	n := NewNative(transcoder.Options{MaxSize: 4})

	_, err := n.Decode([]byte("12345"))
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindAllocation, e.Kind)

	// three units, nine bytes
	_, err = n.Encode(transcoder.Units("日本語"))
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.PhaseEncode, e.Phase)
}

func TestNew_Unknown(t *testing.T) {
	_, err := New("blob", Config{})
	var e *errors.Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, errors.KindNotFound, e.Kind)
}
