package transcoder

import (
	"math/rand"
	"testing"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/google/go-cmp/cmp"

	"github.com/wippyai/utf8codec/errors"
)

func TestDecode_Vectors(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want []uint16
	}{
		{"empty", nil, []uint16{}},
		{"ascii", []byte("test"), []uint16{116, 101, 115, 116}},
		{"cjk", []byte{230, 151, 165, 230, 156, 172, 232, 170, 158}, Units("日本語")},
		{"emoji", []byte{0xF0, 0x9F, 0x98, 0x80}, []uint16{0xD83D, 0xDE00}},
		{"max scalar", []byte{0xF4, 0x8F, 0xBF, 0xBF}, []uint16{0xDBFF, 0xDFFF}},
		{"euro", []byte{0xE2, 0x82, 0xAC}, []uint16{0x20AC}},

		{"invalid lead then ascii", []byte{0xC0, 0x41}, []uint16{0xFFFD, 0x41}},
		{"truncated three byte", []byte{0xE2, 0x82}, []uint16{0xFFFD}},
		{"truncated four byte", []byte{0xF0, 0x9F, 0x98}, []uint16{0xFFFD}},
		{"truncated after ascii", []byte{0x41, 0xE2, 0x82}, []uint16{0x41, 0xFFFD}},
		{"interrupted two byte", []byte{0xC3, 0x41}, []uint16{0xFFFD, 0x41}},
		{"interrupted three byte", []byte{0xE2, 0x82, 0x41}, []uint16{0xFFFD, 0x41}},
		{"interrupted by lead", []byte{0xE2, 0xC3, 0xA9}, []uint16{0xFFFD, 0xE9}},
		{"lone continuation", []byte{0x80}, []uint16{0xFFFD}},
		{"continuation run", []byte{0x80, 0x80, 0x80, 0x41}, []uint16{0xFFFD, 0x41}},
		{"overlong slash", []byte{0xC0, 0xAF}, []uint16{0xFFFD}},
		{"overlong three byte", []byte{0xE0, 0x80, 0xAF}, []uint16{0xFFFD}},
		{"encoded surrogate", []byte{0xED, 0xA0, 0x80}, []uint16{0xFFFD}},
		{"above max", []byte{0xF4, 0x90, 0x80, 0x80}, []uint16{0xFFFD}},
		{"f5 lead", []byte{0xF5, 0x80, 0x80, 0x80}, []uint16{0xFFFD}},
		{"ff", []byte{0xFF}, []uint16{0xFFFD}},
		{"fe ff", []byte{0xFE, 0xFF}, []uint16{0xFFFD, 0xFFFD}},
		{"valid after invalid", []byte{0xFF, 0xE2, 0x82, 0xAC}, []uint16{0xFFFD, 0x20AC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decode(tt.in)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Decode(% X) mismatch (-want +got):\n%s", tt.in, diff)
			}
		})
	}
}

func TestDecode_MatchesStdlibOnValidInput(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 2000; i++ {
		s := randomString(rng, rng.Intn(48))
		got := Decode([]byte(s))
		want := utf16.Encode([]rune(s))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("Decode(%q) mismatch (-want +got):\n%s", s, diff)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(4))
	for i := 0; i < 2000; i++ {
		units := utf16.Encode([]rune(randomString(rng, rng.Intn(48))))
		got := Decode(Encode(units))
		if diff := cmp.Diff(units, got); diff != "" {
			t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
		}
	}
}

// decode(encode(s)) replaces exactly the unpaired surrogates of s.
func TestRoundTrip_LoneSurrogates(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for i := 0; i < 2000; i++ {
		units := randomUnits(rng, rng.Intn(48))
		got := Decode(Encode(units))
		if !ValidUnits(got) {
			t.Fatalf("decode(encode(%04X)) = %04X contains lone surrogates", units, got)
		}
		want := utf16.Encode(utf16.Decode(units))
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("units %04X mismatch (-want +got):\n%s", units, diff)
		}
	}
}

func TestRoundTrip_LegacyLoneLow(t *testing.T) {
	enc := NewEncoder(Options{LoneLow: EncodeLoneLow})
	b, err := enc.Encode([]uint16{0x41, 0xDC00, 0x42})
	if err != nil {
		t.Fatal(err)
	}
	got := Decode(b)
	if diff := cmp.Diff([]uint16{0x41, 0xFFFD, 0x42}, got); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}
}

func TestDecode_RandomBuffers(t *testing.T) {
	rng := rand.New(rand.NewSource(6))
	for i := 0; i < 10000; i++ {
		buf := make([]byte, rng.Intn(64))
		rng.Read(buf)

		units := Decode(buf)
		if len(units) > len(buf) {
			t.Fatalf("Decode(% X) produced %d units from %d bytes", buf, len(units), len(buf))
		}
		if !ValidUnits(units) {
			t.Fatalf("Decode(% X) = %04X contains lone surrogates", buf, units)
		}
		if !utf8.Valid(Encode(units)) {
			t.Fatalf("re-encoding Decode(% X) is not valid UTF-8", buf)
		}
		if Valid(buf) != utf8.Valid(buf) {
			t.Fatalf("Valid(% X) = %v, utf8.Valid = %v", buf, Valid(buf), utf8.Valid(buf))
		}
	}
}

func TestDecoder_Strict(t *testing.T) {
	dec := NewDecoder(Options{Strict: true})

	units, err := dec.Decode([]byte("valid 日本語"))
	if err != nil {
		t.Fatalf("well-formed input: %v", err)
	}
	if string(utf16.Decode(units)) != "valid 日本語" {
		t.Errorf("got %q", string(utf16.Decode(units)))
	}

	tests := []struct {
		name   string
		in     []byte
		offset int
	}{
		{"invalid lead", []byte{'a', 'b', 0xC0, 'c'}, 2},
		{"interrupted", []byte{'a', 0xE2, 0x82, 'c'}, 1},
		{"truncated", []byte{'a', 'b', 'c', 0xF0, 0x9F}, 3},
		{"surrogate", []byte{0xED, 0xB0, 0x80}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := dec.Decode(tt.in)
			if err == nil {
				t.Fatal("expected error")
			}
			e, ok := err.(*errors.Error)
			if !ok {
				t.Fatalf("error type %T", err)
			}
			if e.Phase != errors.PhaseDecode || e.Kind != errors.KindInvalidUTF8 {
				t.Errorf("got %s/%s, want decode/invalid_utf8", e.Phase, e.Kind)
			}
			if e.Offset != tt.offset {
				t.Errorf("Offset = %d, want %d", e.Offset, tt.offset)
			}
		})
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		in     []byte
		offset int
	}{
		{[]byte("fine 日本語 😀"), errors.NoOffset},
		{nil, errors.NoOffset},
		{[]byte{'a', 0xC0, 'b'}, 1},
		{[]byte{'a', 'b', 0xE2, 0x82}, 2},
		{[]byte{0xE2, 0x82, 0xAC, 0xED, 0xA0, 0x80}, 3},
	}
	for _, tt := range tests {
		err := Validate(tt.in)
		if tt.offset == errors.NoOffset {
			if err != nil {
				t.Errorf("Validate(% X) = %v, want nil", tt.in, err)
			}
			continue
		}
		e, ok := err.(*errors.Error)
		if !ok {
			t.Fatalf("Validate(% X) = %v, want *errors.Error", tt.in, err)
		}
		if e.Phase != errors.PhaseValidate || e.Offset != tt.offset {
			t.Errorf("Validate(% X): phase %s offset %d, want validate at %d", tt.in, e.Phase, e.Offset, tt.offset)
		}
	}
}

func TestDecoder_Report(t *testing.T) {
	dec := NewDecoder(Options{})

	_, rep, err := dec.DecodeReport([]byte{'x', 0xFF, 'y', 0xE2, 0x82})
	if err != nil {
		t.Fatal(err)
	}
	if rep.Replacements != 2 {
		t.Errorf("Replacements = %d, want 2", rep.Replacements)
	}
	if rep.First != 1 {
		t.Errorf("First = %d, want 1", rep.First)
	}
	if !rep.Truncated {
		t.Error("Truncated should be set")
	}

	_, rep, _ = dec.DecodeReport([]byte("fine"))
	if !rep.Clean() || rep.Truncated {
		t.Errorf("clean input report = %+v", rep)
	}
}

func TestDecoder_MaxSize(t *testing.T) {
	dec := NewDecoder(Options{MaxSize: 4})

	if _, err := dec.Decode([]byte("four")); err != nil {
		t.Fatalf("at limit: %v", err)
	}

	_, err := dec.Decode([]byte("five!"))
	e, ok := err.(*errors.Error)
	if !ok || e.Kind != errors.KindAllocation || e.Phase != errors.PhaseDecode {
		t.Errorf("got %v, want decode/allocation", err)
	}

	unlimited := NewDecoder(Options{MaxSize: Unlimited})
	if _, err := unlimited.Decode(make([]byte, 1024)); err != nil {
		t.Errorf("unlimited: %v", err)
	}
}

func TestDecodeToString(t *testing.T) {
	if got := DecodeToString([]byte("a\xffb")); got != "a�b" {
		t.Errorf("DecodeToString = %q", got)
	}

	dec := NewDecoder(Options{Strict: true})
	if _, err := dec.DecodeToString([]byte("a\xffb")); err == nil {
		t.Error("strict DecodeToString should fail")
	}
	s, err := dec.DecodeToString([]byte("😀"))
	if err != nil || s != "😀" {
		t.Errorf("DecodeToString = %q, %v", s, err)
	}
}

func BenchmarkDecode(b *testing.B) {
	data := []byte("The quick brown fox 日本語 jumps over the lazy dog 😀 ")
	for len(data) < 4096 {
		data = append(data, data...)
	}
	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Decode(data)
	}
}

func BenchmarkEncode(b *testing.B) {
	units := Units("The quick brown fox 日本語 jumps over the lazy dog 😀 ")
	for len(units) < 2048 {
		units = append(units, units...)
	}
	b.SetBytes(int64(2 * len(units)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Encode(units)
	}
}

// randomString returns valid text drawn from every UTF-8 length class.
func randomString(rng *rand.Rand, n int) string {
	rs := make([]rune, n)
	for i := range rs {
		var r rune
		switch rng.Intn(4) {
		case 0:
			r = rune(rng.Intn(0x80))
		case 1:
			r = rune(0x80 + rng.Intn(0x800-0x80))
		case 2:
			r = rune(0x800 + rng.Intn(0x10000-0x800))
		default:
			r = rune(0x10000 + rng.Intn(0x110000-0x10000))
		}
		if r >= 0xD800 && r <= 0xDFFF {
			r -= 0x1000
		}
		rs[i] = r
	}
	return string(rs)
}
