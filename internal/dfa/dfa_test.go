package dfa

import (
	"testing"
	"unicode/utf8"
)

func TestStep_AllScalars(t *testing.T) {
	var buf [utf8.UTFMax]byte
	for r := rune(0); r <= utf8.MaxRune; r++ {
		if r >= 0xD800 && r <= 0xDFFF {
			continue
		}
		n := utf8.EncodeRune(buf[:], r)
		var s State
		for i := 0; i < n; i++ {
			st := s.Step(buf[i])
			if i < n-1 && !s.Pending() {
				t.Fatalf("U+%04X: state %d after byte %d, want pending", r, st, i)
			}
		}
		if s.State != Accept {
			t.Fatalf("U+%04X: final state %d, want Accept", r, s.State)
		}
		if s.Scalar != r {
			t.Fatalf("U+%04X: scalar 0x%X", r, s.Scalar)
		}
	}
}

func TestStep_RejectsKnownIllFormed(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"lone continuation", []byte{0x80}},
		{"overlong C0", []byte{0xC0, 0x80}},
		{"overlong C1", []byte{0xC1, 0xBF}},
		{"overlong E0", []byte{0xE0, 0x80, 0x80}},
		{"encoded surrogate", []byte{0xED, 0xA0, 0x80}},
		{"overlong F0", []byte{0xF0, 0x80, 0x80, 0x80}},
		{"above max", []byte{0xF4, 0x90, 0x80, 0x80}},
		{"F5 lead", []byte{0xF5}},
		{"FF", []byte{0xFF}},
		{"ascii after lead", []byte{0xC3, 0x41}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s State
			rejected := false
			for _, b := range tt.in {
				if s.Step(b) == Reject {
					rejected = true
					break
				}
			}
			if !rejected {
				t.Errorf("% X not rejected (state %d)", tt.in, s.State)
			}
		})
	}
}

func TestValid_OneAndTwoBytes(t *testing.T) {
	for a := 0; a < 256; a++ {
		p := []byte{byte(a)}
		if Valid(p) != utf8.Valid(p) {
			t.Fatalf("Valid(% X) = %v", p, Valid(p))
		}
		for b := 0; b < 256; b++ {
			p := []byte{byte(a), byte(b)}
			if Valid(p) != utf8.Valid(p) {
				t.Fatalf("Valid(% X) = %v", p, Valid(p))
			}
		}
	}
}

func TestValid_AllThreeBytes(t *testing.T) {
	if testing.Short() {
		t.Skip("exhaustive 2^24 scan")
	}
	p := make([]byte, 3)
	for a := 0; a < 256; a++ {
		p[0] = byte(a)
		for b := 0; b < 256; b++ {
			p[1] = byte(b)
			for c := 0; c < 256; c++ {
				p[2] = byte(c)
				if Valid(p) != utf8.Valid(p) {
					t.Fatalf("Valid(% X) = %v, stdlib %v", p, Valid(p), utf8.Valid(p))
				}
			}
		}
	}
}

func TestValid_FourByteLeads(t *testing.T) {
	edges := []byte{0x00, 0x7F, 0x80, 0x8F, 0x90, 0x9F, 0xA0, 0xBF, 0xC0, 0xF4, 0xFF}
	p := make([]byte, 4)
	for a := 0xF0; a <= 0xFF; a++ {
		p[0] = byte(a)
		for b := 0; b < 256; b++ {
			p[1] = byte(b)
			for _, c := range edges {
				p[2] = c
				for _, d := range edges {
					p[3] = d
					if Valid(p) != utf8.Valid(p) {
						t.Fatalf("Valid(% X) = %v, stdlib %v", p, Valid(p), utf8.Valid(p))
					}
				}
			}
		}
	}
}

func TestValid_Truncated(t *testing.T) {
	if Valid([]byte{0xE2, 0x82}) {
		t.Error("truncated sequence reported valid")
	}
	if !Valid(nil) {
		t.Error("empty input should be valid")
	}
}

func TestReset(t *testing.T) {
	var s State
	s.Step(0xE2)
	if !s.Pending() {
		t.Fatal("expected pending state after E2")
	}
	s.Reset()
	if s.State != Accept || s.Scalar != 0 {
		t.Errorf("Reset left %+v", s)
	}
}

func TestIsContinuation(t *testing.T) {
	for i := 0; i < 256; i++ {
		want := i >= 0x80 && i <= 0xBF
		if got := IsContinuation(byte(i)); got != want {
			t.Errorf("IsContinuation(0x%02X) = %v", i, got)
		}
	}
}

func BenchmarkStep(b *testing.B) {
	data := []byte("日本語 mixed with ASCII and 😀 emoji, repeated. ")
	b.SetBytes(int64(len(data)))
	for i := 0; i < b.N; i++ {
		var s State
		for _, c := range data {
			s.Step(c)
		}
	}
}
