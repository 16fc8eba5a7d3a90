package transcoder

import (
	"unicode/utf8"

	"golang.org/x/text/transform"

	"github.com/wippyai/utf8codec/internal/dfa"
	"github.com/wippyai/utf8codec/internal/scalar"
)

// Sanitizer returns a transformer that copies UTF-8 while replacing ill-formed
// sequences with U+FFFD using the same rules as Decode. It keeps state between
// Transform calls, so it must not be shared between streams.
func Sanitizer() transform.Transformer {
	return &sanitizer{}
}

// Sanitize returns data with every ill-formed sequence replaced by U+FFFD.
func Sanitize(data []byte) []byte {
	// The sanitizer only ever reports ErrShortDst, which Bytes handles.
	out, _, _ := transform.Bytes(Sanitizer(), data)
	return out
}

type sanitizer struct {
	m    dfa.State
	skip bool
}

func (s *sanitizer) Reset() {
	s.m.Reset()
	s.skip = false
}

func (s *sanitizer) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		// One step writes at most one scalar (4 bytes) or one U+FFFD (3 bytes).
		if len(dst)-nDst < utf8.UTFMax {
			return nDst, nSrc, transform.ErrShortDst
		}

		b := src[nSrc]
		if s.skip {
			if dfa.IsContinuation(b) {
				nSrc++
				continue
			}
			s.skip = false
		}

		prev := s.m.State
		switch s.m.Step(b) {
		case dfa.Accept:
			nDst += utf8.EncodeRune(dst[nDst:], s.m.Scalar)
			nSrc++
		case dfa.Reject:
			nDst += copy(dst[nDst:], scalar.RuneErrorUTF8[:])
			s.m.Reset()
			if prev != dfa.Accept && !dfa.IsContinuation(b) {
				continue
			}
			s.skip = true
			nSrc++
		default:
			nSrc++
		}
	}

	if atEOF && s.m.State != dfa.Accept {
		if len(dst)-nDst < len(scalar.RuneErrorUTF8) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], scalar.RuneErrorUTF8[:])
		s.m.Reset()
	}
	if atEOF {
		s.skip = false
	}
	return nDst, nSrc, nil
}
