package scalar

import "math"

const (
	RuneError = 0xFFFD   // replacement character
	MaxRune   = 0x10FFFF // largest scalar value

	SurrogateMin     = 0xD800
	HighSurrogateMax = 0xDBFF
	LowSurrogateMin  = 0xDC00
	SurrogateMax     = 0xDFFF

	surrogateSelf = 0x10000
)

// RuneErrorUTF8 is the UTF-8 encoding of U+FFFD.
var RuneErrorUTF8 = [3]byte{0xEF, 0xBF, 0xBD}

const (
	MaxStringSize = 1 << 30 // 1 GB max encoded or decoded string
	MaxAlloc      = 1 << 30 // 1 GB max single guest allocation
)

func IsHighSurrogate(u uint16) bool {
	return u >= SurrogateMin && u <= HighSurrogateMax
}

func IsLowSurrogate(u uint16) bool {
	return u >= LowSurrogateMin && u <= SurrogateMax
}

func IsSurrogate(u uint16) bool {
	return u >= SurrogateMin && u <= SurrogateMax
}

// Combine returns the scalar value of a valid (high, low) pair.
func Combine(high, low uint16) rune {
	return (rune(high)-SurrogateMin)<<10 + (rune(low) - LowSurrogateMin) + surrogateSelf
}

// Split returns the surrogate pair for r, which must be in [0x10000, 0x10FFFF].
func Split(r rune) (high, low uint16) {
	r -= surrogateSelf
	return uint16(SurrogateMin + (r>>10)&0x3FF), uint16(LowSurrogateMin + r&0x3FF)
}

// Valid rejects surrogates (0xD800-0xDFFF) and values above 0x10FFFF.
func Valid(r rune) bool {
	if r >= SurrogateMin && r <= SurrogateMax {
		return false
	}
	if r < 0 || r > MaxRune {
		return false
	}
	return true
}

// UTF8Len returns the number of bytes needed to encode r, or -1 if r is not a
// valid scalar value.
func UTF8Len(r rune) int {
	switch {
	case r < 0:
		return -1
	case r < 0x80:
		return 1
	case r < 0x800:
		return 2
	case r >= SurrogateMin && r <= SurrogateMax:
		return -1
	case r < surrogateSelf:
		return 3
	case r <= MaxRune:
		return 4
	}
	return -1
}

func SafeMulU32(a, b uint32) (uint32, bool) {
	if b != 0 && a > math.MaxUint32/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU32(a, b uint32) (uint32, bool) {
	if a > math.MaxUint32-b {
		return 0, false
	}
	return a + b, true
}

// ToU32 converts a non-negative length to uint32, reporting overflow.
func ToU32(n int) (uint32, bool) {
	if n < 0 || uint64(n) > math.MaxUint32 {
		return 0, false
	}
	return uint32(n), true
}
