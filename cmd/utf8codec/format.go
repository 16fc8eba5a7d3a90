package main

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf16"

	"github.com/wippyai/utf8codec/transcoder"
)

// unitsOf converts UTF-8 input to code units with the pure decoder, so
// ill-formed input gets the same replacements as -mode decode.
func unitsOf(input []byte) []uint16 {
	return transcoder.Decode(input)
}

func textOf(units []uint16) string {
	return string(utf16.Decode(units))
}

func fields(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '\n' || r == '\t' || r == '\r'
	})
}

// parseUnits reads whitespace or comma separated hex code units. Each unit may
// carry a 0x or U+ prefix.
func parseUnits(s string) ([]uint16, error) {
	var units []uint16
	for _, f := range fields(s) {
		trimmed := strings.TrimPrefix(strings.TrimPrefix(strings.ToLower(f), "0x"), "u+")
		v, err := strconv.ParseUint(trimmed, 16, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid code unit %q: %w", f, err)
		}
		units = append(units, uint16(v))
	}
	return units, nil
}

// parseBytes reads hex bytes, with or without separators.
func parseBytes(s string) ([]byte, error) {
	var compact strings.Builder
	for _, f := range fields(s) {
		compact.WriteString(strings.TrimPrefix(strings.ToLower(f), "0x"))
	}
	b, err := hex.DecodeString(compact.String())
	if err != nil {
		return nil, fmt.Errorf("invalid hex input: %w", err)
	}
	return b, nil
}

func formatBytes(b []byte) string {
	return fmt.Sprintf("% x", b)
}

func formatUnits(units []uint16) string {
	parts := make([]string, len(units))
	for i, u := range units {
		parts[i] = fmt.Sprintf("%04x", u)
	}
	return strings.Join(parts, " ")
}

func countReplacements(units []uint16) int {
	n := 0
	for _, u := range units {
		if u == 0xFFFD {
			n++
		}
	}
	return n
}
