// Package transcoder converts between UTF-16 code units and UTF-8 bytes.
//
// Both directions are total by default: anything that cannot be represented
// becomes U+FFFD. Strict options turn the first substitution into an error.
//
//	┌─────────────────────────────────────────────────────────────┐
//	│ []uint16 ──[Encoder]──▶ []byte ──[Decoder]──▶ []uint16      │
//	└─────────────────────────────────────────────────────────────┘
//
// # Encoding
//
// The encoder runs two passes with the same classification:
//
//	Input                          Bytes
//	──────────────────────────────────────
//	U+0000..U+007F                 1
//	U+0080..U+07FF                 2
//	U+0800..U+FFFF (no surrogate)  3
//	high + low surrogate           4
//	unpaired surrogate             3 (EF BF BD)
//
// Preflight returns the output length; Encode allocates it once and fills it.
// A high surrogate that is not followed by a low surrogate is replaced and
// the next unit is encoded on its own. Unpaired low surrogates follow
// Options.LoneLow.
//
// # Decoding
//
// The decoder drives the DFA in internal/dfa one byte at a time. On a reject
// it emits one U+FFFD and skips the continuation bytes that follow. A sequence
// cut short by a byte that cannot continue it does not swallow that byte:
//
//	C0 41      → U+FFFD 'A'
//	C3 41      → U+FFFD 'A'
//	E2 82      → U+FFFD
//	ED A0 80   → U+FFFD
//	F0 9F 98 80 → D83D DE00
//
// Every emitted unit consumes at least one byte, so the output never has more
// units than the input has bytes.
//
// # Streaming
//
// StreamDecoder keeps the DFA state between Write calls; any split of the
// input yields the same units as one Decode call. Sanitizer is the same
// machine exposed as a golang.org/x/text transform.Transformer that rewrites
// UTF-8 into well-formed UTF-8.
//
// # Guest Memory
//
// LowerString and LiftString move strings in and out of WebAssembly linear
// memory through the Memory and Allocator interfaces:
//
//	enc := transcoder.NewEncoder(transcoder.Options{})
//	ptr, n, err := enc.LowerString(units, mem, alloc, allocs)
//
//	dec := transcoder.NewDecoder(transcoder.Options{})
//	units, err := dec.LiftString(ptr, n, mem)
//
// The preflight length is the allocation size, so a lowered string costs one
// guest allocation. AllocationList records allocations for rollback.
package transcoder
