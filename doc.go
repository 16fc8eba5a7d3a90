// Package utf8codec provides a dependency-light UTF-8 codec for UTF-16 text.
//
// Text is represented as UTF-16 code units ([]uint16), the representation used
// by JavaScript engines, Java, Windows APIs and WebAssembly components that pick
// the utf16 string encoding. The codec converts those units to strict UTF-8 and
// back, replacing anything ill-formed with U+FFFD.
//
// # Architecture Overview
//
//	utf8codec/           Root package with the Codec contract and guest Memory interfaces
//	├── transcoder/      Encoder and table-driven Decoder, streaming, guest memory strings
//	├── codec/           Strategy selection (x/text native vs. pure), config, logging, metrics
//	├── guestmem/        wazero adapters for Memory and Allocator
//	├── errors/          Structured error types
//	├── internal/dfa/    UTF-8 validation tables and the resumable state machine
//	├── internal/scalar/ Surrogate arithmetic and shared limits
//	└── cmd/utf8codec/   Command line tool with an interactive mode
//
// # Quick Start
//
// Encode and decode with the pure codec directly:
//
//	b := transcoder.Encode([]uint16{0x65e5, 0x672c, 0x8a9e}) // 日本語
//	units := transcoder.Decode(b)
//
// Or go through the facade, which probes for the best available strategy once:
//
//	b, err := codec.EncodeString(ctx, "日本語")
//	s, err := codec.DecodeString(ctx, b)
//
// # Error Handling
//
// Encoding and decoding are total: lone surrogates and ill-formed byte sequences
// become U+FFFD. Strict mode (transcoder.Options.Strict) reports the first
// malformed position instead. Inputs above the configured size limit fail with
// an allocation error, which is a resource condition and not a validation error.
//
// # Thread Safety
//
// Encoder, Decoder and all strategies are safe for concurrent use; the DFA
// tables are read-only. StreamDecoder and the Sanitizer transformer carry
// per-stream state and must be used by a single goroutine.
package utf8codec
