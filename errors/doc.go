// Package errors provides structured error types for the utf8codec module.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the input offset of the offending unit or byte, a detail
// message and a cause chain.
//
// The codec itself is lossy-but-total: malformed input is replaced with U+FFFD and
// never reported. Errors appear only in strict mode, on resource limits, and on
// guest memory failures.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidUTF8).
//		Offset(17).
//		Detail("truncated sequence").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.LoneSurrogate(errors.PhaseEncode, 3, 0xD800)
//	err := errors.TooLarge(errors.PhaseEncode, "output", n, limit)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
