// Package scalar provides internal utilities shared by the encoder and decoder.
//
// It holds the surrogate ranges, the replacement character and its UTF-8 form,
// surrogate pair arithmetic, and overflow-checked length math used when sizing
// guest allocations.
//
// # Contents
//
//   - helpers.go: Surrogate classification, pair combine/split, limits
//
// This package is internal to the module.
package scalar
