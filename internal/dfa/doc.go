// Package dfa implements the UTF-8 validating state machine used by the decoder.
//
// The machine is the "Flexible and Economical UTF-8 Decoder" design by Bjoern
// Hoehrmann (http://bjoern.hoehrmann.de/utf-8/decoder/dfa/). Each byte maps to
// one of 12 character classes; the class and the current state select the next
// state from a 9x16 transition table. Over-long forms, surrogates encoded in
// UTF-8 and values above U+10FFFF are rejected by construction of the tables.
//
// States:
//
//	0  Accept   sequence complete (or nothing pending)
//	1  Reject   sequence ill-formed
//	2  need 1 continuation byte in 80..BF
//	3  need 2 continuation bytes in 80..BF
//	4  after E0, need A0..BF
//	5  after ED, need 80..9F
//	6  after F0, need 90..BF
//	7  after F1..F3, need 80..BF
//	8  after F4, need 80..8F
//
// State is an explicit value, so decoding can stop at any byte and resume later.
package dfa
