package transcoder

// StreamDecoder decodes UTF-8 delivered in chunks. Splitting the input at any
// byte boundary yields the same code units as one Decode call over the whole
// input. A StreamDecoder is not safe for concurrent use.
type StreamDecoder struct {
	st  decodeState
	rep Report
}

func NewStreamDecoder() *StreamDecoder {
	return &StreamDecoder{rep: newReport()}
}

// Write decodes p and appends complete code units to dst. Bytes of a sequence
// that is not finished yet are kept until the next Write or Flush.
func (d *StreamDecoder) Write(dst []uint16, p []byte) []uint16 {
	return d.st.run(dst, p, &d.rep)
}

// Flush ends the stream, appending U+FFFD if a sequence is unfinished. The
// decoder can be reused afterwards; offsets continue from the previous input.
func (d *StreamDecoder) Flush(dst []uint16) []uint16 {
	return d.st.flush(dst, &d.rep)
}

// Pending reports whether a multi-byte sequence is waiting for more bytes.
func (d *StreamDecoder) Pending() bool {
	return d.st.m.Pending()
}

// Report returns the substitutions made since the last Reset.
func (d *StreamDecoder) Report() Report {
	return d.rep
}

// Reset discards pending state and offsets.
func (d *StreamDecoder) Reset() {
	d.st = decodeState{}
	d.rep = newReport()
}
