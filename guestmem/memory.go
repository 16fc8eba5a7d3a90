package guestmem

import (
	"github.com/tetratelabs/wazero/api"

	utf8codec "github.com/wippyai/utf8codec"
	"github.com/wippyai/utf8codec/errors"
)

var (
	_ utf8codec.Memory      = (*Wrapper)(nil)
	_ utf8codec.MemorySizer = (*Wrapper)(nil)
)

// Wrapper exposes a wazero memory as utf8codec.Memory. Every access past the
// end of memory fails with a memory/out_of_bounds error carrying the offset.
type Wrapper struct {
	Mem api.Memory
}

// WrapMemory returns nil for a nil memory so callers can test the export.
func WrapMemory(mem api.Memory) *Wrapper {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Read aliases guest memory; the slice is only valid until the guest runs.
func (m *Wrapper) Read(offset, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	return data, m.check(ok, offset, length)
}

func (m *Wrapper) Write(offset uint32, data []byte) error {
	return m.check(m.Mem.Write(offset, data), offset, uint32(len(data)))
}

func (m *Wrapper) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.Mem.ReadByte(offset)
	return v, m.check(ok, offset, 1)
}

func (m *Wrapper) ReadU16(offset uint32) (uint16, error) {
	v, ok := m.Mem.ReadUint16Le(offset)
	return v, m.check(ok, offset, 2)
}

func (m *Wrapper) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.Mem.ReadUint32Le(offset)
	return v, m.check(ok, offset, 4)
}

func (m *Wrapper) ReadU64(offset uint32) (uint64, error) {
	v, ok := m.Mem.ReadUint64Le(offset)
	return v, m.check(ok, offset, 8)
}

func (m *Wrapper) WriteU8(offset uint32, value uint8) error {
	return m.check(m.Mem.WriteByte(offset, value), offset, 1)
}

func (m *Wrapper) WriteU16(offset uint32, value uint16) error {
	return m.check(m.Mem.WriteUint16Le(offset, value), offset, 2)
}

func (m *Wrapper) WriteU32(offset uint32, value uint32) error {
	return m.check(m.Mem.WriteUint32Le(offset, value), offset, 4)
}

func (m *Wrapper) WriteU64(offset uint32, value uint64) error {
	return m.check(m.Mem.WriteUint64Le(offset, value), offset, 8)
}

func (m *Wrapper) check(ok bool, offset, width uint32) error {
	if ok {
		return nil
	}
	return errors.New(errors.PhaseMemory, errors.KindOutOfBounds).
		Offset(int(offset)).
		Value(width).
		Detail("%d bytes at 0x%x past end of memory (%d bytes)", width, offset, m.Mem.Size()).
		Build()
}
