package transcoder

import (
	"encoding/binary"
	"sync"

	utf8codec "github.com/wippyai/utf8codec"
	"github.com/wippyai/utf8codec/errors"
	"github.com/wippyai/utf8codec/internal/scalar"
)

type Memory = utf8codec.Memory
type Allocator = utf8codec.Allocator

type Allocation struct {
	Ptr   uint32
	Size  uint32
	Align uint32
}

// AllocationList records guest allocations so a failed multi-string call can
// release what it already allocated.
type AllocationList struct {
	allocations []Allocation
}

var allocationListPool = sync.Pool{
	New: func() any {
		return &AllocationList{allocations: make([]Allocation, 0, 8)}
	},
}

func NewAllocationList() *AllocationList {
	return allocationListPool.Get().(*AllocationList)
}

const maxPooledAllocationCapacity = 128

// Release returns to pool. Must call after Free(); list invalid after Release.
func (al *AllocationList) Release() {
	// Only pool small allocations to prevent memory bloat
	if cap(al.allocations) > maxPooledAllocationCapacity {
		return
	}
	al.Reset()
	allocationListPool.Put(al)
}

func (al *AllocationList) FreeAndRelease(allocator Allocator) {
	al.Free(allocator)
	al.Release()
}

func (al *AllocationList) Add(ptr, size, align uint32) {
	al.allocations = append(al.allocations, Allocation{
		Ptr:   ptr,
		Size:  size,
		Align: align,
	})
}

func (al *AllocationList) Free(allocator Allocator) {
	if allocator == nil {
		return
	}
	for _, a := range al.allocations {
		if a.Ptr != 0 {
			allocator.Free(a.Ptr, a.Size, a.Align)
		}
	}
}

func (al *AllocationList) Reset() {
	al.allocations = al.allocations[:0]
}

func (al *AllocationList) Count() int {
	return len(al.allocations)
}

// Guest strings are stored as a (ptr, len) pair of little-endian u32 values.
const stringPairSize = 8

// LowerString encodes units as UTF-8 into a fresh guest allocation and returns
// its address and byte length. The allocation size is the exact preflight
// length; an empty string is (0, 0) and allocates nothing.
func (e *Encoder) LowerString(units []uint16, mem Memory, alloc Allocator, allocList *AllocationList) (ptr, length uint32, err error) {
	if mem == nil {
		return 0, 0, errors.NilPointer(errors.PhaseMemory, "memory")
	}

	n := e.Preflight(units)
	if limit := e.opts.Limit(); n > limit {
		return 0, 0, errors.TooLarge(errors.PhaseEncode, "output", n, limit)
	}
	if n == 0 {
		return 0, 0, nil
	}
	size, ok := scalar.ToU32(n)
	if !ok || size > scalar.MaxAlloc {
		return 0, 0, errors.Overflow(errors.PhaseMemory, n, "guest allocation")
	}
	if alloc == nil {
		return 0, 0, errors.NilPointer(errors.PhaseMemory, "allocator")
	}

	buf := getBuf(n)
	defer putBuf(buf)

	rep := newReport()
	e.fill(*buf, units, &rep)
	if err := e.strictErr(units, rep); err != nil {
		return 0, 0, err
	}

	ptr, err = alloc.Alloc(size, 1)
	if err != nil {
		return 0, 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("failed to allocate %d bytes for string data", size).
			Cause(err).
			Build()
	}
	if allocList != nil {
		allocList.Add(ptr, size, 1)
	}

	if err := mem.Write(ptr, *buf); err != nil {
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write string data")
	}
	return ptr, size, nil
}

// EncodeStringToMemory lowers units and stores the (ptr, len) pair at addr.
func (e *Encoder) EncodeStringToMemory(addr uint32, units []uint16, mem Memory, alloc Allocator, allocList *AllocationList) error {
	ptr, length, err := e.LowerString(units, mem, alloc, allocList)
	if err != nil {
		return err
	}
	return writePair(mem, addr, ptr, length)
}

// LiftString decodes length bytes of guest UTF-8 at ptr.
func (d *Decoder) LiftString(ptr, length uint32, mem Memory) ([]uint16, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseMemory, "memory")
	}
	if length == 0 {
		return []uint16{}, nil
	}
	if limit := d.opts.Limit(); uint64(length) > uint64(limit) {
		return nil, errors.TooLarge(errors.PhaseDecode, "input", int(length), limit)
	}

	data, err := mem.Read(ptr, length)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read string data")
	}
	return d.Decode(data)
}

// DecodeStringFromMemory reads the (ptr, len) pair at addr and lifts the string.
func (d *Decoder) DecodeStringFromMemory(addr uint32, mem Memory) ([]uint16, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseMemory, "memory")
	}
	ptr, length, err := readPair(mem, addr)
	if err != nil {
		return nil, err
	}
	return d.LiftString(ptr, length, mem)
}

// LiftUTF16 reads count little-endian code units at ptr. ptr must be 2-aligned.
func LiftUTF16(ptr, count uint32, mem Memory) ([]uint16, error) {
	if mem == nil {
		return nil, errors.NilPointer(errors.PhaseMemory, "memory")
	}
	if count == 0 {
		return []uint16{}, nil
	}
	if ptr%2 != 0 {
		return nil, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Detail("utf16 string pointer 0x%x is not 2-byte aligned", ptr).
			Build()
	}
	size, ok := scalar.SafeMulU32(count, 2)
	if !ok || size > scalar.MaxAlloc {
		return nil, errors.Overflow(errors.PhaseMemory, count, "utf16 string length")
	}

	data, err := mem.Read(ptr, size)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read utf16 data")
	}
	units := make([]uint16, count)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[2*i:])
	}
	return units, nil
}

// LowerUTF16 stores units as little-endian UTF-16 in a fresh 2-aligned guest
// allocation and returns its address and unit count.
func LowerUTF16(units []uint16, mem Memory, alloc Allocator, allocList *AllocationList) (ptr, count uint32, err error) {
	if mem == nil {
		return 0, 0, errors.NilPointer(errors.PhaseMemory, "memory")
	}
	if len(units) == 0 {
		return 0, 0, nil
	}
	count, ok := scalar.ToU32(len(units))
	if !ok {
		return 0, 0, errors.Overflow(errors.PhaseMemory, len(units), "utf16 string length")
	}
	size, ok := scalar.SafeMulU32(count, 2)
	if !ok || size > scalar.MaxAlloc {
		return 0, 0, errors.Overflow(errors.PhaseMemory, len(units), "utf16 string length")
	}
	if alloc == nil {
		return 0, 0, errors.NilPointer(errors.PhaseMemory, "allocator")
	}

	buf := getBuf(int(size))
	defer putBuf(buf)
	for i, u := range units {
		binary.LittleEndian.PutUint16((*buf)[2*i:], u)
	}

	ptr, err = alloc.Alloc(size, 2)
	if err != nil {
		return 0, 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Detail("failed to allocate %d bytes for utf16 data", size).
			Cause(err).
			Build()
	}
	if allocList != nil {
		allocList.Add(ptr, size, 2)
	}

	if err := mem.Write(ptr, *buf); err != nil {
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write utf16 data")
	}
	return ptr, count, nil
}

// TranscodeUTF16ToUTF8 re-encodes a guest UTF-16 string as guest UTF-8.
func (e *Encoder) TranscodeUTF16ToUTF8(ptr, count uint32, mem Memory, alloc Allocator, allocList *AllocationList) (uint32, uint32, error) {
	units, err := LiftUTF16(ptr, count, mem)
	if err != nil {
		return 0, 0, err
	}
	return e.LowerString(units, mem, alloc, allocList)
}

// TranscodeUTF8ToUTF16 re-encodes a guest UTF-8 string as guest UTF-16.
func (d *Decoder) TranscodeUTF8ToUTF16(ptr, length uint32, mem Memory, alloc Allocator, allocList *AllocationList) (uint32, uint32, error) {
	units, err := d.LiftString(ptr, length, mem)
	if err != nil {
		return 0, 0, err
	}
	return LowerUTF16(units, mem, alloc, allocList)
}

func writePair(mem Memory, addr, ptr, length uint32) error {
	if err := mem.WriteU32(addr, ptr); err != nil {
		return errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write string pointer")
	}
	if err := mem.WriteU32(addr+4, length); err != nil {
		return errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "write string length")
	}
	return nil
}

func readPair(mem Memory, addr uint32) (ptr, length uint32, err error) {
	if _, ok := scalar.SafeAddU32(addr, stringPairSize); !ok {
		return 0, 0, errors.Overflow(errors.PhaseMemory, addr, "string pair address")
	}
	ptr, err = mem.ReadU32(addr)
	if err != nil {
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read string pointer")
	}
	length, err = mem.ReadU32(addr + 4)
	if err != nil {
		return 0, 0, errors.Wrap(errors.PhaseMemory, errors.KindOutOfBounds, err, "read string length")
	}
	return ptr, length, nil
}
