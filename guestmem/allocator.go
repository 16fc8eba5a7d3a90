package guestmem

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero/api"

	utf8codec "github.com/wippyai/utf8codec"
	"github.com/wippyai/utf8codec/errors"
)

const pageSize = 65536

var (
	_ utf8codec.Allocator = (*ReallocWrapper)(nil)
	_ utf8codec.Allocator = (*Bump)(nil)
)

// Realloc wraps a guest cabi_realloc function to implement utf8codec.Allocator.
func Realloc(ctx context.Context, fn api.Function) *ReallocWrapper {
	if fn == nil {
		return nil
	}
	return &ReallocWrapper{Ctx: ctx, Fn: fn}
}

// ReallocWrapper adapts a wazero api.Function (cabi_realloc) to utf8codec.Allocator.
type ReallocWrapper struct {
	Ctx context.Context
	Fn  api.Function
}

// Alloc calls cabi_realloc(0, 0, align, size). A trap or a missing result is
// a memory/allocation error.
func (a *ReallocWrapper) Alloc(size, align uint32) (uint32, error) {
	results, err := a.Fn.Call(a.Ctx, 0, 0, uint64(align), uint64(size))
	if err != nil {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Cause(err).
			Detail("cabi_realloc of %d bytes (align %d) trapped", size, align).
			Build()
	}
	if len(results) == 0 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}
	return uint32(results[0]), nil
}

// Free calls cabi_realloc(ptr, size, align, 0) and ignores traps.
func (a *ReallocWrapper) Free(ptr, size, align uint32) {
	_, _ = a.Fn.Call(a.Ctx, uint64(ptr), uint64(size), uint64(align), 0)
}

// Bump is a host-side bump allocator over guest memory. Free only reclaims
// the most recent allocation; Reset reclaims everything.
type Bump struct {
	mem  api.Memory
	base uint32
	next uint32
	mu   sync.Mutex
}

// NewBump allocates from base upwards in mem.
func NewBump(mem api.Memory, base uint32) *Bump {
	return &Bump{mem: mem, base: base, next: base}
}

func (b *Bump) Alloc(size, align uint32) (uint32, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseMemory, errors.KindInvalidInput).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	ptr := (uint64(b.next) + uint64(align) - 1) &^ (uint64(align) - 1)
	end := ptr + uint64(size)
	if end >= 1<<32 {
		return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
	}

	if have := uint64(b.mem.Size()); end > have {
		pages := (end - have + pageSize - 1) / pageSize
		if _, ok := b.mem.Grow(uint32(pages)); !ok {
			return 0, errors.AllocationFailed(errors.PhaseMemory, size, align)
		}
	}

	b.next = uint32(end)
	return uint32(ptr), nil
}

func (b *Bump) Free(ptr, size, align uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if uint64(ptr)+uint64(size) == uint64(b.next) {
		b.next = ptr
	}
}

// Used returns the number of bytes between base and the next free address.
func (b *Bump) Used() uint32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.next - b.base
}

// Reset releases every allocation.
func (b *Bump) Reset() {
	b.mu.Lock()
	b.next = b.base
	b.mu.Unlock()
}
