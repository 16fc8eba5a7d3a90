// Package guestmem provides memory access adapters for wazero.
//
// This package bridges wazero's memory API with the utf8codec Memory and
// Allocator interfaces, so transcoder can lower and lift strings directly in
// WebAssembly linear memory.
//
// # Memory Wrapper
//
// Wraps wazero api.Memory:
//
//	mem := guestmem.WrapMemory(mod.ExportedMemory("memory"))
//	// mem implements utf8codec.Memory and utf8codec.MemorySizer
//
// # Allocators
//
// Realloc calls a guest allocation function with the cabi_realloc signature
// (old_ptr, old_size, align, new_size) -> ptr:
//
//	alloc := guestmem.Realloc(ctx, mod.ExportedFunction("cabi_realloc"))
//
// Bump hands out host-managed regions of a module that has no allocator of
// its own, growing memory as needed:
//
//	alloc := guestmem.NewBump(mod.ExportedMemory("memory"), 1024)
//
// Both plug into transcoder:
//
//	ptr, n, err := transcoder.NewEncoder(transcoder.Options{}).LowerString(units, mem, alloc, nil)
package guestmem
