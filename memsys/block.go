// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"bytes"
	"math"
	"runtime"
	"sync/atomic"
	"syscall"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/NVIDIA/walloc/cmn/debug"
	"github.com/pkg/errors"
)

// ============================== How to use ====================================
//
//	b, err := memsys.FromMiB(512)
//	if err != nil {
//		// memsys.IsErrUnitOverflow(err) - asked for too much in unit form
//		// memsys.IsErrAllocDenied(err)  - the system is out of memory
//		...
//	}
//	defer b.Free()
//
// Construction is: (1) checked unit-to-bytes conversion, (2) fallible
// reservation, and (3) commit, i.e., writing Sentinel across the entire block.
// Block's memory is released either by Free() or, if the caller simply drops
// the block, by the runtime cleanup once the block becomes unreachable.
//
// Each block owns its memory; there's no shared state between blocks, and
// constructing blocks concurrently is safe.
//
// The Must* family (see must.go) terminates the process on allocation failure
// and does not check for overflow.

const Sentinel = 0xFF

const pageSize = cos.KiB * 4

var sentinelPage = bytes.Repeat([]byte{Sentinel}, pageSize)

// Block is a contiguous, Sentinel-filled, fixed-size memory block.
// The memory is never exposed, and its size never changes.
type Block struct {
	buf     []byte
	cleanup runtime.Cleanup
	freed   atomic.Bool
}

// New allocates a block of exactly `size` bytes and fills it with Sentinel.
// Fails with *ErrAllocDenied when the platform cannot provide the memory.
func New(size uint) (*Block, error) {
	if size == 0 {
		return &Block{}, nil
	}
	if size > math.MaxInt {
		err := errors.Wrapf(syscall.ENOMEM, "%d bytes exceeds max addressable %d", size, math.MaxInt)
		return nil, &ErrAllocDenied{Size: size, Err: err}
	}
	buf, err := reserve(int(size))
	if err != nil {
		return nil, &ErrAllocDenied{Size: size, Err: err}
	}
	return commit(buf), nil
}

// FromUnits converts n units to bytes and allocates.
// Overflow is checked strictly before attempting to allocate.
func FromUnits(n uint, u Unit) (*Block, error) {
	size, err := ToBytes(n, u)
	if err != nil {
		return nil, err
	}
	return New(size)
}

func FromKiB(n uint) (*Block, error) { return FromUnits(n, KiB) }
func FromMiB(n uint) (*Block, error) { return FromUnits(n, MiB) }
func FromGiB(n uint) (*Block, error) { return FromUnits(n, GiB) }
func FromTiB(n uint) (*Block, error) { return FromUnits(n, TiB) }

func commit(buf []byte) *Block {
	var filled bool
	defer func() {
		if !filled {
			release(buf)
		}
	}()
	fill(buf)
	filled = true
	debug.Func(func() { debug.AssertNoErr(verify(buf)) })

	b := &Block{buf: buf}
	b.cleanup = runtime.AddCleanup(b, release, buf)
	return b
}

// writing every byte (as opposed to reserving) is what forces the OS to back the pages
func fill(buf []byte) {
	l := copy(buf, sentinelPage)
	for l < len(buf) {
		l += copy(buf[l:], buf[:l])
	}
}

func verify(buf []byte) error {
	for off := 0; off < len(buf); off += pageSize {
		chunk := buf[off:min(off+pageSize, len(buf))]
		if bytes.Equal(chunk, sentinelPage[:len(chunk)]) {
			continue
		}
		for i, c := range chunk {
			if c != Sentinel {
				return errors.Errorf("offset %d: found %#x, expecting %#x", off+i, c, Sentinel)
			}
		}
	}
	return nil
}

///////////
// Block //
///////////

// Size returns the number of bytes held by the block (zero once freed).
func (b *Block) Size() uint { return uint(len(b.buf)) }

func (b *Block) String() string {
	return "block(" + cos.ToSizeIEC(int64(len(b.buf)), 0) + ")"
}

// Verify reads the entire block and checks that every byte equals Sentinel.
func (b *Block) Verify() error {
	err := verify(b.buf)
	runtime.KeepAlive(b) // the cleanup must not release the memory under our feet
	if err != nil {
		return errors.WithMessage(err, b.String())
	}
	return nil
}

// Free releases the block's memory back to the platform.
// It is safe to call more than once. It must not race with other methods.
func (b *Block) Free() {
	if !b.freed.CompareAndSwap(false, true) || b.buf == nil {
		return
	}
	b.cleanup.Stop()
	release(b.buf)
	b.buf = nil
}
