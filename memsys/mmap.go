//go:build linux || darwin || freebsd || netbsd || openbsd || dragonfly

// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"github.com/NVIDIA/walloc/cmn/debug"
	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Blocks are anonymous private mappings, outside of the Go heap:
// mmap reports ENOMEM (and such) instead of the runtime's unrecoverable
// "out of memory", and munmap returns the pages to the OS right away.

func reserve(size int) ([]byte, error) {
	buf, err := unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return nil, errors.Wrapf(err, "mmap %d bytes", size)
	}
	return buf, nil
}

func release(buf []byte) {
	deadbeef(buf)
	err := unix.Munmap(buf)
	debug.AssertNoErr(err)
}
