//go:build !(linux || darwin || freebsd || netbsd || openbsd || dragonfly)

// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import "github.com/pkg/errors"

// Go heap fallback: only the runtime's (recoverable) makeslice panics get
// reported as denials; exhausting memory remains fatal for the process.

func reserve(size int) (buf []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Errorf("make %d bytes: %v", size, r)
		}
	}()
	return make([]byte, size), nil
}

func release(buf []byte) { deadbeef(buf) }
