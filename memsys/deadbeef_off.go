//go:build !deadbeef

// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

func deadbeef([]byte) {}
