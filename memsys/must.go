// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import "github.com/NVIDIA/walloc/cmn/cos"

// Legacy "give me the memory or crash" API.
// NOTE: unit conversions are not checked and silently wrap around;
// prefer New and From* that return errors.

func MustNew(size uint) *Block {
	b, err := New(size)
	if err != nil {
		cos.ExitLogf("%v", err)
	}
	return b
}

func MustFromKiB(n uint) *Block { return MustNew(mulWrap(n, KiB)) }
func MustFromMiB(n uint) *Block { return MustNew(mulWrap(n, MiB)) }
func MustFromGiB(n uint) *Block { return MustNew(mulWrap(n, GiB)) }
func MustFromTiB(n uint) *Block { return MustNew(mulWrap(n, TiB)) }

// MustFromUnits is the unchecked counterpart of FromUnits.
func MustFromUnits(n uint, u Unit) *Block { return MustNew(mulWrap(n, u)) }

func mulWrap(n uint, u Unit) uint { return uint(uint64(n) * u.Multiplier()) }
