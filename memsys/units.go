// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"math"
	"math/bits"
	"strconv"
	"strings"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/pkg/errors"
)

type Unit uint8

// IEC (binary) units
const (
	Bytes Unit = iota
	KiB
	MiB
	GiB
	TiB
)

var units = [...]struct {
	name string
	mult uint64
}{
	Bytes: {"B", 1},
	KiB:   {"KiB", cos.KiB},
	MiB:   {"MiB", cos.MiB},
	GiB:   {"GiB", cos.GiB},
	TiB:   {"TiB", cos.TiB},
}

func (u Unit) valid() bool { return int(u) < len(units) }

// Multiplier returns the number of bytes in one unit.
func (u Unit) Multiplier() uint64 {
	if !u.valid() {
		return 0
	}
	return units[u].mult
}

func (u Unit) String() string {
	if !u.valid() {
		return "Unit(" + strconv.Itoa(int(u)) + ")"
	}
	return units[u].name
}

// ToBytes computes n*u.Multiplier() and fails with *ErrUnitOverflow
// if the product does not fit in uint.
func ToBytes(n uint, u Unit) (uint, error) {
	if !u.valid() {
		return 0, errors.Errorf("invalid unit %s", u)
	}
	hi, lo := bits.Mul64(uint64(n), u.Multiplier())
	if hi != 0 || lo > math.MaxUint {
		return 0, &ErrUnitOverflow{N: n, Unit: u}
	}
	return uint(lo), nil
}

// ParseSize parses "<n>[unit]" where unit is one of B, K|KiB, M|MiB, G|GiB, T|TiB
// (case-insensitive, no suffix means bytes). All units are powers of two.
// The result is (count, unit) rather than bytes: use ToBytes or FromUnits
// to convert (and check for overflow).
func ParseSize(s string) (n uint, u Unit, err error) {
	size := strings.ToUpper(strings.TrimSpace(s))
	if size == "" {
		return 0, 0, errors.New("empty size")
	}
	suffix, u := _suffix(size)
	num := strings.TrimSpace(strings.TrimSuffix(size, suffix))
	v, err := strconv.ParseUint(num, 10, bits.UintSize)
	if err != nil {
		return 0, 0, errors.Wrapf(err, "invalid size %q (expecting <n>[B|KiB|MiB|GiB|TiB])", s)
	}
	return uint(v), u, nil
}

func _suffix(s string) (string, Unit) {
	for _, sfx := range [...]struct {
		s string
		u Unit
	}{
		{"KIB", KiB}, {"MIB", MiB}, {"GIB", GiB}, {"TIB", TiB},
		{"K", KiB}, {"M", MiB}, {"G", GiB}, {"T", TiB},
		{"B", Bytes},
	} {
		if strings.HasSuffix(s, sfx.s) {
			return sfx.s, sfx.u
		}
	}
	return "", Bytes
}
