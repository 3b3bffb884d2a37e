// Package memsys allocates and holds sentinel-filled memory blocks of a given size
// to produce real (resident) memory pressure: for tests, allocator benchmarks,
// and resource-consumption simulations.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys

import (
	"fmt"
	"math"
	"math/bits"
	"strconv"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/pkg/errors"
)

// Construction fails with exactly one of the two.
type (
	// the platform could not provide the memory; Err is the platform's detail
	ErrAllocDenied struct {
		Err  error
		Size uint
	}
	// N units do not fit in uint bytes
	ErrUnitOverflow struct {
		N    uint
		Unit Unit
	}
)

// interface guards
var (
	_ error = (*ErrAllocDenied)(nil)
	_ error = (*ErrUnitOverflow)(nil)
)

func (e *ErrAllocDenied) Error() string {
	s := "failed to allocate " + sizeIEC(e.Size)
	if e.Err == nil {
		return s
	}
	return s + ": " + e.Err.Error()
}

func (e *ErrAllocDenied) Unwrap() error { return e.Err }
func (e *ErrAllocDenied) Cause() error  { return e.Err } // github.com/pkg/errors

func (e *ErrUnitOverflow) Error() string {
	return fmt.Sprintf("%d%s overflows %d-bit size", e.N, e.Unit, bits.UintSize)
}

func sizeIEC(size uint) string {
	if uint64(size) > math.MaxInt64 {
		return strconv.FormatUint(uint64(size), 10) + "B"
	}
	return cos.ToSizeIEC(int64(size), 2)
}

func IsErrAllocDenied(err error) bool {
	var e *ErrAllocDenied
	return errors.As(err, &e)
}

func IsErrUnitOverflow(err error) bool {
	var e *ErrUnitOverflow
	return errors.As(err, &e)
}
