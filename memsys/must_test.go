// Package memsys_test: unit tests for the package
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys_test

import (
	"bytes"
	"math"
	"os"
	"os/exec"
	"strings"
	"testing"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/NVIDIA/walloc/memsys"
	"github.com/NVIDIA/walloc/tools/tassert"
	"github.com/pkg/errors"
)

const mustExitEnv = "WALLOC_TEST_MUST_EXIT"

func TestMust(t *testing.T) {
	b := memsys.MustFromKiB(4)
	defer b.Free()
	tassert.Errorf(t, b.Size() == 4*cos.KiB, "unexpected size %d", b.Size())
	tassert.CheckError(t, b.Verify())

	m := memsys.MustFromUnits(2, memsys.MiB)
	tassert.Errorf(t, m.Size() == 2*cos.MiB, "unexpected size %d", m.Size())
	m.Free()
}

// unchecked conversion wraps around: (MaxUint/KiB + 1) KiB == 2^bits == 0 bytes
func TestMustWraps(t *testing.T) {
	b := memsys.MustFromKiB(math.MaxUint/cos.KiB + 1)
	tassert.Errorf(t, b.Size() == 0, "expected wrapped-around (zero) size, got %d", b.Size())

	_, err := memsys.FromKiB(math.MaxUint/cos.KiB + 1)
	tassert.Errorf(t, memsys.IsErrUnitOverflow(err), "expected overflow, got %v", err)
}

// on denial, MustNew terminates the process (runs in a child)
func TestMustExits(t *testing.T) {
	if os.Getenv(mustExitEnv) != "" {
		memsys.MustNew(math.MaxUint)
		return
	}
	var (
		stderr bytes.Buffer
		cmd    = exec.Command(os.Args[0], "-test.run=^TestMustExits$")
	)
	cmd.Env = append(os.Environ(), mustExitEnv+"=1")
	cmd.Stderr = &stderr
	err := cmd.Run()

	var exitErr *exec.ExitError
	tassert.Fatalf(t, errors.As(err, &exitErr), "expected the child to exit with error, got %v", err)
	tassert.Errorf(t, exitErr.ExitCode() == 1, "expected exit code 1, got %d", exitErr.ExitCode())
	tassert.Errorf(t, strings.Contains(stderr.String(), "FATAL ERROR: failed to allocate"), "unexpected stderr: %q", stderr.String())
}
