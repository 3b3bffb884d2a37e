// Package cos provides common low-level types and utilities for all walloc packages.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import (
	"fmt"
	"os"

	"github.com/NVIDIA/walloc/cmn/nlog"
)

//////////////////////////
// Abnormal Termination //
//////////////////////////

const fatalPrefix = "FATAL ERROR: "

// Exitf writes formatted message to STDERR and exits with non-zero status code.
func Exitf(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}

// ExitLogf is `Exitf` plus logging, for callers that have initialized nlog.
func ExitLogf(f string, a ...any) {
	msg := fmt.Sprintf(fatalPrefix+f, a...)
	nlog.ErrorDepth(1, msg)
	nlog.Flush()
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
