// Package cos provides common low-level types and utilities for all walloc packages.
/*
 * Copyright (c) 2022-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos

import "fmt"

// IEC (binary) units
const (
	KiB = 1024
	MiB = 1024 * KiB
	GiB = 1024 * MiB
	TiB = 1024 * GiB
)

func ToSizeIEC(b int64, digits int) string {
	switch {
	case b >= TiB:
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(TiB), "TiB")
	case b >= GiB:
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(GiB), "GiB")
	case b >= MiB:
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(MiB), "MiB")
	case b >= KiB:
		return fmt.Sprintf("%.*f%s", digits, float64(b)/float64(KiB), "KiB")
	default:
		return fmt.Sprintf("%dB", b)
	}
}
