// Package cos_test: unit tests for the package
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package cos_test

import (
	"github.com/NVIDIA/walloc/cmn/cos"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Size", func() {
	It("should chain IEC multipliers", func() {
		Expect(int64(cos.KiB)).To(Equal(int64(1024)))
		Expect(int64(cos.MiB)).To(Equal(int64(1_048_576)))
		Expect(int64(cos.GiB)).To(Equal(int64(1_073_741_824)))
		Expect(int64(cos.TiB)).To(Equal(int64(1_099_511_627_776)))
	})

	DescribeTable("ToSizeIEC",
		func(b int64, digits int, expected string) {
			Expect(cos.ToSizeIEC(b, digits)).To(Equal(expected))
		},
		Entry("zero", int64(0), 0, "0B"),
		Entry("bytes", int64(1023), 2, "1023B"),
		Entry("one KiB", int64(cos.KiB), 0, "1KiB"),
		Entry("fractional MiB", int64(cos.MiB+cos.MiB/2), 1, "1.5MiB"),
		Entry("five MiB", int64(5*cos.MiB), 0, "5MiB"),
		Entry("GiB", int64(3*cos.GiB), 2, "3.00GiB"),
		Entry("TiB", int64(2*cos.TiB), 0, "2TiB"),
	)

	It("should fall back to the default when env var is unset", func() {
		GinkgoT().Setenv("WALLOC_TEST_UNSET", "")
		Expect(cos.GetEnvOrDefault("WALLOC_TEST_UNSET", "dflt")).To(Equal("dflt"))
		GinkgoT().Setenv("WALLOC_TEST_SET", "/tmp/x")
		Expect(cos.GetEnvOrDefault("WALLOC_TEST_SET", "dflt")).To(Equal("/tmp/x"))
	})
})
