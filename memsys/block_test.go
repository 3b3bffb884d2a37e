// Package memsys_test: unit tests for the package
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package memsys_test

import (
	"math"
	"sync"
	"syscall"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/NVIDIA/walloc/memsys"
	"github.com/pkg/errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Block", func() {
	expectFilled := func(b *memsys.Block, size uint) {
		Expect(b).NotTo(BeNil())
		Expect(b.Size()).To(Equal(size))
		Expect(b.Verify()).To(Succeed())
	}

	Describe("New", func() {
		It("should create an empty block", func() {
			b, err := memsys.New(0)
			Expect(err).NotTo(HaveOccurred())
			Expect(b.Size()).To(BeZero())
			Expect(b.Verify()).To(Succeed())
			b.Free()
		})

		DescribeTable("should allocate exactly the requested number of bytes",
			func(size uint) {
				b, err := memsys.New(size)
				Expect(err).NotTo(HaveOccurred())
				defer b.Free()
				expectFilled(b, size)
			},
			Entry("one byte", uint(1)),
			Entry("odd", uint(4097)),
			Entry("page", uint(4*cos.KiB)),
			Entry("unaligned MiB", uint(cos.MiB+13)),
		)

		It("should deny the max size", func() {
			b, err := memsys.New(math.MaxUint)
			Expect(b).To(BeNil())
			Expect(err).To(HaveOccurred())
			Expect(memsys.IsErrAllocDenied(err)).To(BeTrue())
			Expect(memsys.IsErrUnitOverflow(err)).To(BeFalse())
			Expect(errors.Is(err, syscall.ENOMEM)).To(BeTrue())

			var denied *memsys.ErrAllocDenied
			Expect(errors.As(err, &denied)).To(BeTrue())
			Expect(denied.Size).To(Equal(uint(math.MaxUint)))
			Expect(denied.Err).To(HaveOccurred())
		})

		It("should be deterministic", func() {
			for range 4 {
				b, err := memsys.New(3*cos.KiB + 1)
				Expect(err).NotTo(HaveOccurred())
				expectFilled(b, 3*cos.KiB+1)
				b.Free()
			}
		})
	})

	Describe("From units", func() {
		It("should allocate 1KiB", func() {
			b, err := memsys.FromKiB(1)
			Expect(err).NotTo(HaveOccurred())
			defer b.Free()
			expectFilled(b, 1024)
		})

		It("should allocate 5MiB", func() {
			b, err := memsys.FromMiB(5)
			Expect(err).NotTo(HaveOccurred())
			defer b.Free()
			expectFilled(b, 5_242_880)
			Expect(b.String()).To(Equal("block(5MiB)"))
		})

		It("should allocate 0 units", func() {
			for _, from := range []func(uint) (*memsys.Block, error){memsys.FromKiB, memsys.FromMiB, memsys.FromGiB, memsys.FromTiB} {
				b, err := from(0)
				Expect(err).NotTo(HaveOccurred())
				Expect(b.Size()).To(BeZero())
			}
		})

		DescribeTable("should fail with overflow (and never try to allocate)",
			func(from func(uint) (*memsys.Block, error), u memsys.Unit) {
				n := uint(uint64(math.MaxUint)/u.Multiplier() + 1)
				b, err := from(n)
				Expect(b).To(BeNil())
				Expect(memsys.IsErrUnitOverflow(err)).To(BeTrue())
				Expect(memsys.IsErrAllocDenied(err)).To(BeFalse())

				var overflow *memsys.ErrUnitOverflow
				Expect(errors.As(err, &overflow)).To(BeTrue())
				Expect(overflow.N).To(Equal(n))
				Expect(overflow.Unit).To(Equal(u))
			},
			Entry("KiB", memsys.FromKiB, memsys.KiB),
			Entry("MiB", memsys.FromMiB, memsys.MiB),
			Entry("GiB", memsys.FromGiB, memsys.GiB),
			Entry("TiB", memsys.FromTiB, memsys.TiB),
		)

		It("should fail with overflow for the max unit count", func() {
			_, err := memsys.FromTiB(math.MaxUint)
			Expect(memsys.IsErrUnitOverflow(err)).To(BeTrue())
		})

		It("should deny (rather than overflow) a representable but unaddressable size", func() {
			b, err := memsys.FromMiB(math.MaxUint / cos.MiB)
			Expect(b).To(BeNil())
			Expect(memsys.IsErrAllocDenied(err)).To(BeTrue())
			Expect(memsys.IsErrUnitOverflow(err)).To(BeFalse())
		})

		It("should match the general form", func() {
			b, err := memsys.FromUnits(3, memsys.KiB)
			Expect(err).NotTo(HaveOccurred())
			defer b.Free()
			expectFilled(b, 3*cos.KiB)
		})
	})

	Describe("Free", func() {
		It("should be idempotent", func() {
			b, err := memsys.FromKiB(64)
			Expect(err).NotTo(HaveOccurred())
			b.Free()
			Expect(b.Size()).To(BeZero())
			b.Free()
			Expect(b.Size()).To(BeZero())
			Expect(b.Verify()).To(Succeed())
		})

		It("should return memory for subsequent allocations", func() {
			for range 64 {
				b, err := memsys.FromMiB(64)
				Expect(err).NotTo(HaveOccurred())
				Expect(b.Size()).To(Equal(uint(64 * cos.MiB)))
				b.Free()
			}
		})
	})

	It("should construct blocks concurrently", func() {
		const num = 16
		var (
			wg   sync.WaitGroup
			errs = make(chan error, num)
		)
		for i := range num {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				b, err := memsys.FromKiB(uint(i + 1))
				if err != nil {
					errs <- err
					return
				}
				defer b.Free()
				if b.Size() != uint(i+1)*cos.KiB {
					errs <- errors.Errorf("%s: unexpected size %d", b, b.Size())
					return
				}
				if err := b.Verify(); err != nil {
					errs <- err
				}
			}(i)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			Expect(err).NotTo(HaveOccurred())
		}
	})
})
