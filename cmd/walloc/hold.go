// Package main: walloc allocates and holds sentinel-filled memory blocks
// (see memsys) to put a host under real memory pressure.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"runtime"
	"sync"
	"time"

	"github.com/NVIDIA/walloc/cmn/nlog"
	"github.com/NVIDIA/walloc/memsys"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

type holder struct {
	blocks []*memsys.Block
	total  uint
	mu     sync.Mutex
}

// allocates all requested blocks in parallel; all or nothing
func allocAll(ctx context.Context, reqs []request, legacy, verify bool) (*holder, error) {
	var (
		h       = &holder{}
		g, gctx = errgroup.WithContext(ctx)
	)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, r := range reqs {
		for i := range r.count {
			g.Go(func() error {
				if gctx.Err() != nil {
					return nil // failed (or interrupted) elsewhere
				}
				started := time.Now()
				b, err := r.alloc(legacy)
				if err != nil {
					return errors.WithMessagef(err, "%s (#%d)", r.size, i+1)
				}
				h.add(b)
				if verify {
					if err := b.Verify(); err != nil {
						return err
					}
				}
				nlog.Infof("allocated %s (#%d) in %v", b, i+1, time.Since(started))
				return nil
			})
		}
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		h.free()
		return nil, err
	}
	return h, nil
}

func (r *request) alloc(legacy bool) (*memsys.Block, error) {
	if legacy {
		return memsys.MustFromUnits(r.n, r.unit), nil
	}
	return memsys.FromUnits(r.n, r.unit)
}

func (h *holder) add(b *memsys.Block) {
	h.mu.Lock()
	h.blocks = append(h.blocks, b)
	h.total += b.Size()
	h.mu.Unlock()
}

func (h *holder) num() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.blocks)
}

func (h *holder) size() uint {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.total
}

func (h *holder) free() {
	h.mu.Lock()
	for _, b := range h.blocks {
		b.Free()
	}
	h.blocks, h.total = nil, 0
	h.mu.Unlock()
}

// zero `d` - wait until canceled
func wait(ctx context.Context, d time.Duration) {
	if d == 0 {
		<-ctx.Done()
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}
