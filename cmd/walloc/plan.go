// Package main: walloc allocates and holds sentinel-filled memory blocks
// (see memsys) to put a host under real memory pressure.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/NVIDIA/walloc/memsys"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// e.g.:
//
//	hold: 30s
//	verify: true
//	blocks:
//	  - size: 5MiB
//	    count: 2
//	  - size: 1GiB
type (
	Plan struct {
		Hold   string      `json:"hold,omitempty" yaml:"hold,omitempty"`
		Blocks []PlanEntry `json:"blocks" yaml:"blocks"`
		Verify bool        `json:"verify,omitempty" yaml:"verify,omitempty"`
		Legacy bool        `json:"legacy,omitempty" yaml:"legacy,omitempty"`
	}
	PlanEntry struct {
		Size  string `json:"size" yaml:"size"`
		Count int    `json:"count,omitempty" yaml:"count,omitempty"` // zero means one
	}
)

type request struct {
	size  string // as specified
	n     uint
	unit  memsys.Unit
	count int
}

func loadPlan(path string) (*Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	plan := &Plan{}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, plan)
	case ".json":
		err = jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(b, plan)
	default:
		return nil, errors.Errorf("plan %q: unsupported format %q (expecting .yaml, .yml, or .json)", path, ext)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "failed to load plan %q", path)
	}
	return plan, nil
}

func (plan *Plan) parse() (reqs []request, hold time.Duration, err error) {
	if len(plan.Blocks) == 0 {
		return nil, 0, errors.New("nothing to allocate")
	}
	if hold, err = parseHold(plan.Hold); err != nil {
		return nil, 0, err
	}
	reqs = make([]request, 0, len(plan.Blocks))
	for _, e := range plan.Blocks {
		r := request{size: e.Size, count: e.Count}
		if r.n, r.unit, err = memsys.ParseSize(e.Size); err != nil {
			return nil, 0, err
		}
		switch {
		case r.count == 0:
			r.count = 1
		case r.count < 0:
			return nil, 0, errors.Errorf("%s: invalid count %d", e.Size, e.Count)
		}
		reqs = append(reqs, r)
	}
	return reqs, hold, nil
}

// "s" (seconds) is the default time unit
func parseHold(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		s += "s"
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid hold duration %q", s)
	}
	if d < 0 {
		return 0, errors.Errorf("invalid negative hold duration %v", d)
	}
	return d, nil
}
