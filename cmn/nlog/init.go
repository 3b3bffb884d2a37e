// Package nlog - walloc logger, provides buffering, timestamping, writing, and
// flushing/rotating
/*
 * Copyright (c) 2023-2025, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var (
	host = "unknown"
	arg0 string
	pid  int

	pool = sync.Pool{
		New: func() any {
			return &fixed{buf: make([]byte, nlogLineSize)}
		},
	}

	mu       sync.Mutex // protects the state below
	lg       *nlog      // nil: log to stderr
	logDir   string
	initDone bool

	title        string
	alsoToStderr atomic.Bool
)

func init() {
	pid = os.Getpid()
	arg0 = filepath.Base(os.Args[0])
	if h, err := os.Hostname(); err == nil {
		host = _shortHost(h)
	}
}

// under mu
func initFile() {
	if lg != nil {
		lg.close()
		lg = nil
	}
	if logDir == "" {
		return
	}
	nlog := newNlog()
	if err := nlog.rotate(time.Now()); err != nil {
		os.Stderr.WriteString(fmt.Sprintf("Error: [nlog] unable to create log in %q: %v (using stderr)\n", logDir, err))
		return
	}
	lg = nlog
}

func _shortHost(hostname string) string {
	if before, _, ok := strings.Cut(hostname, "."); ok {
		return before
	}
	if len(hostname) < 16 || strings.IndexByte(hostname, '-') < 0 {
		return hostname
	}
	// (e.g. "runner-r9rhlq8--project-4149-concurrent-0")
	parts := strings.Split(hostname, "-")
	if parts[1] != "" || len(parts) == 2 {
		return parts[0] + "-" + parts[1]
	}
	return parts[0] + "-" + parts[2]
}

func logfname(t time.Time) string {
	return fmt.Sprintf("%s.%s.%02d%02d-%02d%02d%02d.%d.log",
		arg0,
		host,
		t.Month(),
		t.Day(),
		t.Hour(),
		t.Minute(),
		t.Second(),
		pid)
}

func fcreate(t time.Time) (*os.File, error) {
	if err := os.MkdirAll(logDir, os.ModePerm); err != nil {
		return nil, err
	}
	name := logfname(t)
	f, err := os.OpenFile(filepath.Join(logDir, name), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o640)
	if err != nil {
		return nil, err
	}
	// re-symlink
	symlink := filepath.Join(logDir, LogName())
	os.Remove(symlink)
	os.Symlink(name, symlink)
	return f, nil
}
