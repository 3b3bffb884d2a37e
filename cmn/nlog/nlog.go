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
	"runtime"
	"strconv"
	"strings"
	"time"
)

const (
	nlogBufSize  = 64 * 1024
	nlogLineSize = 4 * 1024
)

type severity int

const (
	sevInfo severity = iota
	sevWarn
	sevErr
)

type nlog struct {
	file *os.File
	pw   *fixed
	size int64
}

func newNlog() *nlog {
	return &nlog{pw: &fixed{buf: make([]byte, nlogBufSize)}}
}

// main function
func log(sev severity, depth int, format string, args ...any) {
	fb := alloc()
	sprintf(sev, depth, format, fb, args...)

	mu.Lock()
	if !initDone {
		initDone = true
		initFile()
	}
	if lg == nil {
		mu.Unlock()
		os.Stderr.Write(fb.bytes())
		free(fb)
		return
	}
	lg.write(fb)
	if sev >= sevErr {
		lg.flush()
	}
	mu.Unlock()

	if sev >= sevWarn && alsoToStderr.Load() {
		os.Stderr.Write(fb.bytes())
	}
	free(fb)
}

// under mu
func (nlog *nlog) write(line *fixed) {
	if nlog.pw.avail() < line.length() {
		nlog.flush()
	}
	nlog.pw.Write(line.bytes())
}

// under mu
func (nlog *nlog) flush() {
	if nlog.pw.length() == 0 {
		return
	}
	n, err := nlog.file.Write(nlog.pw.bytes())
	if err != nil {
		os.Stderr.Write(nlog.pw.bytes())
		os.Stderr.WriteString("Error: [nlog] " + err.Error() + "\n")
	}
	nlog.size += int64(n)
	nlog.pw.reset()

	if nlog.size >= MaxSize {
		if err := nlog.rotate(time.Now()); err != nil {
			os.Stderr.WriteString("Error: [nlog] " + err.Error() + "\n")
		}
	}
}

func (nlog *nlog) rotate(now time.Time) (err error) {
	var (
		s    = fmt.Sprintf("host %s, %s for %s/%s\n", host, runtime.Version(), runtime.GOOS, runtime.GOARCH)
		snow = now.Format("2006/01/02 15:04:05")
		prev = nlog.file
	)
	if nlog.file, err = fcreate(now); err != nil {
		nlog.file = prev
		return err
	}
	if prev != nil {
		prev.Close()
		nlog.file.WriteString("Rotated at " + snow + ", " + s)
	} else {
		nlog.file.WriteString("Started up at " + snow + ", " + s)
	}
	if title != "" {
		_, err = nlog.file.WriteString(title + "\n")
	}
	nlog.size = 0
	return err
}

func (nlog *nlog) close() {
	nlog.flush()
	nlog.file.Close()
}

//
// utils
//

func formatHdr(s severity, depth int, fb *fixed) {
	const char = "IWE"
	_, fn, ln, ok := runtime.Caller(3 + depth)
	if !ok {
		return
	}
	if idx := strings.LastIndexByte(fn, filepath.Separator); idx > 0 {
		fn = fn[idx+1:]
	}
	fn = strings.TrimSuffix(fn, ".go")

	fb.writeByte(char[s])
	fb.writeByte(' ')
	fb.writeStamp(time.Now())
	fb.writeByte(' ')
	fb.writeString(fn)
	fb.writeByte(':')
	fb.writeString(strconv.Itoa(ln))
	fb.writeByte(' ')
}

func sprintf(sev severity, depth int, format string, fb *fixed, args ...any) {
	formatHdr(sev, depth+1, fb)
	if format == "" {
		fmt.Fprint(fb, args...)
	} else {
		fmt.Fprintf(fb, format, args...)
	}
	fb.eol()
}

//
// buffer pool
//

func alloc() (fb *fixed) {
	fb = pool.Get().(*fixed)
	fb.reset()
	return fb
}

func free(fb *fixed) { pool.Put(fb) }
