// Package nlog - walloc logger, provides buffering, timestamping, writing, and
// flushing/rotating
/*
 * Copyright (c) 2023-2025, NVIDIA CORPORATION. All rights reserved.
 */
package nlog

var MaxSize int64 = 4 * 1024 * 1024 // rotate when exceeded

func InfoDepth(depth int, args ...any)    { log(sevInfo, depth, "", args...) }
func Infoln(args ...any)                  { log(sevInfo, 0, "", args...) }
func Infof(format string, args ...any)    { log(sevInfo, 0, format, args...) }
func Warningln(args ...any)               { log(sevWarn, 0, "", args...) }
func Warningf(format string, args ...any) { log(sevWarn, 0, format, args...) }
func ErrorDepth(depth int, args ...any)   { log(sevErr, depth, "", args...) }
func Errorln(args ...any)                 { log(sevErr, 0, "", args...) }
func Errorf(format string, args ...any)   { log(sevErr, 0, format, args...) }

// SetLogDir redirects logging from stderr to a file under `dir`
// (empty `dir` reverts to stderr); takes effect with the next log line
func SetLogDir(dir string) {
	mu.Lock()
	logDir = dir
	initDone = false
	mu.Unlock()
}

// when logging to a file, also write warnings and errors to stderr
func SetToStderr(v bool) { alsoToStderr.Store(v) }

// printed at the top of each rotated file
func SetTitle(s string) {
	mu.Lock()
	title = s
	mu.Unlock()
}

func LogName() string { return arg0 + ".log" }

func Flush() {
	mu.Lock()
	if lg != nil {
		lg.flush()
	}
	mu.Unlock()
}
