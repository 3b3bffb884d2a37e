// Package main: walloc allocates and holds sentinel-filled memory blocks
// (see memsys) to put a host under real memory pressure.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"fmt"
	"os"

	"github.com/NVIDIA/walloc/cmn/nlog"
)

var (
	build     string
	buildtime string
)

func main() {
	app := newApp(version(), os.Stdout, os.Stderr)
	err := app.Run(os.Args)
	nlog.Flush()
	if err != nil {
		exitf("%v", formatErr(err))
	}
}

func version() string {
	v := "1.0"
	if build != "" {
		v += "." + build
	}
	if buildtime != "" {
		v += " (" + buildtime + ")"
	}
	return v
}

func exitf(f string, a ...any) {
	fmt.Fprintf(os.Stderr, f+"\n", a...)
	os.Exit(1)
}
