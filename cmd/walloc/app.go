// Package main: walloc allocates and holds sentinel-filled memory blocks
// (see memsys) to put a host under real memory pressure.
/*
 * Copyright (c) 2018-2025, NVIDIA CORPORATION. All rights reserved.
 */
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/NVIDIA/walloc/cmn/cos"
	"github.com/NVIDIA/walloc/cmn/nlog"
	"github.com/NVIDIA/walloc/memsys"
	"github.com/fatih/color"
	"github.com/pkg/errors"
	"github.com/urfave/cli"
)

const (
	cliName   = "walloc"
	envLogDir = "WALLOC_LOG_DIR"
)

const allocExamples = `Examples:
   walloc alloc 5MiB                       - allocate 5MiB and hold it until Ctrl-C
   walloc alloc --count 4 --hold 30 1GiB   - four 1GiB blocks for 30 seconds
   walloc alloc --verify 512K 3G           - same, re-reading the blocks before holding them
   walloc plan ./pressure.yaml             - allocate as per YAML (or JSON) plan`

var (
	logDirFlag = cli.StringFlag{
		Name:  "log-dir",
		Usage: "write log to a file in the given directory (default: stderr; env " + envLogDir + ")",
		Value: cos.GetEnvOrDefault(envLogDir, ""),
	}
	noColorFlag = cli.BoolFlag{Name: "no-color", Usage: "disable colored output"}

	countFlag  = cli.IntFlag{Name: "count", Usage: "number of blocks to allocate for each SIZE", Value: 1}
	holdFlag   = cli.StringFlag{Name: "hold", Usage: "hold blocks for this long, e.g. '30s', '1m' or '45' (seconds); 0: until Ctrl-C"}
	verifyFlag = cli.BoolFlag{Name: "verify", Usage: "re-read every allocated block and check its contents"}
	legacyFlag = cli.BoolFlag{
		Name:  "legacy",
		Usage: "unchecked unit conversion; terminate the process when the system can't provide memory",
	}
)

// color (honors color.NoColor at call time)
var (
	fred  = color.New(color.FgHiRed).SprintFunc()
	fcyan = color.New(color.FgHiCyan).SprintFunc()
)

type errUsage struct {
	cmd string
	msg string
}

func (e *errUsage) Error() string {
	return fmt.Sprintf("%s\nSee '%s %s --help'", e.msg, cliName, e.cmd)
}

func newApp(version string, out, errw io.Writer) *cli.App {
	app := cli.NewApp()
	app.Name = cliName
	app.Usage = "allocate and hold memory blocks filled with 0xFF"
	app.Version = version
	app.Writer = out
	app.ErrWriter = errw
	app.Flags = []cli.Flag{logDirFlag, noColorFlag}
	app.Before = onBeforeCommand
	app.Commands = []cli.Command{
		{
			Name:        "alloc",
			Usage:       "allocate blocks of the given sizes, hold, and release",
			ArgsUsage:   "SIZE [SIZE...]",
			Description: "SIZE is <n>[B|K|KiB|M|MiB|G|GiB|T|TiB] (binary units, case-insensitive)\n\n" + allocExamples,
			Flags:       []cli.Flag{countFlag, holdFlag, verifyFlag, legacyFlag},
			Action:      allocHandler,
		},
		{
			Name:      "plan",
			Usage:     "allocate blocks as per YAML or JSON plan file, hold, and release",
			ArgsUsage: "FILE",
			Action:    planHandler,
		},
	}
	return app
}

func onBeforeCommand(c *cli.Context) error {
	// only disable: color itself turns off when stdout is not a terminal
	if c.Bool(noColorFlag.Name) {
		color.NoColor = true
	}
	if dir := c.String(logDirFlag.Name); dir != "" {
		nlog.SetLogDir(dir)
		nlog.SetToStderr(true)
		nlog.SetTitle(strings.Join(os.Args, " "))
	}
	return nil
}

func allocHandler(c *cli.Context) error {
	if c.NArg() == 0 {
		return &errUsage{cmd: c.Command.Name, msg: "missing SIZE argument"}
	}
	if cnt := c.Int(countFlag.Name); cnt < 1 {
		return &errUsage{cmd: c.Command.Name, msg: fmt.Sprintf("invalid --%s %d (expecting a positive number)", countFlag.Name, cnt)}
	}
	plan := &Plan{
		Hold:   c.String(holdFlag.Name),
		Verify: c.Bool(verifyFlag.Name),
		Legacy: c.Bool(legacyFlag.Name),
	}
	for _, size := range c.Args() {
		plan.Blocks = append(plan.Blocks, PlanEntry{Size: size, Count: c.Int(countFlag.Name)})
	}
	return run(c, plan)
}

func planHandler(c *cli.Context) error {
	if c.NArg() != 1 {
		return &errUsage{cmd: c.Command.Name, msg: "expecting exactly one plan FILE"}
	}
	plan, err := loadPlan(c.Args().First())
	if err != nil {
		return err
	}
	return run(c, plan)
}

func run(c *cli.Context, plan *Plan) error {
	reqs, hold, err := plan.parse()
	if err != nil {
		return &errUsage{cmd: c.Command.Name, msg: err.Error()}
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h, err := allocAll(ctx, reqs, plan.Legacy, plan.Verify)
	if err != nil {
		nlog.Errorln(err)
		return err
	}
	defer h.free()

	fmt.Fprintf(c.App.Writer, "Holding %d block%s, total %s (pid %d)\n",
		h.num(), plural(h.num()), fcyan(cos.ToSizeIEC(int64(h.size()), 2)), os.Getpid())
	if hold > 0 {
		fmt.Fprintf(c.App.Writer, "Releasing in %v or on Ctrl-C\n", hold)
	} else {
		fmt.Fprintln(c.App.Writer, "Releasing on Ctrl-C")
	}

	wait(ctx, hold)
	nlog.Infof("releasing %d blocks (%s)", h.num(), cos.ToSizeIEC(int64(h.size()), 2))
	return nil
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}

// the error kind goes first to tell "asked too much in unit form" from "out of memory"
func formatErr(err error) string {
	var usage *errUsage
	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case memsys.IsErrUnitOverflow(err):
		return fred("Error: ") + "[overflow] " + err.Error()
	case memsys.IsErrAllocDenied(err):
		return fred("Error: ") + "[denied] " + err.Error()
	default:
		return fred("Error: ") + err.Error()
	}
}
