package gf2x

import (
	"flag"
	"fmt"
	"os"

	"github.com/mgenware/j9/v3"
)

type CLIArgs struct {
	SrcDir     string
	Action     CLIAction
	ReportPath string
}

type CLIAction string

const (
	// Run the whole pipeline: configure, make, tuning, install.
	CLIActionFull CLIAction = "full"
	// Run ./configure
	CLIActionConfigure CLIAction = "configure"
	// Run make
	CLIActionMake CLIAction = "make"
	// Run the tuning targets.
	CLIActionTune CLIAction = "tune"
	// Run make install
	CLIActionInstall CLIAction = "install"
	// Run make check
	CLIActionCheck CLIAction = "check"
	// Run make clean
	CLIActionClean CLIAction = "clean"
)

var SupportedCLIActions = map[CLIAction]bool{
	CLIActionFull:      true,
	CLIActionConfigure: true,
	CLIActionMake:      true,
	CLIActionTune:      true,
	CLIActionInstall:   true,
	CLIActionCheck:     true,
	CLIActionClean:     true,
}

func ParseCLIArgs() *CLIArgs {
	srcPtr := flag.String("src", DefaultSrcDir, "Path to the unpacked gf2x source tree.")
	actionPtr := flag.String("action", "", "Action. Supported actions: full, configure, make, tune, install, check, clean. Defaults to full.")
	reportPtr := flag.String("report", "", "Write a stage report to this file after the run.")

	flag.Parse()

	// Validate action.
	action := CLIAction(*actionPtr)
	if *actionPtr == "" {
		action = CLIActionFull
	}
	if !SupportedCLIActions[action] {
		fmt.Printf("Unsupported action: %v\n", *actionPtr)
		os.Exit(1)
	}

	return &CLIArgs{
		SrcDir:     *srcPtr,
		Action:     action,
		ReportPath: *reportPtr,
	}
}

func CreateDefaultTunnel() *j9.Tunnel {
	return j9.NewTunnel(j9.NewLocalNode(), j9.NewConsoleLogger())
}
