package main

import (
	"os"
	"path/filepath"
	"time"

	"github.com/gookit/color"
	"github.com/mgenware/gf2x-builder"
	"github.com/mgenware/gf2x-builder/io2"
)

func main() {
	args := gf2x.ParseCLIArgs()
	if args.ReportPath != "" {
		// The report lands via a temp file in its parent directory, so that
		// directory has to exist before the run.
		args.ReportPath = io2.ResolvePath(args.ReportPath)
		io2.Mkdirp(filepath.Dir(args.ReportPath))
	}

	t := gf2x.CreateDefaultTunnel()
	rep, err := gf2x.Run(t, gf2x.OSEnviron(), args)
	if err != nil {
		color.Danger.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	color.Success.Printf("Action %s finished in %v.\n", args.Action, rep.Duration.Round(time.Millisecond))
}
