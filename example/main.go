package main

import (
	"github.com/mgenware/gf2x-builder"
	"github.com/mgenware/j9/v3"
)

// Builds the tree under ./src with a fixed environment instead of the
// process one: complete tuning, staged install under /tmp/gf2x-stage.
func main() {
	t := gf2x.CreateDefaultTunnel()

	env := gf2x.Environ{
		gf2x.EnvTune:    "full",
		gf2x.EnvLocal:   "/usr/local",
		gf2x.EnvDestDir: "/tmp/gf2x-stage",
		gf2x.EnvMake:    "make -j4",
	}

	rep, err := gf2x.Run(t, env, &gf2x.CLIArgs{
		SrcDir: gf2x.DefaultSrcDir,
		Action: gf2x.CLIActionFull,
	})
	if err != nil {
		t.Logger().Log(j9.LogLevelWarning, "Build failed: "+err.Error())
		return
	}
	t.Logger().Log(j9.LogLevelVerbose, rep.Render())
}
