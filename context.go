package gf2x

import (
	"github.com/mgenware/gf2x-builder/sdh"
	"github.com/mgenware/j9/v3"
)

// Stages is the set of external build steps the driver can run.
// BuildContext is the real implementation; tests substitute their own.
type Stages interface {
	Configure() error
	Build() error
	Tune(step TuneStep) error
	Install() error
	Check() error
	Clean() error
}

// BuildContext binds a derived configuration to the source tree the
// distribution tools run in.
type BuildContext struct {
	Tunnel *j9.Tunnel
	Config *Config
	// SrcDir is the unpacked gf2x source tree, relative to the package dir.
	SrcDir string

	tools *sdh.Context
}

type BuildContextInitOptions struct {
	Tunnel *j9.Tunnel
	Config *Config
	SrcDir string
}

func NewBuildContext(opt *BuildContextInitOptions) *BuildContext {
	if opt == nil {
		panic("opt is nil")
	}
	if opt.Config == nil {
		panic("opt.Config is nil")
	}
	srcDir := opt.SrcDir
	if srcDir == "" {
		srcDir = DefaultSrcDir
	}
	return &BuildContext{
		Tunnel: opt.Tunnel,
		Config: opt.Config,
		SrcDir: srcDir,
		tools:  sdh.NewContext(opt.Tunnel, opt.Config.Make, opt.Config.ToolEnv()),
	}
}

// Configure runs the tree's configure script with the prefix and the
// derived extra arguments.
func (ctx *BuildContext) Configure() error {
	return ctx.tools.Configure(&sdh.ConfigureOpt{
		Prefix:    ctx.Config.Prefix,
		ExtraArgs: ctx.Config.ConfigureArgs,
	})
}

func (ctx *BuildContext) Build() error {
	return ctx.tools.Make()
}

// Tune runs one tuning target. The targets must run in the order
// TuneSteps gives them; later ones read the tables earlier ones write.
func (ctx *BuildContext) Tune(step TuneStep) error {
	return ctx.tools.MakeTarget(step.MakeTarget())
}

func (ctx *BuildContext) Install() error {
	return ctx.tools.MakeInstall(ctx.Config.DestDir)
}

func (ctx *BuildContext) Check() error {
	return ctx.tools.MakeCheck()
}

// Clean is not part of the install pipeline; it backs the clean CLI action.
func (ctx *BuildContext) Clean() error {
	return ctx.tools.MakeClean()
}
