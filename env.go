package gf2x

import (
	"os"
	"strings"

	"github.com/mgenware/gf2x-builder/io2"
	"github.com/mgenware/gf2x-builder/sdh"
)

// Environ is a snapshot of the environment variables the driver honors.
// Missing keys read as "". The driver never mutates the process environment;
// everything derived from an Environ lands in a Config instead.
type Environ map[string]string

var driverEnvVars = []string{
	EnvDebug,
	EnvCC,
	EnvCFLAGS,
	EnvFatBinary,
	EnvConfigure,
	EnvTune,
	EnvSageRoot,
	EnvLocal,
	EnvDestDir,
	EnvCheck,
	EnvMake,
}

// OSEnviron captures the driver variables from the process environment.
func OSEnviron() Environ {
	env := make(Environ, len(driverEnvVars))
	for _, name := range driverEnvVars {
		if v, ok := os.LookupEnv(name); ok {
			env[name] = v
		}
	}
	return env
}

func (e Environ) Get(name string) string {
	return e[name]
}

// Config is the concrete build plan derived once per run from an Environ
// plus the compiler probe. Immutable after DeriveConfig returns it.
type Config struct {
	Debug     bool
	FatBinary bool
	TuneLevel TuneLevel

	Compiler CompilerInfo

	// CC as configured in the environment, probed for the workaround
	// decision and re-exported to the launched build tools.
	CC string
	// CFLAGS after any workaround flag was applied. Empty means the
	// compiler defaults are left alone.
	CFLAGS string
	// Extra arguments placed after the standard configure arguments:
	// whatever GF2X_CONFIGURE carried first, then the fat-binary flag.
	ConfigureArgs []string
	// Install prefix (SAGE_LOCAL). Empty keeps configure's default.
	Prefix string
	// Staged-install root (SAGE_DESTDIR) for make install.
	DestDir string
	// Run the library test suite after install (SAGE_CHECK).
	Check bool
	// Make invocation, e.g. ["make"] or ["make", "-j4"].
	Make []string
	// Root holding the shared config.guess/config.sub helpers (SAGE_ROOT).
	SageRoot string
}

// DeriveConfig computes the build plan from the environment snapshot and the
// probed compiler. The returned notes are meant for standard output, in
// order.
//
// A fat-binary build always disables hardware-specific code generation and
// forces tuning off, even when SAGE_TUNE_GF2X explicitly asks for it.
func DeriveConfig(env Environ, cc CompilerInfo) (*Config, []string) {
	var notes []string

	cfg := &Config{
		Compiler: cc,
		CC:       env.Get(EnvCC),
		CFLAGS:   env.Get(EnvCFLAGS),
		Prefix:   env.Get(EnvLocal),
		DestDir:  env.Get(EnvDestDir),
		Check:    env.Get(EnvCheck) == "yes",
		Make:     sdh.SplitMakeCommand(env.Get(EnvMake)),
		SageRoot: env.Get(EnvSageRoot),
	}

	if env.Get(EnvDebug) == "yes" {
		cfg.Debug = true
		notes = append(notes, msgDebugBuild)
	} else if NeedsWorkaround(cc.ID, cc.Version) {
		cfg.CFLAGS = prependFlag(workaroundCFlag, cfg.CFLAGS)
		notes = append(notes, msgWorkaround)
	}

	cfg.ConfigureArgs = append(cfg.ConfigureArgs, strings.Fields(env.Get(EnvConfigure))...)

	if env.Get(EnvFatBinary) == "yes" {
		cfg.FatBinary = true
		cfg.ConfigureArgs = append(cfg.ConfigureArgs, fatBinaryConfigureFlag)
		cfg.TuneLevel = TuneNo
	} else {
		cfg.TuneLevel = tuneLevelOf(env.Get(EnvTune))
	}

	return cfg, notes
}

// ToolEnv returns the environment entries exported to every launched build
// tool. CFLAGS has to be passed explicitly: the workaround flag exists only
// in the derived config, never in the process environment.
func (c *Config) ToolEnv() []string {
	var env []string
	if c.CC != "" {
		env = append(env, "CC="+c.CC)
	}
	if c.CFLAGS != "" {
		env = append(env, "CFLAGS="+c.CFLAGS)
	}
	return env
}

// prependFlag puts flag in front of a space-separated flag list, preserving
// the existing flags in order. A flag already present is not added twice.
func prependFlag(flag, flags string) string {
	for _, f := range strings.Fields(flags) {
		if f == flag {
			return flags
		}
	}
	return io2.JoinCLIFlags(flag, flags)
}
