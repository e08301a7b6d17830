// Package sdh drives the standard configure/make tool chain of an unpacked
// source tree through a j9 tunnel: one helper per build stage, each an
// opaque launcher that reports success or failure and nothing else.
package sdh

import (
	"strings"

	"github.com/mgenware/j9/v3"
	"golang.org/x/xerrors"
)

// DefaultMake is the make invocation used when $MAKE is not set.
const DefaultMake = "make"

// Context carries what every helper needs: the tunnel to launch through,
// the make invocation, and the environment entries exported to each tool.
// The tunnel's working directory must already be the source tree.
type Context struct {
	Tunnel *j9.Tunnel
	// MakeCmd is the make invocation, e.g. ["make"] or ["make", "-j4"].
	MakeCmd []string
	// Env entries appended to every launched tool (CC=..., CFLAGS=...).
	Env []string
}

func NewContext(t *j9.Tunnel, makeCmd []string, env []string) *Context {
	if len(makeCmd) == 0 {
		makeCmd = []string{DefaultMake}
	}
	return &Context{Tunnel: t, MakeCmd: makeCmd, Env: env}
}

// ConfigureOpt carries the non-standard parts of a configure invocation.
type ConfigureOpt struct {
	// Prefix becomes --prefix; empty keeps the script's default.
	Prefix string
	// ExtraArgs follow the standard arguments verbatim.
	ExtraArgs []string
}

// Configure runs the tree's ./configure script.
func (c *Context) Configure(opt *ConfigureOpt) error {
	if opt == nil {
		opt = &ConfigureOpt{}
	}
	return c.spawn(ConfigureArgv(opt.Prefix, opt.ExtraArgs))
}

// Make runs the default build target.
func (c *Context) Make() error {
	return c.spawn(MakeArgv(c.MakeCmd))
}

// MakeTarget runs a single named target, e.g. one of the tuning targets.
func (c *Context) MakeTarget(target string) error {
	return c.spawn(MakeArgv(c.MakeCmd, target))
}

// MakeInstall installs the built tree, staged under destDir when non-empty.
func (c *Context) MakeInstall(destDir string) error {
	return c.spawn(MakeArgv(c.MakeCmd, InstallArgs(destDir)...))
}

// MakeCheck runs the tree's test suite.
func (c *Context) MakeCheck() error {
	return c.spawn(MakeArgv(c.MakeCmd, "check"))
}

// MakeClean removes build byproducts from the tree.
func (c *Context) MakeClean() error {
	return c.spawn(MakeArgv(c.MakeCmd, "clean"))
}

// spawn launches argv through the tunnel, turning a non-zero exit into the
// error the pipeline short-circuits on.
func (c *Context) spawn(argv []string) error {
	err := c.Tunnel.SpawnRaw(&j9.SpawnOpt{
		Name: argv[0],
		Args: argv[1:],
		Env:  c.Env,
	})
	if err != nil {
		return xerrors.Errorf("%v: %w", argv, err)
	}
	return nil
}

// ConfigureArgv assembles the configure invocation: the script itself, the
// prefix when set, then the extra arguments in their given order.
func ConfigureArgv(prefix string, extra []string) []string {
	argv := []string{"./configure"}
	if prefix != "" {
		argv = append(argv, "--prefix="+prefix)
	}
	argv = append(argv, extra...)
	return argv
}

// MakeArgv assembles a make invocation from the (possibly multi-word) make
// command and target arguments.
func MakeArgv(makeCmd []string, args ...string) []string {
	if len(makeCmd) == 0 {
		makeCmd = []string{DefaultMake}
	}
	argv := make([]string, 0, len(makeCmd)+len(args))
	argv = append(argv, makeCmd...)
	argv = append(argv, args...)
	return argv
}

// InstallArgs returns make's install arguments, staging under destDir when
// non-empty.
func InstallArgs(destDir string) []string {
	args := []string{"install"}
	if destDir != "" {
		args = append(args, "DESTDIR="+destDir)
	}
	return args
}

// SplitMakeCommand splits a $MAKE value like "make -j4" into argv form; an
// empty value yields the default make.
func SplitMakeCommand(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return []string{DefaultMake}
	}
	return fields
}
