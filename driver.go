package gf2x

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mgenware/gf2x-builder/io2"
	"github.com/mgenware/j9/v3"
	"golang.org/x/xerrors"
)

// Run executes one CLI action against the source tree: probe the compiler,
// derive the configuration from env, refresh the config helper scripts,
// then sequence the requested stages inside the tree.
//
// The returned report covers the stages that ran, even when one failed.
func Run(t *j9.Tunnel, env Environ, args *CLIArgs) (*Report, error) {
	if args == nil {
		args = &CLIArgs{}
	}
	action := args.Action
	if action == "" {
		action = CLIActionFull
	}
	if !SupportedCLIActions[action] {
		return nil, xerrors.Errorf("unsupported action: %s", action)
	}
	srcDir := args.SrcDir
	if srcDir == "" {
		srcDir = DefaultSrcDir
	}
	if !io2.DirectoryExists(srcDir) {
		return nil, xerrors.Errorf("source directory does not exist: %s", srcDir)
	}

	cc := DetectCompiler(t, env.Get(EnvCC))
	cfg, notes := DeriveConfig(env, cc)
	for _, note := range notes {
		t.Logger().Log(j9.LogLevelVerbose, note)
	}

	// A failed helper refresh never stops the build.
	if action == CLIActionFull || action == CLIActionConfigure {
		copied, err := RefreshConfigHelpers(cfg.SageRoot, srcDir)
		if err != nil {
			t.Logger().Log(j9.LogLevelWarning, "Could not refresh config helpers: "+err.Error())
		}
		for _, name := range copied {
			t.Logger().Log(j9.LogLevelVerbose, "Refreshed "+name)
		}
	}

	t.CD(srcDir)
	ctx := NewBuildContext(&BuildContextInitOptions{
		Tunnel: t,
		Config: cfg,
		SrcDir: srcDir,
	})

	logf := func(msg string) {
		t.Logger().Log(j9.LogLevelVerbose, msg)
	}
	rep, err := runAction(ctx, cfg, action, logf)
	if err != nil {
		reportTuneFailure(os.Stderr, err)
	}

	// The report is written for failed runs too; it shows how far the run got.
	if rep != nil && args.ReportPath != "" {
		if werr := rep.WriteFile(args.ReportPath); werr != nil {
			t.Logger().Log(j9.LogLevelWarning, "Could not write report: "+werr.Error())
		}
	}
	return rep, err
}

// reportTuneFailure writes the labeled tuning diagnostic when err came from
// the tuning stage. Other failures stay silent here; their StageError is the
// caller's to surface.
func reportTuneFailure(w io.Writer, err error) {
	var stageErr *StageError
	if errors.As(err, &stageErr) && stageErr.Stage == StageTune {
		fmt.Fprintln(w, msgTuneFailed)
	}
}

func runAction(st Stages, cfg *Config, action CLIAction, logf func(string)) (*Report, error) {
	switch action {
	case CLIActionFull:
		return RunStages(st, cfg, logf)
	case CLIActionConfigure:
		return runOne(StageConfigure, st.Configure)
	case CLIActionMake:
		return runOne(StageBuild, st.Build)
	case CLIActionTune:
		r := newStageRunner()
		err := runTuning(r, st, cfg, logf)
		return r.report(), err
	case CLIActionInstall:
		return runOne(StageInstall, st.Install)
	case CLIActionCheck:
		return runOne(StageCheck, st.Check)
	case CLIActionClean:
		return runOne(StageClean, st.Clean)
	}
	return nil, xerrors.Errorf("unsupported action: %s", action)
}

// RunStages sequences the install pipeline: configure, make, the tuning
// targets for cfg.TuneLevel, make install, and the test suite when the
// configuration asks for it. The first failed stage stops the run; the
// returned error is a *StageError naming it.
func RunStages(st Stages, cfg *Config, logf func(string)) (*Report, error) {
	r := newStageRunner()
	if err := r.run(StageConfigure, st.Configure); err != nil {
		return r.report(), err
	}
	if err := r.run(StageBuild, st.Build); err != nil {
		return r.report(), err
	}
	if err := runTuning(r, st, cfg, logf); err != nil {
		return r.report(), err
	}
	if err := r.run(StageInstall, st.Install); err != nil {
		return r.report(), err
	}
	if cfg.Check {
		if err := r.run(StageCheck, st.Check); err != nil {
			return r.report(), err
		}
	}
	return r.report(), nil
}

func runTuning(r *stageRunner, st Stages, cfg *Config, logf func(string)) error {
	if logf == nil {
		logf = func(string) {}
	}
	logf(tuneNote(cfg.TuneLevel))
	for _, step := range TuneSteps[cfg.TuneLevel] {
		fn := func() error { return st.Tune(step) }
		if err := r.runNamed(StageTune, step.MakeTarget(), fn); err != nil {
			return err
		}
	}
	return nil
}

func runOne(stage Stage, fn func() error) (*Report, error) {
	r := newStageRunner()
	err := r.run(stage, fn)
	return r.report(), err
}

// stageRunner times each stage and turns stage failures into StageErrors.
type stageRunner struct {
	started time.Time
	results []StageResult
}

func newStageRunner() *stageRunner {
	return &stageRunner{started: time.Now()}
}

func (r *stageRunner) run(stage Stage, fn func() error) error {
	return r.runNamed(stage, string(stage), fn)
}

func (r *stageRunner) runNamed(stage Stage, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	r.results = append(r.results, StageResult{
		Stage:    stage,
		Name:     name,
		Duration: time.Since(start),
		Failed:   err != nil,
	})
	if err != nil {
		return &StageError{Stage: stage, Err: err}
	}
	return nil
}

func (r *stageRunner) report() *Report {
	return &Report{
		Started:  r.started,
		Duration: time.Since(r.started),
		Stages:   r.results,
	}
}
