package gf2x

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/xerrors"
)

// fakeStages records stage invocations in order and fails the ones listed
// in fail.
type fakeStages struct {
	calls []string
	fail  map[string]error
}

func (f *fakeStages) record(name string) error {
	f.calls = append(f.calls, name)
	return f.fail[name]
}

func (f *fakeStages) Configure() error      { return f.record("configure") }
func (f *fakeStages) Build() error          { return f.record("build") }
func (f *fakeStages) Tune(s TuneStep) error { return f.record(s.MakeTarget()) }
func (f *fakeStages) Install() error        { return f.record("install") }
func (f *fakeStages) Check() error          { return f.record("check") }
func (f *fakeStages) Clean() error          { return f.record("clean") }

func TestRunStagesOrder(t *testing.T) {
	for _, test := range []struct {
		desc string
		cfg  *Config
		want []string
	}{
		{
			desc: "fast tuning",
			cfg:  &Config{TuneLevel: TuneFast},
			want: []string{"configure", "build", "tune-lowlevel", "tune-toom", "install"},
		},
		{
			desc: "full tuning",
			cfg:  &Config{TuneLevel: TuneFull},
			want: []string{"configure", "build", "tune-lowlevel", "tune-toom", "tune-fft", "install"},
		},
		{
			desc: "no tuning",
			cfg:  &Config{TuneLevel: TuneNo},
			want: []string{"configure", "build", "install"},
		},
		{
			desc: "check runs after install",
			cfg:  &Config{TuneLevel: TuneNo, Check: true},
			want: []string{"configure", "build", "install", "check"},
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			st := &fakeStages{}
			rep, err := RunStages(st, test.cfg, nil)
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, st.calls); diff != "" {
				t.Errorf("stage calls mismatch (-want +got):\n%s", diff)
			}
			var names []string
			for _, s := range rep.Stages {
				names = append(names, s.Name)
				if s.Failed {
					t.Errorf("stage %s reported as failed", s.Name)
				}
			}
			if diff := cmp.Diff(st.calls, names); diff != "" {
				t.Errorf("report stages mismatch (-calls +report):\n%s", diff)
			}
		})
	}
}

func TestRunStagesStopsAtFailure(t *testing.T) {
	for _, test := range []struct {
		desc      string
		fail      string
		wantCalls []string
		wantStage Stage
	}{
		{
			desc:      "configure failure runs nothing else",
			fail:      "configure",
			wantCalls: []string{"configure"},
			wantStage: StageConfigure,
		},
		{
			desc:      "build failure skips tuning",
			fail:      "build",
			wantCalls: []string{"configure", "build"},
			wantStage: StageBuild,
		},
		{
			desc:      "tuning failure skips later steps and install",
			fail:      "tune-lowlevel",
			wantCalls: []string{"configure", "build", "tune-lowlevel"},
			wantStage: StageTune,
		},
		{
			desc:      "second tuning step failure",
			fail:      "tune-toom",
			wantCalls: []string{"configure", "build", "tune-lowlevel", "tune-toom"},
			wantStage: StageTune,
		},
		{
			desc:      "install failure skips check",
			fail:      "install",
			wantCalls: []string{"configure", "build", "tune-lowlevel", "tune-toom", "install"},
			wantStage: StageInstall,
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			st := &fakeStages{fail: map[string]error{test.fail: xerrors.New("exit status 2")}}
			cfg := &Config{TuneLevel: TuneFast, Check: true}
			rep, err := RunStages(st, cfg, nil)
			if err == nil {
				t.Fatal("RunStages returned nil error")
			}
			var stageErr *StageError
			if !errors.As(err, &stageErr) {
				t.Fatalf("error %v is not a *StageError", err)
			}
			if stageErr.Stage != test.wantStage {
				t.Errorf("failed stage = %v, want %v", stageErr.Stage, test.wantStage)
			}
			if diff := cmp.Diff(test.wantCalls, st.calls); diff != "" {
				t.Errorf("stage calls mismatch (-want +got):\n%s", diff)
			}
			last := rep.Stages[len(rep.Stages)-1]
			if !last.Failed {
				t.Errorf("last report stage %s not marked failed", last.Name)
			}
		})
	}
}

func TestRunStagesTuneNote(t *testing.T) {
	for _, test := range []struct {
		level TuneLevel
		want  string
	}{
		{TuneFull, msgTuneFull},
		{TuneFast, msgTuneFast},
		{TuneNo, msgTuneSkip},
	} {
		var logged []string
		logf := func(msg string) { logged = append(logged, msg) }
		if _, err := RunStages(&fakeStages{}, &Config{TuneLevel: test.level}, logf); err != nil {
			t.Fatal(err)
		}
		if diff := cmp.Diff([]string{test.want}, logged); diff != "" {
			t.Errorf("level %s: logged notes mismatch (-want +got):\n%s", test.level, diff)
		}
	}
}

func TestRunActionSingleStages(t *testing.T) {
	for _, test := range []struct {
		action CLIAction
		want   []string
	}{
		{CLIActionConfigure, []string{"configure"}},
		{CLIActionMake, []string{"build"}},
		{CLIActionTune, []string{"tune-lowlevel", "tune-toom"}},
		{CLIActionInstall, []string{"install"}},
		{CLIActionCheck, []string{"check"}},
		{CLIActionClean, []string{"clean"}},
		{CLIActionFull, []string{"configure", "build", "tune-lowlevel", "tune-toom", "install"}},
	} {
		t.Run(string(test.action), func(t *testing.T) {
			st := &fakeStages{}
			cfg := &Config{TuneLevel: TuneFast}
			if _, err := runAction(st, cfg, test.action, nil); err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, st.calls); diff != "" {
				t.Errorf("stage calls mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTuneFailureDiagnostic(t *testing.T) {
	for _, test := range []struct {
		desc string
		err  error
		want string
	}{
		{
			desc: "tuning stage failure",
			err:  &StageError{Stage: StageTune, Err: xerrors.New("exit status 2")},
			want: msgTuneFailed + "\n",
		},
		{
			desc: "wrapped tuning stage failure",
			err:  xerrors.Errorf("run: %w", &StageError{Stage: StageTune, Err: xerrors.New("exit status 2")}),
			want: msgTuneFailed + "\n",
		},
		{
			desc: "build failure stays silent",
			err:  &StageError{Stage: StageBuild, Err: xerrors.New("exit status 2")},
			want: "",
		},
		{
			desc: "plain error stays silent",
			err:  xerrors.New("boom"),
			want: "",
		},
	} {
		t.Run(test.desc, func(t *testing.T) {
			var buf bytes.Buffer
			reportTuneFailure(&buf, test.err)
			if got := buf.String(); got != test.want {
				t.Errorf("diagnostic = %q, want %q", got, test.want)
			}
		})
	}
}

func TestStageError(t *testing.T) {
	inner := xerrors.New("boom")
	err := &StageError{Stage: StageBuild, Err: inner}
	if !errors.Is(err, inner) {
		t.Error("errors.Is cannot reach the wrapped error")
	}
	if got, want := err.Error(), "build: boom"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
