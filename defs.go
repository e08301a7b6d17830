package gf2x

// Environment variables read by the driver.
const (
	EnvDebug     = "SAGE_DEBUG"
	EnvCC        = "CC"
	EnvCFLAGS    = "CFLAGS"
	EnvFatBinary = "SAGE_FAT_BINARY"
	EnvConfigure = "GF2X_CONFIGURE"
	EnvTune      = "SAGE_TUNE_GF2X"
	EnvSageRoot  = "SAGE_ROOT"
	EnvLocal     = "SAGE_LOCAL"
	EnvDestDir   = "SAGE_DESTDIR"
	EnvCheck     = "SAGE_CHECK"
	EnvMake      = "MAKE"
)

// DefaultSrcDir is where an unpacked gf2x tree is expected relative to the
// working directory.
const DefaultSrcDir = "src"

type Stage string

const (
	StageConfigure Stage = "configure"
	StageBuild     Stage = "build"
	StageTune      Stage = "tune"
	StageInstall   Stage = "install"
	StageCheck     Stage = "check"
	StageClean     Stage = "clean"
)

type TuneLevel string

const (
	TuneFull TuneLevel = "full"
	TuneFast TuneLevel = "fast"
	TuneNo   TuneLevel = "no"
)

type TuneStep string

const (
	TuneLowlevel TuneStep = "lowlevel"
	TuneToom     TuneStep = "toom"
	TuneFFT      TuneStep = "fft"
)

// Tuning sub-steps run for each level, in order. A nil slice skips tuning.
var TuneSteps = map[TuneLevel][]TuneStep{
	TuneFull: {TuneLowlevel, TuneToom, TuneFFT},
	TuneFast: {TuneLowlevel, TuneToom},
	TuneNo:   nil,
}

// MakeTarget returns the make target that runs this tuning step.
func (s TuneStep) MakeTarget() string {
	return "tune-" + string(s)
}

// tuneLevelOf maps a raw SAGE_TUNE_GF2X value to the effective level.
// Matching is exact: anything that is not "full" or "no" selects fast tuning.
func tuneLevelOf(v string) TuneLevel {
	switch v {
	case "full":
		return TuneFull
	case "no":
		return TuneNo
	default:
		return TuneFast
	}
}

// tuneNote is the message announcing the tuning decision.
func tuneNote(level TuneLevel) string {
	switch level {
	case TuneFull:
		return msgTuneFull
	case TuneNo:
		return msgTuneSkip
	default:
		return msgTuneFast
	}
}

// Configure flag that turns off CPU-specific code paths for fat binaries.
const fatBinaryConfigureFlag = "--disable-hardware-specific-code"

// User-visible notes.
const (
	msgDebugBuild = "Building a debug version of gf2x."
	msgWorkaround = "Building gf2x with " + workaroundCFlag + " to work around a bug in gcc 5.0/5.1."
	msgTuneFull   = "Complete tuning of gf2x. This can take a very long time."
	msgTuneFast   = "Fast tuning of gf2x. Set SAGE_TUNE_GF2X=full for a complete tuning."
	msgTuneSkip   = "Skipping tuning of gf2x. Set SAGE_TUNE_GF2X=yes to enable it."
	msgTuneFailed = "Error: tuning of gf2x failed"
)
