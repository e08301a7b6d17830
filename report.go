package gf2x

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/renameio"
)

// StageResult records one executed stage. Name distinguishes the tuning
// targets, which all share StageTune.
type StageResult struct {
	Stage    Stage
	Name     string
	Duration time.Duration
	Failed   bool
}

// Report summarizes one run: which stages ran, in what order, how long each
// took. A failed run still carries the stages up to and including the one
// that failed.
type Report struct {
	Started  time.Time
	Duration time.Duration
	Stages   []StageResult
}

// Render returns the report as display text, one stage per line.
func (r *Report) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "gf2x build report, started %s\n", r.Started.Format(time.RFC3339))
	for _, s := range r.Stages {
		status := "ok"
		if s.Failed {
			status = "FAILED"
		}
		fmt.Fprintf(&b, "  %-14s %-7s %v\n", s.Name, status, s.Duration.Round(time.Millisecond))
	}
	fmt.Fprintf(&b, "total %v\n", r.Duration.Round(time.Millisecond))
	return b.String()
}

// WriteFile writes the rendered report, replacing path atomically so an
// interrupted run never leaves a half-written report behind.
func (r *Report) WriteFile(path string) error {
	return renameio.WriteFile(path, []byte(r.Render()), 0644)
}
