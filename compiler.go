package gf2x

import (
	"strconv"
	"strings"

	"github.com/mgenware/j9/v3"
)

// Flag worked into CFLAGS for the buggy gcc range; gcc 5.0.x and 5.1.x
// miscompile the library's multiplication kernels without it.
const workaroundCFlag = "-fno-forward-propagate"

// CompilerInfo identifies the compiler behind $CC. The zero value means the
// probe failed or nothing was recognized.
type CompilerInfo struct {
	// ID is "gcc" or "clang"; "" when unknown.
	ID string
	// Version like "5.1.0"; "" when none was found.
	Version string
}

// DetectCompiler probes cc (the value of $CC) for its version line. Probe
// failures are not fatal: a missing or broken compiler yields a zero
// CompilerInfo, which simply never triggers the workaround.
func DetectCompiler(t *j9.Tunnel, cc string) CompilerInfo {
	if cc == "" {
		return CompilerInfo{}
	}
	out, err := t.ShellRaw(&j9.ShellOpt{Cmd: cc + " --version 2>/dev/null"})
	if err != nil {
		return CompilerInfo{}
	}
	line := strings.TrimSpace(out)
	if line == "" {
		return CompilerInfo{}
	}
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return ParseCompilerVersion(line)
}

// ParseCompilerVersion extracts compiler identity and version from the first
// line of `cc --version` output. Recognized shapes include:
//
//	gcc (GCC) 5.1.0
//	gcc (Ubuntu 5.4.0-6ubuntu1~16.04.9) 5.4.0 20160609
//	cc (Debian 8.3.0-6) 8.3.0
//	clang version 11.0.0
//	Apple clang version 12.0.5 (clang-1205.0.22.9)
func ParseCompilerVersion(line string) CompilerInfo {
	info := CompilerInfo{}
	lower := strings.ToLower(line)
	fields := strings.Fields(lower)
	switch {
	case strings.Contains(lower, "clang"):
		info.ID = "clang"
	case strings.Contains(lower, "gcc") || strings.Contains(lower, "g++"):
		info.ID = "gcc"
	case len(fields) > 0 && fields[0] == "cc":
		// Debian installs gcc as cc and reports "cc (Debian ...) ...".
		info.ID = "gcc"
	}
	if info.ID == "" {
		return info
	}
	info.Version = firstVersionToken(stripParens(line))
	return info
}

// NeedsWorkaround reports whether the compiler is in the range that needs
// workaroundCFlag.
func NeedsWorkaround(id, version string) bool {
	if id != "gcc" || version == "" {
		return false
	}
	major, minor, ok := majorMinor(version)
	return ok && major == 5 && (minor == 0 || minor == 1)
}

func majorMinor(v string) (major, minor int, ok bool) {
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return 0, 0, false
	}
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, false
	}
	minor, err = strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, false
	}
	return major, minor, true
}

// stripParens drops parenthesized segments, so that vendor build strings
// like "(Ubuntu 5.4.0-6ubuntu1~16.04.9)" cannot be mistaken for the
// compiler version.
func stripParens(s string) string {
	var b strings.Builder
	depth := 0
	for _, r := range s {
		switch {
		case r == '(':
			depth++
		case r == ')':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstVersionToken(s string) string {
	for _, f := range strings.Fields(s) {
		if isVersion(f) {
			return f
		}
	}
	return ""
}

// isVersion matches tokens of digits and dots with at least one dot, e.g.
// "5.1.0" but not "20160609" or "clang-1205".
func isVersion(s string) bool {
	if len(s) == 0 || s[0] == '.' || s[len(s)-1] == '.' {
		return false
	}
	dot := false
	for i := 0; i < len(s); i++ {
		switch {
		case s[i] == '.':
			dot = true
		case s[i] < '0' || s[i] > '9':
			return false
		}
	}
	return dot
}
