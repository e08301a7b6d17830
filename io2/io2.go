package io2

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/renameio"
)

func pathExistsCore(path string) (os.FileInfo, error) {
	if fileInfo, err := os.Stat(path); err == nil {
		return fileInfo, nil
	} else if os.IsNotExist(err) {
		return nil, nil
	} else {
		return nil, err
	}
}

func FileExists(file string) bool {
	info, err := pathExistsCore(file)
	if err != nil {
		return false
	}
	return info != nil && !info.IsDir()
}

func DirectoryExists(dir string) bool {
	info, err := pathExistsCore(dir)
	if err != nil {
		return false
	}
	return info != nil && info.IsDir()
}

func ResolvePath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		panic(err)
	}
	return abs
}

func Mkdirp(dir string) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		panic(err)
	}
}

func JoinCLIFlags(flags ...string) string {
	nonEmptyFlags := make([]string, 0, len(flags))
	for _, flag := range flags {
		if flag != "" {
			nonEmptyFlags = append(nonEmptyFlags, flag)
		}
	}
	return strings.Join(nonEmptyFlags, " ")
}

// CopyFileAtomic replaces dst with a copy of src, keeping src's file mode.
// The data goes through a temp file in dst's directory and lands via
// rename, so dst is never seen half-written.
func CopyFileAtomic(src, dst string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	return renameio.WriteFile(dst, data, info.Mode().Perm())
}
