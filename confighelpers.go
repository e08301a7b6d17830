package gf2x

import (
	"path/filepath"

	"github.com/mgenware/gf2x-builder/io2"
	"golang.org/x/xerrors"
)

// configHelperNames are the autotools platform-detection scripts the
// distribution ships newer copies of.
var configHelperNames = []string{"config.guess", "config.sub"}

// RefreshConfigHelpers copies the distribution's config.guess and config.sub
// from $SAGE_ROOT/config into the source tree, so a stale upstream copy
// cannot misdetect a platform released after the tree was packaged. A tree
// that keeps its own copies under config/ gets those replaced too.
//
// Returns the tree-relative paths that were replaced. Missing helpers are
// not an error; the tree's own copies stay in place.
func RefreshConfigHelpers(sageRoot, srcDir string) ([]string, error) {
	if sageRoot == "" {
		return nil, nil
	}
	helperDir := filepath.Join(sageRoot, "config")
	if !io2.DirectoryExists(helperDir) {
		return nil, nil
	}

	var copied []string
	for _, name := range configHelperNames {
		src := filepath.Join(helperDir, name)
		if !io2.FileExists(src) {
			continue
		}

		if err := io2.CopyFileAtomic(src, filepath.Join(srcDir, name)); err != nil {
			return copied, xerrors.Errorf("refresh %s: %w", name, err)
		}
		copied = append(copied, name)

		// Some releases carry a second copy under config/.
		nested := filepath.Join(srcDir, "config", name)
		if io2.FileExists(nested) {
			if err := io2.CopyFileAtomic(src, nested); err != nil {
				return copied, xerrors.Errorf("refresh %s: %w", filepath.Join("config", name), err)
			}
			copied = append(copied, filepath.Join("config", name))
		}
	}
	return copied, nil
}
