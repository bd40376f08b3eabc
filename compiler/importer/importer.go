// Package importer supplies the filesystem-backed semantic.ImportResolver
// used outside of tests: local `import "./path.qsr"` declarations resolve
// against the importing file's directory, and the resolved absolute path
// doubles as the canonical key the analyzer uses for circular-import
// detection (spec.md §4.3, §9 resolved question 1).
package importer

import (
	"os"
	"path/filepath"

	"tlog.app/go/errors"
)

// OS resolves local imports directly against the host filesystem.
type OS struct{}

// Resolve reads the file at relPath, resolved against baseDir, and returns
// its text plus an absolute, cleaned canonical path. Symlinks are not
// resolved, so two links to one file yield two different paths.
func (OS) Resolve(baseDir, relPath string) (text []byte, canonical string, err error) {
	full := relPath
	if !filepath.IsAbs(full) {
		full = filepath.Join(baseDir, relPath)
	}

	canonical, err = filepath.Abs(full)
	if err != nil {
		return nil, "", errors.Wrap(err, "resolve %q", relPath)
	}

	text, err = os.ReadFile(canonical)
	if err != nil {
		return nil, "", errors.Wrap(err, "read %q", relPath)
	}

	return text, canonical, nil
}
