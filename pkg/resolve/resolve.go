// Package resolve implements the single path-resolution policy used for
// icons, detail pages, open-action targets and scripts: absolute values
// must name an existing target, relative values are joined with the
// current base. A missing target is reported as absence, not as an
// error; callers apply their own fallback.
package resolve

import (
	"os"
	"path/filepath"
)

// Asset resolves value against base and reports whether it names an
// existing regular file. The returned path is absolute.
func Asset(base, value string) (string, bool) {
	return resolve(base, value, func(fi os.FileInfo) bool { return fi.Mode().IsRegular() })
}

// Dir resolves value against base and reports whether it names an
// existing directory.
func Dir(base, value string) (string, bool) {
	return resolve(base, value, os.FileInfo.IsDir)
}

func resolve(base, value string, ok func(os.FileInfo) bool) (string, bool) {
	if value == "" {
		return "", false
	}

	candidate := value
	if !filepath.IsAbs(candidate) {
		candidate = filepath.Join(base, candidate)
	}
	abs, err := filepath.Abs(candidate)
	if err != nil {
		return "", false
	}

	fi, err := os.Stat(abs)
	if err != nil || !ok(fi) {
		return "", false
	}
	return abs, true
}
