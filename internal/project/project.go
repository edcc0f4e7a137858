// Package project maps a working directory to the directory where Claude
// keeps that directory's session transcripts.
package project

import (
	"os"
	"path/filepath"
	"strings"
)

// Encode turns a working directory into the name Claude uses for its project
// directory: every path separator and every period becomes a hyphen.
// /Users/foo/bar.baz becomes -Users-foo-bar-baz.
//
// The encoding is lossy; /a.b and /a/b map to the same name.
func Encode(cwd string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '.' || r == filepath.Separator {
			return '-'
		}
		return r
	}, cwd)
}

// DefaultRoot returns ~/.claude/projects.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".claude", "projects"), nil
}

// Dir returns the project directory for cwd under root. The path is not
// checked for existence.
func Dir(root, cwd string) string {
	return filepath.Join(root, Encode(cwd))
}
