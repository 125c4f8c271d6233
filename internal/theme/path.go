package theme

import (
	"fmt"
	"path"
	"strings"
)

// ComposeThemeRoot joins a theme's root directory with a path relative to
// it. Repeated separators are collapsed and any ".." segment in either part
// is rejected with ErrPathTraversalRejected.
func ComposeThemeRoot(themeName, relativePath string) (string, error) {
	root := strings.TrimRight(strings.TrimSpace(themeName), "/")
	if root == "" {
		return "", fmt.Errorf("%w: %q", ErrInvalidThemeName, themeName)
	}
	if HasParentSegment(root) {
		return "", fmt.Errorf("%w: theme %q", ErrPathTraversalRejected, themeName)
	}
	if HasParentSegment(relativePath) {
		return "", fmt.Errorf("%w: %q", ErrPathTraversalRejected, relativePath)
	}

	rel := strings.Trim(relativePath, "/")
	if rel == "" {
		return root, nil
	}
	return path.Join(root, rel), nil
}

// HasParentSegment reports whether p contains a ".." element. Backslashes
// count as separators so Windows-style input cannot slip through.
func HasParentSegment(p string) bool {
	for _, seg := range strings.FieldsFunc(p, func(r rune) bool { return r == '/' || r == '\\' }) {
		if seg == ".." {
			return true
		}
	}
	return false
}
