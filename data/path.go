package data

import (
	"path"
	"strings"
)

// CleanPath normalizes a path to a clean absolute form with a leading slash.
// The root is returned as "/".
func CleanPath(p string) string {
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}

	return path.Clean(p)
}

// IsRoot checks if the given path refers to the filesystem root.
func IsRoot(p string) bool {
	return p == "" || p == "/"
}

// SplitSpacePath splits a global path into a space name and a space-relative
// path. The first segment names the space; the remainder is the path within
// it. A bare space name yields an empty relative path. The root itself cannot
// be split and returns ErrInvalidPath.
func SplitSpacePath(p string) (string, string, error) {
	var tokens []string
	for _, token := range strings.Split(p, "/") {
		if strings.TrimSpace(token) != "" {
			tokens = append(tokens, token)
		}
	}

	switch len(tokens) {
	case 0:
		return "", "", ErrInvalidPath
	case 1:
		return tokens[0], "", nil
	default:
		return tokens[0], strings.Join(tokens[1:], "/"), nil
	}
}

// JoinSpacePath joins a space name and a space-relative path back into a
// global path.
func JoinSpacePath(space, rel string) string {
	if rel == "" {
		return "/" + space
	}

	return path.Join("/", space, rel)
}
