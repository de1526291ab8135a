package main

import (
	"path/filepath"
	"strings"
)

// slashPath converts a path to forward slashes for glob matching and
// report output. File IO keeps using the OS-native form.
func slashPath(p string) string {
	return filepath.ToSlash(filepath.Clean(p))
}

// ensureTrailingSlash normalizes a directory prefix so it can be
// trimmed off candidate paths with a plain TrimPrefix.
func ensureTrailingSlash(dir string) string {
	if dir == "" || strings.HasSuffix(dir, "/") {
		return dir
	}
	return dir + "/"
}
