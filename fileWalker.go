package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

var sourceFileExts = map[string]struct{}{
	".js":  {},
	".jsx": {},
	".ts":  {},
	".tsx": {},
	".mjs": {},
	".cjs": {},
}

func isSourceFile(name string) bool {
	_, ok := sourceFileExts[filepath.Ext(name)]
	return ok
}

// PathMatcher is a compiled glob over file paths, rooted at the
// directory its pattern came from. Patterns without separators or
// wildcards behave like gitignore bare names: they match any file or
// directory with that exact name.
type PathMatcher struct {
	pattern  glob.Glob
	input    string
	bareName bool
	root     string
}

func CompilePathMatchers(patterns []string, root string) []PathMatcher {
	rootPrefix := ensureTrailingSlash(slashPath(root))
	matchers := make([]PathMatcher, 0, len(patterns))

	for _, pattern := range patterns {
		bareName := !strings.Contains(pattern, "/") && !strings.Contains(pattern, "*")

		if strings.HasSuffix(pattern, "/") && !strings.Contains(pattern, "*") {
			// A trailing slash means the whole directory, recursively.
			pattern = "**" + pattern + "**"
		}

		matchers = append(matchers, PathMatcher{
			pattern:  glob.MustCompile(pattern),
			input:    pattern,
			bareName: bareName,
			root:     rootPrefix,
		})

		// `**/x` does not match a root-level `x` with this glob
		// library; add the bare variant to close the gap.
		if strings.HasPrefix(pattern, "**/") {
			stripped := strings.TrimPrefix(pattern, "**/")
			matchers = append(matchers, PathMatcher{
				pattern: glob.MustCompile(stripped),
				input:   stripped,
				root:    rootPrefix,
			})
		}
	}
	return matchers
}

func MatchesAnyPathMatcher(filePath string, matchers []PathMatcher) bool {
	candidate := slashPath(filePath)
	for _, matcher := range matchers {
		relative := strings.TrimPrefix(candidate, matcher.root)
		if matcher.pattern.Match(relative) {
			return true
		}
		if matcher.bareName {
			if strings.HasSuffix(relative, "/"+matcher.input) {
				return true
			}
			if strings.HasPrefix(relative, matcher.input+"/") || strings.Contains(relative, "/"+matcher.input+"/") {
				return true
			}
		}
	}
	return false
}

func parseGitIgnore(content string, dir string) []PathMatcher {
	var patterns []string
	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" && !strings.HasPrefix(trimmed, "#") && !strings.HasPrefix(trimmed, "!") {
			patterns = append(patterns, trimmed)
		}
	}
	return CompilePathMatchers(patterns, dir)
}

// CollectGitIgnoreMatchers gathers .gitignore rules from dir upward
// until the repository root (the directory containing .git).
func CollectGitIgnoreMatchers(dir string) []PathMatcher {
	var matchers []PathMatcher
	current := filepath.Clean(dir)
	for {
		if content, err := os.ReadFile(filepath.Join(current, ".gitignore")); err == nil {
			matchers = append(matchers, parseGitIgnore(string(content), current)...)
		}
		if info, err := os.Stat(filepath.Join(current, ".git")); err == nil && info.IsDir() {
			break
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	return matchers
}

// CollectSourceFiles walks a directory tree and returns every JS/TS
// source file not excluded by the matcher list. node_modules is always
// skipped; nested .gitignore files extend the exclusion set for their
// subtree.
func CollectSourceFiles(dir string, excludeMatchers []PathMatcher) []string {
	var files []string
	collectSourceFiles(dir, excludeMatchers, &files)
	return files
}

func collectSourceFiles(dir string, excludeMatchers []PathMatcher, files *[]string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		entryPath := filepath.Join(dir, name)

		if entry.IsDir() {
			if name == "node_modules" || name == ".git" {
				continue
			}
			if MatchesAnyPathMatcher(entryPath, excludeMatchers) {
				continue
			}

			scoped := excludeMatchers
			if content, err := os.ReadFile(filepath.Join(entryPath, ".gitignore")); err == nil {
				scoped = append(append([]PathMatcher{}, excludeMatchers...), parseGitIgnore(string(content), entryPath)...)
			}
			collectSourceFiles(entryPath, scoped, files)
			continue
		}

		if isSourceFile(name) && !MatchesAnyPathMatcher(entryPath, excludeMatchers) {
			*files = append(*files, entryPath)
		}
	}
}
