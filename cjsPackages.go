package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// PackageManifest is the subset of package.json the discovery cares about.
type PackageManifest struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Type            string            `json:"type"`
	Main            string            `json:"main"`
	Module          string            `json:"module"`
	Exports         interface{}       `json:"exports"`
	Dependencies    map[string]string `json:"dependencies"`
	DevDependencies map[string]string `json:"devDependencies"`
	Workspaces      interface{}       `json:"workspaces"` // []string or { packages: []string }
}

func ReadPackageManifest(path string) (*PackageManifest, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var manifest PackageManifest
	if err := json.Unmarshal(jsonc.ToJSON(content), &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// ManifestLooksCommonJS decides whether an installed package is served
// to bundlers as CommonJS. A package opts out of CJS by declaring
// `"type": "module"`, an ESM `module` entry point, or an `import`
// condition anywhere in its `exports` map.
func ManifestLooksCommonJS(manifest *PackageManifest) bool {
	if manifest.Type == "module" {
		return false
	}
	if manifest.Module != "" {
		return false
	}
	if hasImportCondition(manifest.Exports) {
		return false
	}
	return true
}

func hasImportCondition(exports interface{}) bool {
	exportsMap, ok := exports.(map[string]interface{})
	if !ok {
		return false
	}
	for key, value := range exportsMap {
		if key == "import" {
			return true
		}
		if hasImportCondition(value) {
			return true
		}
	}
	return false
}

// FindInstalledManifest locates the manifest of an installed package by
// checking every node_modules directory from startDir up to the FS root.
// The directory closest to startDir wins, matching Node resolution.
func FindInstalledManifest(packageName string, startDir string) *PackageManifest {
	current := filepath.Clean(startDir)
	for {
		manifestPath := filepath.Join(current, "node_modules", packageName, "package.json")
		if info, err := os.Stat(manifestPath); err == nil && !info.IsDir() {
			if manifest, err := ReadPackageManifest(manifestPath); err == nil {
				return manifest
			}
		}
		parent := filepath.Dir(current)
		if parent == current {
			return nil
		}
		current = parent
	}
}

// FindWorkspaceRoot walks upward from cwd looking for a workspace root:
// a package.json with a non-empty workspaces declaration, or a
// pnpm-workspace.yaml next to a package.json. Returns "" when cwd is
// not inside a workspace.
func FindWorkspaceRoot(cwd string) string {
	current := filepath.Clean(cwd)
	for {
		if manifest, err := ReadPackageManifest(filepath.Join(current, "package.json")); err == nil {
			if len(workspacePatterns(manifest, current)) > 0 {
				return current
			}
		}
		if _, err := os.Stat(filepath.Join(current, "pnpm-workspace.yaml")); err == nil {
			return current
		}
		parent := filepath.Dir(current)
		if parent == current {
			return ""
		}
		current = parent
	}
}

// workspacePatterns extracts workspace glob patterns from a manifest,
// falling back to pnpm-workspace.yaml when package.json declares none.
func workspacePatterns(manifest *PackageManifest, root string) []string {
	var patterns []string

	if list, ok := manifest.Workspaces.([]interface{}); ok {
		for _, v := range list {
			if s, ok := v.(string); ok {
				patterns = append(patterns, s)
			}
		}
	} else if obj, ok := manifest.Workspaces.(map[string]interface{}); ok {
		if packages, ok := obj["packages"].([]interface{}); ok {
			for _, v := range packages {
				if s, ok := v.(string); ok {
					patterns = append(patterns, s)
				}
			}
		}
	}

	if len(patterns) == 0 {
		if content, err := os.ReadFile(filepath.Join(root, "pnpm-workspace.yaml")); err == nil {
			var pnpmWorkspace struct {
				Packages []string `yaml:"packages"`
			}
			if err := yaml.Unmarshal(content, &pnpmWorkspace); err == nil {
				patterns = append(patterns, pnpmWorkspace.Packages...)
			}
		}
	}

	return patterns
}

// FindWorkspaceManifests resolves workspace patterns into the member
// package manifests. Supports direct paths, `dir/*`, `dir/**` and `*`
// forms plus `!`-negated glob patterns.
func FindWorkspaceManifests(root string) []*PackageManifest {
	rootManifest, err := ReadPackageManifest(filepath.Join(root, "package.json"))
	if err != nil {
		rootManifest = &PackageManifest{}
	}
	patterns := workspacePatterns(rootManifest, root)

	var negative []glob.Glob
	candidateDirs := map[string]bool{}

	for _, pattern := range patterns {
		if strings.HasPrefix(pattern, "!") {
			if g, err := glob.Compile(strings.TrimPrefix(pattern, "!"), '/'); err == nil {
				negative = append(negative, g)
			}
			continue
		}

		switch {
		case pattern == "*":
			collectPackageDirs(root, false, candidateDirs)
		case strings.HasSuffix(pattern, "/**"):
			base := filepath.Join(root, strings.TrimSuffix(pattern, "/**"))
			collectPackageDirs(base, true, candidateDirs)
		case strings.HasSuffix(pattern, "/*"):
			base := filepath.Join(root, strings.TrimSuffix(pattern, "/*"))
			collectPackageDirs(base, false, candidateDirs)
		default:
			dir := filepath.Join(root, pattern)
			if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
				candidateDirs[dir] = true
			}
		}
	}

	manifests := make([]*PackageManifest, 0, len(candidateDirs)+1)
	if rootManifest.Name != "" || len(rootManifest.Dependencies) > 0 || len(rootManifest.DevDependencies) > 0 {
		manifests = append(manifests, rootManifest)
	}

	dirs := make([]string, 0, len(candidateDirs))
	for dir := range candidateDirs {
		dirs = append(dirs, dir)
	}
	slices.Sort(dirs)

	for _, dir := range dirs {
		rel, err := filepath.Rel(root, dir)
		if err != nil {
			continue
		}
		rel = filepath.ToSlash(rel)

		excluded := false
		for _, g := range negative {
			if g.Match(rel) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}

		if manifest, err := ReadPackageManifest(filepath.Join(dir, "package.json")); err == nil {
			manifests = append(manifests, manifest)
		}
	}

	return manifests
}

// collectPackageDirs gathers directories containing a package.json. With
// deep=false only immediate subdirectories are checked; with deep=true
// the walk recurses but stops descending once a package.json is found.
func collectPackageDirs(base string, deep bool, candidateDirs map[string]bool) {
	entries, err := os.ReadDir(base)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		name := entry.Name()
		if name == "node_modules" || name == ".git" {
			continue
		}

		dir := filepath.Join(base, name)
		if _, err := os.Stat(filepath.Join(dir, "package.json")); err == nil {
			candidateDirs[dir] = true
			continue
		}
		if deep {
			collectPackageDirs(dir, true, candidateDirs)
		}
	}
}

// declaredDependencies merges dependencies and devDependencies names.
func declaredDependencies(manifest *PackageManifest) map[string]bool {
	names := make(map[string]bool, len(manifest.Dependencies)+len(manifest.DevDependencies))
	for name := range manifest.Dependencies {
		names[name] = true
	}
	for name := range manifest.DevDependencies {
		names[name] = true
	}
	return names
}

// installedVersionAllowsCJS applies an optional semver gate: when a
// range is configured for the package, it is treated as CommonJS only
// while the installed version satisfies the range (e.g. "chalk": "<5").
func installedVersionAllowsCJS(manifest *PackageManifest, rangeStr string) bool {
	if rangeStr == "" || rangeStr == "*" {
		return true
	}
	constraint, err := semver.NewConstraint(rangeStr)
	if err != nil {
		return false
	}
	version, err := semver.NewVersion(manifest.Version)
	if err != nil {
		return false
	}
	return constraint.Check(version)
}

type cjsDiscoveryResult struct {
	packages []string
	matchers []TestMatcher
}

var (
	cjsDiscoveryMu    sync.Mutex
	cjsDiscoveryCache = map[string]*cjsDiscoveryResult{}
)

// DiscoverCommonJSPackages inspects the project's declared dependencies
// and returns the names classified as CommonJS, sorted. With
// monorepo=false only the package.json in cwd is read; otherwise the
// workspace root is located upward and every member package's
// dependency set is unioned. The result is memoized process-wide, the
// inspection runs at most once per cwd+mode.
func DiscoverCommonJSPackages(cwd string, monorepo bool, cjsVersions map[string]string) []string {
	return discoverCJS(cwd, monorepo, cjsVersions).packages
}

// GetDiscoveredCJSMatchers returns open-ended matchers for the
// discovered CommonJS package names, compiled once per cwd+mode.
func GetDiscoveredCJSMatchers(cwd string, monorepo bool, cjsVersions map[string]string) []TestMatcher {
	return discoverCJS(cwd, monorepo, cjsVersions).matchers
}

func discoverCJS(cwd string, monorepo bool, cjsVersions map[string]string) *cjsDiscoveryResult {
	cacheKey := cwd
	if monorepo {
		cacheKey += "|workspace"
	}

	cjsDiscoveryMu.Lock()
	defer cjsDiscoveryMu.Unlock()

	if cached, ok := cjsDiscoveryCache[cacheKey]; ok {
		return cached
	}

	var manifests []*PackageManifest
	if monorepo {
		if root := FindWorkspaceRoot(cwd); root != "" {
			manifests = FindWorkspaceManifests(root)
		}
	}
	if len(manifests) == 0 {
		if manifest, err := ReadPackageManifest(filepath.Join(cwd, "package.json")); err == nil {
			manifests = append(manifests, manifest)
		}
	}

	declared := map[string]bool{}
	for _, manifest := range manifests {
		for name := range declaredDependencies(manifest) {
			declared[name] = true
		}
	}

	packages := make([]string, 0, len(declared))
	for name := range declared {
		installed := FindInstalledManifest(name, cwd)
		if installed == nil {
			continue
		}
		if !ManifestLooksCommonJS(installed) {
			continue
		}
		if !installedVersionAllowsCJS(installed, cjsVersions[name]) {
			continue
		}
		packages = append(packages, name)
	}
	slices.Sort(packages)

	matchers := make([]TestMatcher, 0, len(packages))
	for _, name := range packages {
		matcher, err := CompileTestMatcher(name, true)
		if err != nil {
			continue
		}
		matchers = append(matchers, matcher)
	}

	result := &cjsDiscoveryResult{packages: packages, matchers: matchers}
	cjsDiscoveryCache[cacheKey] = result
	return result
}
