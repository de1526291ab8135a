package main

import (
	"fmt"
	"strings"
)

// UniqueNameGenerator hands out identifiers guaranteed not to collide
// with any identifier-like token in the file, nor with each other.
type UniqueNameGenerator struct {
	used map[string]bool
}

// NewUniqueNameGenerator scans the file content and records every
// identifier-like token as taken. That over-approximates the set of
// names in scope (it includes property names and keywords), which is
// safe: a fresh name only has to avoid everything.
func NewUniqueNameGenerator(code []byte) *UniqueNameGenerator {
	used := map[string]bool{}
	i := 0
	n := len(code)
	for i < n {
		if isIdentByte(code[i]) && (code[i] < '0' || code[i] > '9') {
			start := i
			for i < n && isIdentByte(code[i]) {
				i++
			}
			used[string(code[start:i])] = true
			continue
		}
		i++
	}
	return &UniqueNameGenerator{used: used}
}

// Derive produces a fresh identifier from an import source string:
// "cjs-pkg" becomes "_cjsPkg", "@scope/pkg" becomes "_scopePkg". A
// numeric suffix resolves collisions. Generated names are recorded so
// later declarations in the same file cannot reuse them.
func (g *UniqueNameGenerator) Derive(source string) string {
	var b strings.Builder
	b.WriteByte('_')
	upperNext := false
	for i := 0; i < len(source); i++ {
		c := source[i]
		if isIdentByte(c) {
			if upperNext && c >= 'a' && c <= 'z' {
				c = c - 'a' + 'A'
			}
			b.WriteByte(c)
			upperNext = false
		} else {
			upperNext = b.Len() > 1
		}
	}
	base := b.String()
	if base == "_" {
		base = "_module"
	}

	name := base
	for suffix := 2; g.used[name]; suffix++ {
		name = fmt.Sprintf("%s%d", base, suffix)
	}
	g.used[name] = true
	return name
}

func isValidIdentifierName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		if !isIdentByte(name[i]) {
			return false
		}
	}
	return name[0] < '0' || name[0] > '9'
}

// RewriteImportDeclaration emits the edits turning one declaration into
// a single default import plus a `const` destructuring statement. It
// returns nil when the named set is empty: pure-default, pure-namespace
// and side-effect imports need no destructuring and the declaration is
// left byte-for-byte unmodified. An already rewritten declaration also
// lands here, so running the transform twice is a no-op.
func RewriteImportDeclaration(decl ImportDeclaration, set ImportSpecifierSet, names *UniqueNameGenerator) []SourceEdit {
	if len(set.Named) == 0 {
		return nil
	}

	binding := set.ExplicitDefault
	if binding == "" {
		binding = set.ImplicitDefault
	}
	if binding == "" {
		binding = names.Derive(decl.Source)
	}

	var pattern strings.Builder
	for i, named := range set.Named {
		if i > 0 {
			pattern.WriteString(", ")
		}
		key := named.Actual
		if !isValidIdentifierName(key) {
			key = `"` + key + `"`
		}
		if named.Alias == "" && key == named.Actual {
			pattern.WriteString(named.Actual)
		} else {
			local := named.Alias
			if local == "" {
				local = named.Actual
			}
			pattern.WriteString(key + ": " + local)
		}
	}

	return []SourceEdit{
		{Start: decl.SpecListStart, End: decl.SpecListEnd, Text: binding},
		{Start: decl.StmtEnd, End: decl.StmtEnd, Text: "\nconst { " + pattern.String() + " } = " + binding + ";"},
	}
}
