package main

// NamedBinding is one property pulled out of the module's default
// export. Alias is empty when the local name equals the exported name,
// which lets the rewriter emit the shorthand destructuring form.
type NamedBinding struct {
	Actual string
	Alias  string
}

// ImportSpecifierSet is the per-declaration classification consumed by
// the rewriter. ImplicitDefault is a `{ default as X }` binding that
// keeps acting as the module's default; ExplicitDefault comes from the
// bare `import X` form.
type ImportSpecifierSet struct {
	ExplicitDefault string
	ImplicitDefault string
	Namespace       string
	Named           []NamedBinding
}

// AnalyzeSpecifiers buckets a declaration's specifiers in written
// order. When the source matches a remap-default test, default-like
// bindings are pushed into the named set under the key "default"
// instead of being kept as the module default. The remap check runs per
// declaration because it depends only on the source string.
func AnalyzeSpecifiers(specifiers []ImportSpecifier, source string, metadata *FileMetadata) ImportSpecifierSet {
	remapped := MatchesAnyTest(source, metadata.RemapDefaultTests)

	var set ImportSpecifierSet
	for _, spec := range specifiers {
		switch spec.Kind {
		case NamedSpecifier:
			if spec.Imported == "default" && !remapped && set.ExplicitDefault == "" {
				set.ImplicitDefault = spec.Local
				continue
			}
			alias := ""
			if spec.Local != spec.Imported {
				alias = spec.Local
			}
			set.Named = append(set.Named, NamedBinding{Actual: spec.Imported, Alias: alias})

		case DefaultSpecifier:
			if remapped {
				set.Named = append(set.Named, NamedBinding{Actual: "default", Alias: spec.Local})
				continue
			}
			set.ExplicitDefault = spec.Local

		case NamespaceSpecifier:
			// Namespace bindings already behave like a whole-module
			// reference; they are never destructured.
			set.Namespace = spec.Local
		}
	}
	return set
}
