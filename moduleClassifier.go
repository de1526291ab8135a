package main

// relativeJSONPattern matches relative imports of .json files, which
// bundlers expose the same way as CommonJS modules (a single object).
const relativeJSONPattern = `/^\..*\.json$/`

// BuildInclusionTests assembles the inclusion matcher list in a fixed
// order:
//  1. Node built-in module names (open-ended), unless builtin
//     transformation is disabled.
//  2. The explicit `test` patterns (exact) when provided; otherwise the
//     auto-discovered CommonJS package names (open-ended) plus relative
//     `.json` imports.
//  3. The `include` patterns (exact), always appended.
func BuildInclusionTests(options TransformOptions) ([]TestMatcher, error) {
	var tests []TestMatcher

	if options.TransformBuiltins {
		tests = append(tests, GetBuiltinModuleMatchers()...)
	}

	if len(options.Test) > 0 {
		compiled, err := CompileTestMatchers(options.Test, false)
		if err != nil {
			return nil, err
		}
		tests = append(tests, compiled...)
	} else {
		tests = append(tests, GetDiscoveredCJSMatchers(options.Cwd, options.Monorepo, options.CJSVersions)...)

		jsonMatcher, err := CompileTestMatcher(relativeJSONPattern, false)
		if err != nil {
			return nil, err
		}
		tests = append(tests, jsonMatcher)
	}

	if len(options.Include) > 0 {
		compiled, err := CompileTestMatchers(options.Include, false)
		if err != nil {
			return nil, err
		}
		tests = append(tests, compiled...)
	}

	return tests, nil
}

// IsCommonJSModule decides whether an import source refers to a
// CommonJS module: some inclusion test must match and no exclusion test
// may match.
func IsCommonJSModule(source string, metadata *FileMetadata) bool {
	if !MatchesAnyTest(source, metadata.InclusionTests) {
		return false
	}
	if MatchesAnyTest(source, metadata.ExclusionTests) {
		return false
	}
	return true
}
