package main

import (
	"strings"
	"testing"
)

// virtualPath builds a unique metadata key per test, since the metadata
// store caches records per file path for the whole process.
func virtualPath(t *testing.T) string {
	t.Helper()
	return "/virtual/" + strings.ReplaceAll(t.Name(), "/", "_") + ".js"
}

func testOptions(t *testing.T) TransformOptions {
	t.Helper()
	return DefaultTransformOptions(t.TempDir())
}

func TestTransformSourceBuiltinNamedImport(t *testing.T) {
	options := testOptions(t)
	input := `import { readFile } from "fs";`
	expected := `import _fs from "fs";` + "\n" + `const { readFile } = _fs;`

	output, metadata, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
	}
	if metadata.Total != 1 || len(metadata.Transformed) != 1 || metadata.Transformed[0] != "fs" {
		t.Errorf("unexpected metadata counters: %+v", metadata)
	}
}

func TestTransformSourceKeepsExplicitDefaultName(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"cjs-pkg"}
	input := `import Default, { a } from "cjs-pkg";`
	expected := `import Default from "cjs-pkg";` + "\n" + `const { a } = Default;`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
	}
}

func TestTransformSourceRemapDefault(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"cjs-pkg"}
	options.RemapDefaultTest = []string{"cjs-pkg"}
	input := `import Default, { a } from "cjs-pkg";`
	expected := `import _cjsPkg from "cjs-pkg";` + "\n" + `const { default: Default, a } = _cjsPkg;`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
	}
}

func TestTransformSourceImplicitDefaultKeepsActing(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"cjs-pkg"}
	input := `import { default as D, a } from "cjs-pkg";`
	expected := `import D from "cjs-pkg";` + "\n" + `const { a } = D;`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
	}
}

func TestTransformSourceAliasedNamedImports(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"m"}
	input := `import { a, b as bb } from "m";`
	expected := `import _m from "m";` + "\n" + `const { a, b: bb } = _m;`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != expected {
		t.Errorf("expected:\n%s\ngot:\n%s", expected, output)
	}
}

func TestTransformSourceLeavesNonCJSUntouched(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"cjs-pkg"}
	input := `import * as ns from "esm-pkg";` + "\n" + `import { a } from "esm-pkg";`

	output, metadata, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != input {
		t.Errorf("non-CJS imports must be untouched:\n%s", output)
	}
	if metadata.Total != 2 || len(metadata.Transformed) != 0 {
		t.Errorf("unexpected metadata counters: %+v", metadata)
	}
}

func TestTransformSourceSideEffectImportUntouched(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"side-effect-cjs"}
	input := `import "side-effect-cjs";`

	output, metadata, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != input {
		t.Errorf("side-effect import must be untouched:\n%s", output)
	}
	if metadata.Total != 1 || len(metadata.Transformed) != 0 {
		t.Errorf("classified but empty named set must not count as transformed: %+v", metadata)
	}
}

func TestTransformSourcePureNamespaceUntouched(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"cjs-pkg"}
	input := `import * as ns from "cjs-pkg";`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != input {
		t.Errorf("pure namespace import must be untouched:\n%s", output)
	}
}

func TestTransformSourceIsIdempotent(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"m"}
	input := `import { a } from "m";`

	once, _, err := TransformSource([]byte(input), virtualPath(t)+".first", options)
	if err != nil {
		t.Fatal(err)
	}
	twice, _, err := TransformSource([]byte(once), virtualPath(t)+".second", options)
	if err != nil {
		t.Fatal(err)
	}
	if twice != once {
		t.Errorf("second pass must be a no-op:\nfirst:\n%s\nsecond:\n%s", once, twice)
	}
}

func TestTransformSourceExcludeWins(t *testing.T) {
	options := testOptions(t)
	options.Exclude = []string{"fs"}
	input := `import { readFile } from "fs";`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != input {
		t.Errorf("excluded source must never be rewritten:\n%s", output)
	}
}

func TestTransformSourceBuiltinsDisabled(t *testing.T) {
	options := testOptions(t)
	options.TransformBuiltins = false
	input := `import { readFile } from "fs";`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if output != input {
		t.Errorf("builtins must be untouched when disabled:\n%s", output)
	}
}

func TestTransformSourceNodePrefixAndSubpath(t *testing.T) {
	options := testOptions(t)
	input := `import { join } from "node:path";` + "\n" + `import { readFile } from "fs/promises";`

	output, metadata, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if len(metadata.Transformed) != 2 {
		t.Fatalf("expected both builtin spellings to be rewritten, got %+v", metadata.Transformed)
	}
	if !strings.Contains(output, `import _nodePath from "node:path";`) {
		t.Errorf("node: prefixed builtin not rewritten:\n%s", output)
	}
	if !strings.Contains(output, `import _fsPromises from "fs/promises";`) {
		t.Errorf("builtin subpath not rewritten:\n%s", output)
	}
}

func TestTransformSourceRelativeJSONImport(t *testing.T) {
	options := testOptions(t)
	input := `import { version } from "./package.json";`

	output, _, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(output, "const { version } = _packageJson;") {
		t.Errorf("relative .json import should be rewritten:\n%s", output)
	}
}

func TestTransformSourceMalformedPatternFails(t *testing.T) {
	options := testOptions(t)
	options.Include = []string{"/(/"}

	_, _, err := TransformSource([]byte(`import { a } from "m";`), virtualPath(t), options)
	if err == nil {
		t.Fatal("expected a pattern compilation error to propagate")
	}
}

func TestTransformSourceMultipleDeclarations(t *testing.T) {
	options := testOptions(t)
	options.Test = []string{"one", "two"}
	input := `import { a } from "one";
import { b } from "two";
import { c } from "three";`

	output, metadata, err := TransformSource([]byte(input), virtualPath(t), options)
	if err != nil {
		t.Fatal(err)
	}
	if metadata.Total != 3 {
		t.Errorf("expected 3 declarations counted, got %d", metadata.Total)
	}
	if len(metadata.Transformed) != 2 {
		t.Errorf("expected 2 rewrites, got %v", metadata.Transformed)
	}
	if !strings.Contains(output, "const { a } = _one;") || !strings.Contains(output, "const { b } = _two;") {
		t.Errorf("unexpected output:\n%s", output)
	}
	if !strings.Contains(output, `import { c } from "three";`) {
		t.Errorf("unmatched import must stay untouched:\n%s", output)
	}
}

func TestTransformSourceInclusionIsMonotonic(t *testing.T) {
	input := `import { a } from "one";`

	base := testOptions(t)
	base.Test = []string{"one"}
	baseOut, _, err := TransformSource([]byte(input), virtualPath(t)+".base", base)
	if err != nil {
		t.Fatal(err)
	}

	widened := testOptions(t)
	widened.Test = []string{"one"}
	widened.Include = []string{"extra"}
	widenedOut, _, err := TransformSource([]byte(input), virtualPath(t)+".widened", widened)
	if err != nil {
		t.Fatal(err)
	}

	if baseOut == input {
		t.Fatal("expected the base options to rewrite the import")
	}
	if widenedOut != baseOut {
		t.Errorf("adding include patterns must not drop prior matches:\n%s", widenedOut)
	}
}
