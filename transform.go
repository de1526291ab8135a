package main

import (
	"os"
	"runtime"
	"sync"
)

// TransformSource rewrites every CommonJS-targeting import declaration
// in one file's content. Declarations are visited strictly in source
// order; a declaration whose named set comes out empty is left
// byte-for-byte unmodified and not counted as transformed.
func TransformSource(content []byte, filePath string, options TransformOptions) (string, *FileMetadata, error) {
	metadata, err := GetOrCreateFileMetadata(filePath, options)
	if err != nil {
		return "", nil, err
	}

	declarations := ParseImportDeclarations(content)
	names := NewUniqueNameGenerator(content)

	var edits []SourceEdit
	for _, decl := range declarations {
		metadata.Total++

		if !IsCommonJSModule(decl.Source, metadata) {
			continue
		}

		set := AnalyzeSpecifiers(decl.Specifiers, decl.Source, metadata)
		declEdits := RewriteImportDeclaration(decl, set, names)
		if len(declEdits) == 0 {
			continue
		}

		edits = append(edits, declEdits...)
		metadata.Transformed = append(metadata.Transformed, decl.Source)
	}

	return ApplyEditsToContent(string(content), edits), metadata, nil
}

type FileTransformResult struct {
	FilePath string
	Output   string
	Changed  bool
	Metadata *FileMetadata
	Err      error
}

// TransformFile runs the transform over one file, optionally saving the
// result in place. A read, classification or write failure aborts that
// file and is surfaced on the result.
func TransformFile(filePath string, options TransformOptions, write bool) FileTransformResult {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return FileTransformResult{FilePath: filePath, Err: err}
	}

	output, metadata, err := TransformSource(content, filePath, options)
	if err != nil {
		return FileTransformResult{FilePath: filePath, Err: err}
	}

	changed := output != string(content)
	if write && changed {
		if err := os.WriteFile(filePath, []byte(output), 0644); err != nil {
			return FileTransformResult{FilePath: filePath, Metadata: metadata, Err: err}
		}
	}

	return FileTransformResult{
		FilePath: filePath,
		Output:   output,
		Changed:  changed,
		Metadata: metadata,
	}
}

// TransformFiles processes files concurrently with a bounded worker
// count. Results keep the input order so reports stay deterministic.
func TransformFiles(filePaths []string, options TransformOptions, write bool) []FileTransformResult {
	results := make([]FileTransformResult, len(filePaths))

	maxConcurrency := runtime.GOMAXPROCS(0) * 2
	sem := make(chan struct{}, maxConcurrency)
	var wg sync.WaitGroup

	for idx, filePath := range filePaths {
		wg.Add(1)
		sem <- struct{}{}

		go func(idx int, path string) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = TransformFile(path, options, write)
		}(idx, filePath)
	}

	wg.Wait()
	return results
}
