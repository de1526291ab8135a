package main

import "sync"

// TransformOptions is the resolved configuration for one transform run.
// Flag and config-file values are merged into this before any file is
// processed, so every compiled matcher list is stable for the run.
type TransformOptions struct {
	Cwd               string
	Test              []string
	Include           []string
	Exclude           []string
	RemapDefaultTest  []string
	TransformBuiltins bool
	Monorepo          bool
	CJSVersions       map[string]string
	Silent            bool
	Verbose           bool
}

func DefaultTransformOptions(cwd string) TransformOptions {
	return TransformOptions{
		Cwd:               cwd,
		TransformBuiltins: true,
	}
}

// FileMetadata carries the compiled classification tests and the import
// counters for one processed file.
type FileMetadata struct {
	FilePath          string
	Total             int
	Transformed       []string
	InclusionTests    []TestMatcher
	ExclusionTests    []TestMatcher
	RemapDefaultTests []TestMatcher
}

var (
	fileMetadataMu    sync.Mutex
	fileMetadataCache = map[string]*FileMetadata{}
)

// GetOrCreateFileMetadata returns the metadata record for a file path,
// compiling all test lists on first access. Subsequent calls for the
// same path return the same record; options are assumed stable while a
// file is being processed, so the first writer wins for a given key.
func GetOrCreateFileMetadata(filePath string, options TransformOptions) (*FileMetadata, error) {
	fileMetadataMu.Lock()
	defer fileMetadataMu.Unlock()

	if metadata, ok := fileMetadataCache[filePath]; ok {
		return metadata, nil
	}

	inclusionTests, err := BuildInclusionTests(options)
	if err != nil {
		return nil, err
	}
	exclusionTests, err := CompileTestMatchers(options.Exclude, false)
	if err != nil {
		return nil, err
	}
	remapDefaultTests, err := CompileTestMatchers(options.RemapDefaultTest, false)
	if err != nil {
		return nil, err
	}

	metadata := &FileMetadata{
		FilePath:          filePath,
		InclusionTests:    inclusionTests,
		ExclusionTests:    exclusionTests,
		RemapDefaultTests: remapDefaultTests,
	}
	fileMetadataCache[filePath] = metadata
	return metadata, nil
}
