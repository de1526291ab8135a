package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/tidwall/jsonc"
)

// ConfigFile mirrors cjs-interop.config.json(c). Pointer fields
// distinguish "not set" from an explicit false, so flags and config can
// be merged without clobbering defaults.
type ConfigFile struct {
	Test              []string          `json:"test"`
	Include           []string          `json:"include"`
	Exclude           []string          `json:"exclude"`
	RemapDefaultTest  []string          `json:"remapDefaultTest"`
	TransformBuiltins *bool             `json:"transformBuiltins"`
	Monorepo          *bool             `json:"monorepo"`
	CJSVersions       map[string]string `json:"cjsVersions"`
	Silent            *bool             `json:"silent"`
	Verbose           *bool             `json:"verbose"`
}

var configFileNames = []string{"cjs-interop.config.json", "cjs-interop.config.jsonc"}

// LoadConfigFile reads a config file. configPath may be a file or a
// directory containing one of the recognized config names. A missing
// config in a directory is not an error; a malformed one is.
func LoadConfigFile(configPath string) (*ConfigFile, error) {
	info, err := os.Stat(configPath)
	if err != nil {
		return nil, err
	}

	actualPath := configPath
	if info.IsDir() {
		actualPath = ""
		for _, name := range configFileNames {
			candidate := filepath.Join(configPath, name)
			if _, err := os.Stat(candidate); err == nil {
				actualPath = candidate
				break
			}
		}
		if actualPath == "" {
			return nil, nil
		}
	}

	content, err := os.ReadFile(actualPath)
	if err != nil {
		return nil, err
	}

	var config ConfigFile
	if err := json.Unmarshal(jsonc.ToJSON(content), &config); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", actualPath, err)
	}
	return &config, nil
}

// ApplyTo overlays config file values onto options. Slice and map
// values from the config are used only when the corresponding option is
// still empty, so CLI flags take precedence.
func (c *ConfigFile) ApplyTo(options *TransformOptions) {
	if len(options.Test) == 0 {
		options.Test = c.Test
	}
	if len(options.Include) == 0 {
		options.Include = c.Include
	}
	if len(options.Exclude) == 0 {
		options.Exclude = c.Exclude
	}
	if len(options.RemapDefaultTest) == 0 {
		options.RemapDefaultTest = c.RemapDefaultTest
	}
	if len(options.CJSVersions) == 0 {
		options.CJSVersions = c.CJSVersions
	}
	if c.TransformBuiltins != nil {
		options.TransformBuiltins = *c.TransformBuiltins
	}
	if c.Monorepo != nil {
		options.Monorepo = *c.Monorepo
	}
	if c.Silent != nil {
		options.Silent = *c.Silent
	}
	if c.Verbose != nil {
		options.Verbose = *c.Verbose
	}
}
