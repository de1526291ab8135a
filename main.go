package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var (
	currentDir, _ = os.Getwd()
	rootCmd       = &cobra.Command{
		Use:   "cjs-interop",
		Short: "Rewrite ES imports of CommonJS modules into default-import-plus-destructure form",
		Long: `Rewrites ECMAScript import declarations that target CommonJS modules into a
single default import followed by an explicit destructuring assignment, so
bundlers that model CommonJS modules as an opaque default export still
resolve named bindings correctly.`,
		Version: Version,
	}
)

var docsCmd = &cobra.Command{
	Use:   "doc-gen",
	Short: "Generate CLI documentation",
	RunE: func(cmd *cobra.Command, args []string) error {
		err := doc.GenMarkdownTree(rootCmd, "./docs")
		if err != nil {
			log.Fatal(err)
		}
		return nil
	},
}

// ---------------- transform ----------------
var (
	transformCwd              string
	transformTest             []string
	transformInclude          []string
	transformExclude          []string
	transformRemapDefault     []string
	transformBuiltins         bool
	transformMonorepo         bool
	transformSilent           bool
	transformVerbose          bool
	transformWrite            bool
	transformStdout           bool
	transformConfigPath       string
	transformWalkExclude      []string
)

var transformCmd = &cobra.Command{
	Use:   "transform [files...]",
	Short: "Rewrite CommonJS-targeting imports in the given files",
	Long: `Rewrites import declarations whose source is classified as CommonJS.
With explicit file arguments only those files are processed; otherwise every
JS/TS source file under --cwd is collected (honoring .gitignore and
--walk-exclude globs). Without --write the run is a dry run.`,
	Example: `  cjs-interop transform --write src/index.js
  cjs-interop transform --test lodash --test /^@legacy\// --verbose
  cjs-interop transform --monorepo --exclude react --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := resolveAbsoluteDir(transformCwd)

		options := DefaultTransformOptions(cwd)
		options.Test = transformTest
		options.Include = transformInclude
		options.Exclude = transformExclude
		options.RemapDefaultTest = transformRemapDefault
		options.TransformBuiltins = transformBuiltins
		options.Monorepo = transformMonorepo
		options.Silent = transformSilent
		options.Verbose = transformVerbose

		configPath := transformConfigPath
		if configPath == "" {
			configPath = cwd
		}
		config, err := LoadConfigFile(configPath)
		if err != nil {
			return fmt.Errorf("could not load configuration: %w", err)
		}
		if config != nil {
			config.ApplyTo(&options)
			// Explicitly given flags win over config file booleans.
			flags := cmd.Flags()
			if flags.Changed("transform-builtins") {
				options.TransformBuiltins = transformBuiltins
			}
			if flags.Changed("monorepo") {
				options.Monorepo = transformMonorepo
			}
			if flags.Changed("silent") {
				options.Silent = transformSilent
			}
			if flags.Changed("verbose") {
				options.Verbose = transformVerbose
			}
		}

		var files []string
		if len(args) > 0 {
			for _, arg := range args {
				if filepath.IsAbs(arg) {
					files = append(files, arg)
				} else {
					files = append(files, filepath.Join(cwd, arg))
				}
			}
		} else {
			excludes := CollectGitIgnoreMatchers(cwd)
			excludes = append(excludes, CompilePathMatchers(transformWalkExclude, cwd)...)
			files = CollectSourceFiles(cwd, excludes)
		}

		if transformStdout && len(files) != 1 {
			return fmt.Errorf("--stdout requires exactly one input file, got %d", len(files))
		}

		results := TransformFiles(files, options, transformWrite)

		changedCount := 0
		for _, result := range results {
			if result.Err != nil {
				return fmt.Errorf("failed to transform %s: %w", result.FilePath, result.Err)
			}
			if result.Changed {
				changedCount++
			}
			if transformStdout {
				fmt.Print(result.Output)
				continue
			}
			EmitFileReport(reportSink, result.Metadata, options)
		}

		if !transformStdout && !options.Silent {
			if transformWrite {
				fmt.Printf("%d of %d files changed\n", changedCount, len(results))
			} else {
				fmt.Printf("%d of %d files would change (dry run, use --write)\n", changedCount, len(results))
			}
		}

		return nil
	},
}

// ---------------- list-cjs ----------------
var (
	listCJSCwd      string
	listCJSMonorepo bool
)

var listCJSCmd = &cobra.Command{
	Use:   "list-cjs",
	Short: "Print the auto-discovered CommonJS package names",
	Long: `Inspects the project's declared dependencies, locates each installed
package manifest and prints the names classified as CommonJS. Useful for
checking what the transform would match before running it.`,
	Example: "cjs-interop list-cjs --monorepo",
	RunE: func(cmd *cobra.Command, args []string) error {
		cwd := resolveAbsoluteDir(listCJSCwd)

		options := DefaultTransformOptions(cwd)
		config, err := LoadConfigFile(cwd)
		if err != nil {
			return fmt.Errorf("could not load configuration: %w", err)
		}
		if config != nil {
			config.ApplyTo(&options)
		}

		monorepo := options.Monorepo
		if cmd.Flags().Changed("monorepo") {
			monorepo = listCJSMonorepo
		}

		packages := DiscoverCommonJSPackages(cwd, monorepo, options.CJSVersions)
		for _, name := range packages {
			fmt.Println(name)
		}
		return nil
	},
}

func resolveAbsoluteDir(dir string) string {
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir)
	}
	return filepath.Join(currentDir, dir)
}

func init() {
	transformCmd.Flags().StringVarP(&transformCwd, "cwd", "c", currentDir,
		"Working directory for the command")
	transformCmd.Flags().StringSliceVar(&transformTest, "test", []string{},
		"Inclusion patterns replacing auto-discovery (string or /regex/)")
	transformCmd.Flags().StringSliceVar(&transformInclude, "include", []string{},
		"Additional inclusion patterns, always appended")
	transformCmd.Flags().StringSliceVar(&transformExclude, "exclude", []string{},
		"Exclusion patterns; any match suppresses the rewrite")
	transformCmd.Flags().StringSliceVar(&transformRemapDefault, "remap-default-test", []string{},
		"Patterns for sources whose default export is pulled into the named set under the key \"default\"")
	transformCmd.Flags().BoolVar(&transformBuiltins, "transform-builtins", true,
		"Treat Node built-in modules as CommonJS")
	transformCmd.Flags().BoolVar(&transformMonorepo, "monorepo", false,
		"Search upward for a workspace root when auto-discovering CommonJS packages")
	transformCmd.Flags().BoolVarP(&transformSilent, "silent", "s", false,
		"Suppress per-file reports")
	transformCmd.Flags().BoolVarP(&transformVerbose, "verbose", "v", false,
		"Report every file and list the rewritten import sources")
	transformCmd.Flags().BoolVarP(&transformWrite, "write", "w", false,
		"Save rewritten files in place (default: dry run)")
	transformCmd.Flags().BoolVar(&transformStdout, "stdout", false,
		"Print the rewritten content of a single file to stdout")
	transformCmd.Flags().StringVar(&transformConfigPath, "config", "",
		"Path to cjs-interop.config.json(c) (default: auto-discovered in cwd)")
	transformCmd.Flags().StringSliceVar(&transformWalkExclude, "walk-exclude", []string{},
		"Glob patterns excluding files from the directory walk")

	listCJSCmd.Flags().StringVarP(&listCJSCwd, "cwd", "c", currentDir,
		"Working directory for the command")
	listCJSCmd.Flags().BoolVar(&listCJSMonorepo, "monorepo", false,
		"Search upward for a workspace root")

	rootCmd.AddCommand(transformCmd, listCJSCmd, docsCmd)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}
