package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// EmitFileReport prints the end-of-file summary: the file identifier,
// the transformed/total ratio, and in verbose mode the ordered list of
// rewritten sources. Silent mode prints nothing; without verbose mode,
// untouched files stay quiet.
func EmitFileReport(out io.Writer, metadata *FileMetadata, options TransformOptions) {
	if options.Silent {
		return
	}
	if !options.Verbose && len(metadata.Transformed) == 0 {
		return
	}

	pathColor := color.New(color.FgCyan)
	countColor := color.New(color.FgGreen)
	if len(metadata.Transformed) == 0 {
		countColor = color.New(color.FgYellow)
	}

	pathColor.Fprintf(out, "%s\n", metadata.FilePath)
	countColor.Fprintf(out, "  %d/%d imports rewritten\n", len(metadata.Transformed), metadata.Total)
	if options.Verbose {
		for _, source := range metadata.Transformed {
			fmt.Fprintf(out, "    - %s\n", source)
		}
	}
}

var reportSink io.Writer = os.Stdout
