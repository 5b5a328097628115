package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/flexigen/flexigen/internal/cli"
	"github.com/flexigen/flexigen/internal/utils"
)

func main() {
	var (
		moduleFlag  = flag.String("module", "", "Custom module name (defaults to the go.mod module)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output and detailed error reporting")
		quietFlag   = flag.Bool("quiet", false, "Only show errors and final results")
		cleanFlag   = flag.Bool("clean", false, "Delete all autogen_variants.go files from the specified directories")
		helpFlag    = flag.Bool("help", false, "Show help information")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <directory-paths...>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "flexigen function variant generator\n")
		fmt.Fprintf(os.Stderr, "Scans directories for Go functions with flexi:: annotations and generates\n")
		fmt.Fprintf(os.Stderr, "asynchronous and checked variants alongside the originals.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nArguments:\n")
		fmt.Fprintf(os.Stderr, "  directory-paths    One or more directories to scan for annotated Go files\n")
		fmt.Fprintf(os.Stderr, "                     Supports Go-style patterns like './...' for recursive scanning\n")
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s ./...                                  # Scan everything recursively\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s ./internal/services                    # Scan one directory\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --module github.com/org/app ./...      # Specify the module name\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --verbose ./internal/...               # Enable detailed output\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --clean ./...                          # Delete all generated files\n", os.Args[0])
	}

	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		fmt.Fprintf(os.Stderr, "Error: At least one directory path is required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	var diagnostics *utils.DiagnosticSystem
	switch {
	case *quietFlag:
		diagnostics = utils.NewQuietDiagnostics()
	case *verboseFlag:
		diagnostics = utils.NewVerboseDiagnostics()
	default:
		diagnostics = utils.NewDiagnosticSystem(utils.DiagnosticInfo)
	}

	if *cleanFlag {
		diagnostics.ToolHeader("Cleaning generated files")

		removed, err := cli.NewCleaner().CleanGeneratedFiles(args)
		if err != nil {
			diagnostics.Error("Clean operation failed: %v", err)
			os.Exit(1)
		}
		for _, file := range removed {
			diagnostics.PhaseProgress("Removed %s", file)
		}
		diagnostics.Success("Removed %d generated files", len(removed))
		return
	}

	diagnostics.ToolHeader("Generating function variants")

	runner := cli.NewRunner(*verboseFlag)
	err := runner.Run(cli.Config{
		Directories: args,
		ModuleName:  *moduleFlag,
		Verbose:     *verboseFlag,
	})
	if err != nil {
		runner.ReportError(err)
		os.Exit(1)
	}

	if *quietFlag {
		return
	}
	runner.ReportSuccess()
}
