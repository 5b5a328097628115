package cli

import (
	"os"
	"strings"
	"time"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/generator"
	"github.com/flexigen/flexigen/internal/parser"
	"github.com/flexigen/flexigen/internal/utils"
)

// Runner coordinates one generation run: scan, extract, synthesize, write
type Runner struct {
	scanner        *DirectoryScanner
	moduleResolver *ModuleResolver
	generator      *generator.Generator
	reporter       *DiagnosticReporter
	diagnostics    *utils.DiagnosticSystem
	summary        GenerationSummary
}

// NewRunner creates a new CLI runner
func NewRunner(verbose bool) *Runner {
	level := utils.DiagnosticInfo
	if verbose {
		level = utils.DiagnosticVerbose
	}
	return &Runner{
		scanner:        NewDirectoryScanner(),
		moduleResolver: NewModuleResolver(),
		generator:      generator.NewGenerator(),
		reporter:       NewDiagnosticReporter(verbose),
		diagnostics:    utils.NewDiagnosticSystem(level),
	}
}

// NewQuietRunner creates a runner that only reports errors
func NewQuietRunner() *Runner {
	runner := NewRunner(false)
	runner.diagnostics = utils.NewQuietDiagnostics()
	return runner
}

// GetSummary returns the summary of the last run
func (r *Runner) GetSummary() GenerationSummary {
	return r.summary
}

// ReportError prints a structured error report for a failed run
func (r *Runner) ReportError(err error) {
	r.reporter.ReportError(err)
}

// ReportSuccess prints the run summary
func (r *Runner) ReportSuccess() {
	r.reporter.ReportSuccess(r.summary)
}

// Run executes the complete generation pipeline over the configured
// directories. Processing stops at the first failing package; failures
// inside a package are already aggregated by the generator.
func (r *Runner) Run(config Config) error {
	startTime := time.Now()
	r.summary = GenerationSummary{GeneratedFiles: make([]string, 0)}

	r.diagnostics.SourcePath(strings.Join(config.Directories, " "))

	moduleName, err := r.moduleResolver.ResolveModuleName(config.ModuleName)
	if err != nil {
		return err
	}
	r.diagnostics.Info("Module: %s", moduleName)

	packageDirs, err := r.scanner.ScanDirectories(config.Directories)
	if err != nil {
		return err
	}
	if len(packageDirs) == 0 {
		return errors.New(errors.FileSystemErrorCode, "no Go packages found in the given directories").
			WithSuggestion("check that the directories contain Go files").
			WithSuggestion("use the './...' pattern to scan recursively")
	}

	r.diagnostics.PhaseHeader("Scanning")
	r.diagnostics.PhaseItem("Found %d packages to process", len(packageDirs))

	extractor, err := parser.NewParser()
	if err != nil {
		return err
	}

	r.diagnostics.PhaseHeader("Generating")
	for _, packageDir := range packageDirs {
		r.diagnostics.Verbose("Parsing package %s", packageDir)

		metadata, err := extractor.ParseDirectory(packageDir)
		if err != nil {
			return err
		}
		r.summary.PackagesProcessed++

		if len(metadata.Functions) == 0 {
			r.diagnostics.Verbose("Skipping %s (no annotations)", packageDir)
			continue
		}

		file, err := r.generator.GenerateFile(metadata)
		if err != nil {
			return err
		}
		if file == nil {
			continue
		}

		if err := os.WriteFile(file.FilePath, []byte(file.Content), 0644); err != nil {
			return errors.WrapFileSystemError("write", file.FilePath, err)
		}

		r.summary.VariantsGenerated += len(metadata.Functions)
		r.summary.GeneratedFiles = append(r.summary.GeneratedFiles, file.FilePath)
		r.diagnostics.PhaseItem("Generated %s (%d variants)", file.FilePath, len(metadata.Functions))
	}

	if len(r.summary.GeneratedFiles) == 0 {
		r.diagnostics.Warn("No annotated functions found; nothing was generated")
	}

	r.diagnostics.Verbose("Generation completed in %v", time.Since(startTime))
	r.diagnostics.GenerationComplete()
	return nil
}
