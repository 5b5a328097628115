package cli

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/flexigen/flexigen/internal/errors"
)

// DiagnosticReporter provides user-facing error and summary reporting
type DiagnosticReporter struct {
	verbose  bool
	output   io.Writer
	errorOut io.Writer
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose:  verbose,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
}

// ReportError prints a structured error report. Multi-error collections are
// unpacked so every failure in the run is visible at once.
func (r *DiagnosticReporter) ReportError(err error) {
	red := color.New(color.FgRed, color.Bold)
	red.Fprintln(r.errorOut, "\nflexigen: generation failed")
	fmt.Fprintln(r.errorOut, strings.Repeat("=", 28))
	fmt.Fprintln(r.errorOut)

	switch typed := err.(type) {
	case *errors.MultipleErrors:
		for i, inner := range typed.Errors {
			if i > 0 {
				fmt.Fprintln(r.errorOut)
			}
			r.reportSingle(inner)
		}
	case errors.FlexiError:
		r.reportSingle(typed)
	default:
		fmt.Fprintf(r.errorOut, "Message: %s\n", err.Error())
	}

	fmt.Fprintln(r.errorOut)
	fmt.Fprintln(r.errorOut, "For more help:")
	fmt.Fprintln(r.errorOut, "  - Run with --verbose for more detailed output")
	fmt.Fprintln(r.errorOut, "  - Review the annotated functions named above")
}

// reportSingle prints one structured error with location, context, and
// suggestions
func (r *DiagnosticReporter) reportSingle(flexiErr errors.FlexiError) {
	fmt.Fprintf(r.errorOut, "Type: %s\n", flexiErr.ErrorCode().String())

	if loc := flexiErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.errorOut, "Location: %s\n", loc.String())
	}

	fmt.Fprintf(r.errorOut, "Message: %s\n", flexiErr.Error())

	if r.verbose && flexiErr.Unwrap() != nil {
		fmt.Fprintf(r.errorOut, "Underlying cause: %s\n", flexiErr.Unwrap().Error())
	}

	if ctx := flexiErr.Context(); len(ctx) > 0 {
		fmt.Fprintln(r.errorOut, "Context:")
		keys := make([]string, 0, len(ctx))
		for key := range ctx {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(r.errorOut, "   %s: %v\n", formatContextKey(key), ctx[key])
		}
	}

	if suggestions := flexiErr.Suggestions(); len(suggestions) > 0 {
		fmt.Fprintln(r.errorOut, "Suggestions:")
		for i, suggestion := range suggestions {
			fmt.Fprintf(r.errorOut, "   %d. %s\n", i+1, suggestion)
		}
	}
}

// ReportWarning prints a warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	yellow := color.New(color.FgYellow, color.Bold)
	yellow.Fprint(r.errorOut, "! ")
	fmt.Fprintf(r.errorOut, "%s\n", message)
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(r.errorOut, "[DEBUG] "+format+"\n", args...)
	}
}

// ReportSuccess prints the final run summary
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	green := color.New(color.FgGreen, color.Bold)
	green.Fprintln(r.output, "\nflexigen: generation complete")
	fmt.Fprintln(r.output, strings.Repeat("=", 30))
	fmt.Fprintln(r.output)

	fmt.Fprintf(r.output, "Processed %d packages\n", summary.PackagesProcessed)
	fmt.Fprintf(r.output, "Generated %d variants\n", summary.VariantsGenerated)

	if len(summary.GeneratedFiles) > 0 {
		fmt.Fprintln(r.output, "\nGenerated files:")
		for _, file := range summary.GeneratedFiles {
			fmt.Fprintf(r.output, "  - %s\n", file)
		}
	}
}

// formatContextKey converts snake_case context keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// GenerationSummary describes what one run produced
type GenerationSummary struct {
	PackagesProcessed int
	VariantsGenerated int
	GeneratedFiles    []string
}
