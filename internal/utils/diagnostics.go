package utils

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly CLI output
type DiagnosticSystem struct {
	level     DiagnosticLevel
	useColors bool
	showTime  bool
	output    io.Writer
	errorOut  io.Writer
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	return &DiagnosticSystem{
		level:     level,
		useColors: shouldUseColors(),
		showTime:  level >= DiagnosticVerbose,
		output:    os.Stdout,
		errorOut:  os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// Color constants for terminal output
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorGray   = "\033[90m"
)

// Error outputs error messages (always shown unless silent)
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	if d.level >= DiagnosticError {
		d.writeMessage(d.errorOut, "ERROR", ColorRed, format, args...)
	}
}

// Warn outputs warning messages
func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	if d.level >= DiagnosticWarn {
		d.writeMessage(d.output, "WARN", ColorYellow, format, args...)
	}
}

// Info outputs informational messages
func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "INFO", ColorBlue, format, args...)
	}
}

// Success outputs success messages with emphasis
func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		d.writeMessage(d.output, "SUCCESS", ColorGreen, format, args...)
	}
}

// Verbose outputs detailed messages (verbose mode only)
func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	if d.level >= DiagnosticVerbose {
		d.writeMessage(d.output, "VERBOSE", ColorGray, format, args...)
	}
}

// ToolHeader outputs the main flexigen header
func (d *DiagnosticSystem) ToolHeader(message string) {
	if d.level >= DiagnosticInfo {
		cyan := color.New(color.FgCyan)
		cyan.Fprintf(d.output, "flexigen: %s\n", message)
	}
}

// SourcePath outputs the scanned source path
func (d *DiagnosticSystem) SourcePath(path string) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "Source Path: %s\n\n", path)
	}
}

// PhaseHeader outputs a phase header
func (d *DiagnosticSystem) PhaseHeader(phase string) {
	if d.level >= DiagnosticInfo {
		blue := color.New(color.FgBlue)
		blue.Fprintf(d.output, "%s:\n", phase)
	}
}

// PhaseItem outputs a phase item with checkmark
func (d *DiagnosticSystem) PhaseItem(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		green := color.New(color.FgGreen)
		green.Fprint(d.output, "✓ ")
		fmt.Fprintf(d.output, format+"\n", args...)
	}
}

// PhaseProgress outputs a phase progress item
func (d *DiagnosticSystem) PhaseProgress(format string, args ...interface{}) {
	if d.level >= DiagnosticInfo {
		fmt.Fprintf(d.output, "- "+format+"\n", args...)
	}
}

// GenerationComplete outputs the completion message
func (d *DiagnosticSystem) GenerationComplete() {
	if d.level >= DiagnosticInfo {
		fmt.Fprintln(d.output)
		green := color.New(color.FgGreen)
		green.Fprintln(d.output, "flexigen: Generation complete!")
	}
}

// writeMessage is the internal message writing function
func (d *DiagnosticSystem) writeMessage(writer io.Writer, level, levelColor, format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)

	var output strings.Builder
	if d.showTime {
		output.WriteString(time.Now().Format("15:04:05 "))
	}

	if d.useColors {
		output.WriteString(fmt.Sprintf("%s[%s]%s ", levelColor, level, ColorReset))
	} else {
		output.WriteString(fmt.Sprintf("[%s] ", level))
	}

	output.WriteString(message)
	output.WriteString("\n")

	fmt.Fprint(writer, output.String())
}

// shouldUseColors determines if colors should be used
func shouldUseColors() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	term := os.Getenv("TERM")
	return term != "" && term != "dumb"
}
