package utils

import (
	"fmt"
	"go/format"
	"go/parser"
	"go/token"

	"golang.org/x/tools/imports"
)

// FormatGeneratedSource runs goimports-style processing on generated source:
// gofmt layout plus import grouping. When import processing fails (for
// example outside a module context) it falls back to plain gofmt.
func FormatGeneratedSource(source string) (string, error) {
	processed, err := imports.Process(formatFileName, []byte(source), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err == nil {
		return string(processed), nil
	}

	formatted, fmtErr := format.Source([]byte(source))
	if fmtErr != nil {
		return "", fmt.Errorf("invalid generated Go source: %w", fmtErr)
	}
	return string(formatted), nil
}

// formatFileName is the filename goimports uses to pick formatting
// context; the content is never written under this name
const formatFileName = "autogen_variants.go"

// ValidateGoSource checks that source parses as a Go file
func ValidateGoSource(source string) error {
	fileSet := token.NewFileSet()
	_, err := parser.ParseFile(fileSet, "", source, parser.ParseComments)
	return err
}
