// Package generator assembles the per-package output file: it runs every
// annotated function through the synthesizer and joins the variants into a
// single formatted autogen_variants.go.
package generator

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
	"github.com/flexigen/flexigen/internal/synthesizer"
	"github.com/flexigen/flexigen/internal/utils"
)

const generatedHeader = "// Code generated by flexigen. DO NOT EDIT.\n" +
	"// This file was automatically generated and should not be modified manually.\n\n"

// Generator assembles generated files from package metadata
type Generator struct {
	synthesizer *synthesizer.Synthesizer
}

// NewGenerator creates a new file generator
func NewGenerator() *Generator {
	return &Generator{
		synthesizer: synthesizer.NewSynthesizer(),
	}
}

// GenerateFile synthesizes every annotated function in the package and
// assembles the output file. Functions are processed in source order so the
// output is reproducible; per-function failures are collected rather than
// aborting on the first one. A package without annotations yields (nil, nil).
func (g *Generator) GenerateFile(metadata *models.PackageMetadata) (*models.GeneratedFile, error) {
	if metadata == nil {
		return nil, errors.New(errors.GenerationErrorCode, "package metadata cannot be nil")
	}
	if len(metadata.Functions) == 0 {
		return nil, nil
	}

	imports := newImportManager()
	variantOwner := make(map[string]string)
	var variants []string

	collected := errors.NewMultipleErrors()
	for _, fn := range metadata.Functions {
		pair, err := g.synthesizer.Synthesize(fn)
		if err != nil {
			collected.Add(asFlexiError(err))
			continue
		}

		if primary, taken := variantOwner[pair.VariantName]; taken {
			collected.Add(errors.Newf(errors.GenerationErrorCode,
				"variant name %s is generated for both %s and %s", pair.VariantName, primary, fn.Signature.Name).
				WithLocation(errors.SourceLocation{File: fn.Signature.FileName, Line: fn.Signature.Line}).
				WithSuggestion("disambiguate one of them with -Name"))
			continue
		}
		variantOwner[pair.VariantName] = fn.Signature.Name

		for _, path := range pair.Imports {
			imports.add(path)
		}
		variants = append(variants, pair.Variant)
	}

	if !collected.IsEmpty() {
		return nil, collected
	}

	var builder strings.Builder
	builder.WriteString(generatedHeader)
	fmt.Fprintf(&builder, "package %s\n\n", metadata.PackageName)
	builder.WriteString(imports.render())
	builder.WriteString("\n")
	builder.WriteString(strings.Join(variants, "\n"))

	formatted, err := utils.FormatGeneratedSource(builder.String())
	if err != nil {
		return nil, errors.Wrap(errors.GenerationErrorCode, "generated output is not valid Go", err).
			WithContext("package", metadata.PackageName)
	}

	return &models.GeneratedFile{
		FilePath: filepath.Join(metadata.PackagePath, models.GeneratedFileName),
		Content:  formatted,
	}, nil
}

// asFlexiError keeps structured errors intact and wraps everything else
func asFlexiError(err error) errors.FlexiError {
	if flexiErr, ok := err.(errors.FlexiError); ok {
		return flexiErr
	}
	return errors.Wrap(errors.GenerationErrorCode, "variant synthesis failed", err)
}
