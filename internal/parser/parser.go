// Package parser implements the signature extractor: it scans Go source for
// flexi:: annotated function declarations and decomposes each one into a
// models.FunctionSignature paired with its resolved configuration.
package parser

import (
	"go/ast"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flexigen/flexigen/internal/annotations"
	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// GeneratedFileName is the per-package output file. The scanner skips it so
// the transformer runs at most once per declared function.
const GeneratedFileName = models.GeneratedFileName

// Parser extracts annotated function signatures from Go packages
type Parser struct {
	fileSet     *token.FileSet
	annotations *annotations.Parser
}

// NewParser creates a new signature extractor with the builtin schemas
func NewParser() (*Parser, error) {
	registry := annotations.NewRegistry()
	if err := annotations.RegisterBuiltinSchemas(registry); err != nil {
		return nil, err
	}
	return &Parser{
		fileSet:     token.NewFileSet(),
		annotations: annotations.NewParser(registry),
	}, nil
}

// ParseSource parses source code from a string for testing purposes
func (p *Parser) ParseSource(filename, source string) (*models.PackageMetadata, error) {
	file, err := parser.ParseFile(p.fileSet, filename, source, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(filename, err)
	}

	metadata := &models.PackageMetadata{
		PackageName: file.Name.Name,
		PackagePath: "./",
	}

	functions, err := p.extractFile(file, filename, []byte(source))
	if err != nil {
		return nil, err
	}
	metadata.Functions = functions

	return metadata, nil
}

// ParseDirectory scans one directory for annotated Go files. Generated and
// test files are skipped.
func (p *Parser) ParseDirectory(path string) (*models.PackageMetadata, error) {
	pkgs, err := parser.ParseDir(p.fileSet, path, func(info os.FileInfo) bool {
		name := info.Name()
		return name != GeneratedFileName && !strings.HasSuffix(name, "_test.go")
	}, parser.ParseComments)
	if err != nil {
		return nil, errors.WrapParseError(path, err)
	}

	if len(pkgs) == 0 {
		return nil, errors.NewSignatureErrorf("no Go packages found in directory %s", path)
	}
	if len(pkgs) > 1 {
		return nil, errors.NewSignatureErrorf("multiple packages found in directory %s", path)
	}

	var pkg *ast.Package
	var packageName string
	for name, astPkg := range pkgs {
		pkg = astPkg
		packageName = name
		break
	}

	metadata := &models.PackageMetadata{
		PackageName: packageName,
		PackagePath: path,
	}

	// File order must be deterministic so output is reproducible.
	fileNames := make([]string, 0, len(pkg.Files))
	for fileName := range pkg.Files {
		fileNames = append(fileNames, fileName)
	}
	sort.Strings(fileNames)

	for _, fileName := range fileNames {
		source, err := os.ReadFile(fileName)
		if err != nil {
			return nil, errors.WrapFileSystemError("read", fileName, err)
		}

		functions, err := p.extractFile(pkg.Files[fileName], fileName, source)
		if err != nil {
			return nil, err
		}
		metadata.Functions = append(metadata.Functions, functions...)
	}

	return metadata, nil
}

// extractFile walks one file's declarations and extracts every annotated
// function together with its resolved configuration
func (p *Parser) extractFile(file *ast.File, fileName string, source []byte) ([]models.AnnotatedFunction, error) {
	var functions []models.AnnotatedFunction
	imports := fileImports(file)

	for _, decl := range file.Decls {
		switch node := decl.(type) {
		case *ast.FuncDecl:
			annotated, err := p.extractFuncDecl(node, file.Name.Name, fileName, source, imports)
			if err != nil {
				return nil, err
			}
			if annotated != nil {
				functions = append(functions, *annotated)
			}
		case *ast.GenDecl:
			// Annotations only apply to functions; catching them here turns
			// a silently ignored typo into a diagnostic.
			if comment := p.findAnnotationComment(node.Doc); comment != nil {
				return nil, errors.NewSignatureError("flexi annotation attached to a non-function declaration").
					WithLocation(p.location(fileName, comment.Pos())).
					WithSuggestion("move the annotation onto a func declaration")
			}
		}
	}

	return functions, nil
}

// extractFuncDecl returns the annotated function for a declaration, or nil
// when the declaration carries no flexi annotation
func (p *Parser) extractFuncDecl(decl *ast.FuncDecl, packageName, fileName string, source []byte, imports []models.Import) (*models.AnnotatedFunction, error) {
	if decl.Doc == nil {
		return nil, nil
	}

	var parsed *annotations.ParsedAnnotation
	for _, comment := range decl.Doc.List {
		if !annotations.IsAnnotation(comment.Text) {
			continue
		}
		if parsed != nil {
			return nil, errors.NewGenerationError("function carries more than one flexi annotation").
				WithLocation(p.location(fileName, comment.Pos())).
				WithContext("function", decl.Name.Name).
				WithSuggestion("each function may be transformed at most once; keep a single //flexi:: line")
		}

		annotation, err := p.annotations.ParseAnnotation(comment.Text, p.location(fileName, comment.Pos()))
		if err != nil {
			return nil, err
		}
		parsed = annotation
	}

	if parsed == nil {
		return nil, nil
	}

	config, err := annotations.ResolveConfig(parsed)
	if err != nil {
		return nil, err
	}

	signature, err := p.extractSignature(decl, packageName, fileName, source)
	if err != nil {
		return nil, err
	}
	signature.FileImports = imports

	return &models.AnnotatedFunction{
		Signature: *signature,
		Config:    config,
	}, nil
}

// findAnnotationComment returns the first flexi annotation in a doc group
func (p *Parser) findAnnotationComment(doc *ast.CommentGroup) *ast.Comment {
	if doc == nil {
		return nil
	}
	for _, comment := range doc.List {
		if annotations.IsAnnotation(comment.Text) {
			return comment
		}
	}
	return nil
}

// location converts a token position into an error location
func (p *Parser) location(fileName string, pos token.Pos) errors.SourceLocation {
	position := p.fileSet.Position(pos)
	return errors.SourceLocation{
		File:   filepath.ToSlash(fileName),
		Line:   position.Line,
		Column: position.Column,
	}
}
