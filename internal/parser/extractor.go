package parser

import (
	"bytes"
	"go/ast"
	"go/printer"
	"go/token"
	"strings"

	"github.com/flexigen/flexigen/internal/annotations"
	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// extractSignature decomposes a function declaration into its signature
// model. The declaration text is captured byte-for-byte from the source so
// the emitted pair's primary half never drifts from the input.
func (p *Parser) extractSignature(decl *ast.FuncDecl, packageName, fileName string, source []byte) (*models.FunctionSignature, error) {
	loc := p.location(fileName, decl.Pos())

	if decl.Body == nil {
		return nil, errors.NewSignatureError("annotated function has no body").
			WithLocation(loc).
			WithContext("function", decl.Name.Name)
	}

	signature := &models.FunctionSignature{
		Name:        decl.Name.Name,
		PackageName: packageName,
		FileName:    normalizePath(fileName),
		Line:        loc.Line,
	}

	if decl.Recv != nil {
		receiver, err := p.extractReceiver(decl.Recv, loc)
		if err != nil {
			return nil, err
		}
		signature.Receiver = receiver
	}

	if decl.Type.TypeParams != nil {
		for _, field := range decl.Type.TypeParams.List {
			constraint := p.exprString(field.Type)
			for _, name := range field.Names {
				signature.TypeParams = append(signature.TypeParams, models.TypeParam{
					Name:       name.Name,
					Constraint: constraint,
				})
			}
		}
	}

	if decl.Type.Params != nil {
		for _, field := range decl.Type.Params.List {
			typeExpr := p.exprString(field.Type)
			if len(field.Names) == 0 {
				signature.Params = append(signature.Params, models.Param{Type: typeExpr})
				continue
			}
			for _, name := range field.Names {
				signature.Params = append(signature.Params, models.Param{
					Name: name.Name,
					Type: typeExpr,
				})
			}
		}
	}

	if decl.Type.Results != nil {
		for _, field := range decl.Type.Results.List {
			typeExpr := p.exprString(field.Type)
			if len(field.Names) == 0 {
				signature.Results = append(signature.Results, models.Result{Type: typeExpr})
				continue
			}
			for _, name := range field.Names {
				signature.Results = append(signature.Results, models.Result{
					Name: name.Name,
					Type: typeExpr,
				})
			}
		}
	}

	if err := validateResults(signature, loc); err != nil {
		return nil, err
	}

	signature.Directives, signature.Doc = splitDoc(decl.Doc)
	signature.Body = p.sliceSource(source, decl.Body.Pos(), decl.Body.End(), fileName)
	signature.Source = p.sliceSource(source, decl.Pos(), decl.End(), fileName)

	return signature, nil
}

// extractReceiver pulls the receiver clause apart. An unnamed receiver is
// given a name so the variant can forward the method call.
func (p *Parser) extractReceiver(recv *ast.FieldList, loc errors.SourceLocation) (*models.Receiver, error) {
	if len(recv.List) != 1 {
		return nil, errors.NewSignatureError("unsupported receiver list").WithLocation(loc)
	}

	field := recv.List[0]
	receiver := &models.Receiver{Type: p.exprString(field.Type)}
	if len(field.Names) > 0 {
		receiver.Name = field.Names[0].Name
	} else {
		receiver.Name = "recv"
	}
	return receiver, nil
}

// validateResults enforces the variant grammar: zero or one value arm, plus
// an optional trailing error arm. Misplaced error arms are reported before
// the arm count so the diagnostic names the actual problem.
func validateResults(signature *models.FunctionSignature, loc errors.SourceLocation) error {
	last := len(signature.Results) - 1
	for i, result := range signature.Results {
		// An error arm anywhere but last would reorder the wrapped results.
		if i != last && models.IsErrorShaped(result.Type) {
			return errors.NewSignatureErrorf("error-shaped result %s at position %d; the error arm must be last", result.Type, i+1).
				WithLocation(loc).
				WithContext("function", signature.Name).
				WithSuggestion("move the error result to the final position")
		}
	}

	valueArms := len(signature.Results)
	if signature.ResultLike() {
		valueArms--
	}
	if valueArms > 1 {
		return errors.NewSignatureErrorf("function declares %d value results; the variant grammar admits at most one", valueArms).
			WithLocation(loc).
			WithContext("function", signature.Name).
			WithSuggestion("bundle the values into a struct or drop the annotation")
	}
	return nil
}

// splitDoc separates //go: directive lines (replicated onto the variant)
// from ordinary doc lines, dropping annotation lines entirely
func splitDoc(doc *ast.CommentGroup) (directives []string, docLines []string) {
	if doc == nil {
		return nil, nil
	}
	for _, comment := range doc.List {
		text := comment.Text
		switch {
		case annotations.IsAnnotation(text):
			// The annotation drives the transformation; it is consumed, not
			// replicated, so the output never re-triggers generation.
		case strings.HasPrefix(text, "//go:generate"):
			// Replicating generate directives would re-run tools on
			// generated code.
		case strings.HasPrefix(text, "//go:"):
			directives = append(directives, text)
		default:
			docLines = append(docLines, text)
		}
	}
	return directives, docLines
}

// sliceSource extracts the exact source text between two token positions
func (p *Parser) sliceSource(source []byte, from, to token.Pos, fileName string) string {
	start := p.fileSet.Position(from).Offset
	end := p.fileSet.Position(to).Offset
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return string(source[start:end])
}

// exprString renders a type expression exactly as go/printer would
func (p *Parser) exprString(expr ast.Expr) string {
	var buf bytes.Buffer
	if err := printer.Fprint(&buf, p.fileSet, expr); err != nil {
		return ""
	}
	return buf.String()
}

// fileImports lists a file's imports with their effective package names
func fileImports(file *ast.File) []models.Import {
	var imports []models.Import
	for _, spec := range file.Imports {
		path := strings.Trim(spec.Path.Value, `"`)
		name := path
		if i := strings.LastIndex(path, "/"); i >= 0 {
			name = path[i+1:]
		}
		if spec.Name != nil {
			name = spec.Name.Name
		}
		if name == "_" || name == "." {
			continue
		}
		imports = append(imports, models.Import{Name: name, Path: path})
	}
	return imports
}

// normalizePath normalizes a file name for diagnostics
func normalizePath(name string) string {
	return strings.ReplaceAll(name, "\\", "/")
}
