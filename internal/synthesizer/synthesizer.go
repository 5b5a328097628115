// Package synthesizer implements the core transformation: given one
// extracted function signature and its resolved configuration, it decides
// the variant's return shape and name and emits the generated counterpart.
// It is a structural rewrite, not a type-checker; the emitted pair shares
// the primary's body by calling it.
package synthesizer

import (
	"go/ast"
	"go/parser"
	"strings"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// RuntimeImport is the package the generated code links against
const RuntimeImport = "github.com/flexigen/flexigen/pkg/flexi"

// runtimePkg is the identifier the runtime import binds to
const runtimePkg = "flexi"

// Synthesizer turns annotated functions into generated pairs
type Synthesizer struct{}

// NewSynthesizer creates a new variant synthesizer
func NewSynthesizer() *Synthesizer {
	return &Synthesizer{}
}

// arms is the resolved two-armed shape of the variant's wrapped return type
type arms struct {
	value     string // value arm type; "" means unit
	errType   string // error arm type
	reuse     bool   // primary was already result-like; overrides are ignored
	hasValue  bool
	converted bool // error arm differs from the plain error interface
}

// Synthesize produces the generated pair for one annotated function. The
// primary half is the input declaration byte-for-byte; only the variant is
// newly rendered.
func (s *Synthesizer) Synthesize(fn models.AnnotatedFunction) (*models.GeneratedPair, error) {
	signature := fn.Signature
	config := fn.Config

	a, err := s.resolveArms(&signature, config)
	if err != nil {
		return nil, err
	}

	variantName := config.VariantName(signature.Name)

	var variant string
	switch config.Mode {
	case models.ModeSync:
		variant = renderSyncVariant(&signature, variantName, a)
	default:
		variant = renderAsyncVariant(&signature, variantName, a)
	}

	imports, err := s.requiredImports(&signature, a, config.Mode)
	if err != nil {
		return nil, err
	}

	return &models.GeneratedPair{
		Primary:     signature.Source,
		Variant:     variant,
		VariantName: variantName,
		Imports:     imports,
	}, nil
}

// resolveArms applies the return-type decision: reuse the primary's own
// success/failure arms when it is already result-like, otherwise wrap its
// return type with the configured error arm.
func (s *Synthesizer) resolveArms(signature *models.FunctionSignature, config models.VariantConfig) (arms, error) {
	loc := errors.SourceLocation{File: signature.FileName, Line: signature.Line}

	if signature.ResultLike() {
		// The body already expresses fallibility; an -ErrorType override is
		// ignored so the variant's arms stay exactly the primary's.
		a := arms{errType: signature.ErrorResult().Type, reuse: true}
		if value := signature.ValueResult(); value != nil {
			a.value = value.Type
			a.hasValue = true
		}
		a.converted = a.errType != models.DefaultErrorType
		return a, nil
	}

	errType := config.ErrorType()
	if config.HasErrorOverride() {
		if err := errorCapable(errType); err != nil {
			return arms{}, errors.NewConversionError(errType, err.Error()).
				WithLocation(loc).
				WithContext("function", signature.Name)
		}
	}

	a := arms{errType: errType, converted: errType != models.DefaultErrorType}
	if value := signature.ValueResult(); value != nil {
		a.value = value.Type
		a.hasValue = true
	}
	return a, nil
}

// errorCapable rejects override types that can never satisfy Go's error
// interface. Everything subtler is left to the compiler: the generated code
// instantiates Task[T, E error], so an unsatisfied bound still fails at
// build time, never at run time.
func errorCapable(typeExpr string) error {
	expr, err := parser.ParseExpr(typeExpr)
	if err != nil {
		return errForShape("does not parse as a type")
	}
	return errorCapableExpr(expr)
}

func errorCapableExpr(expr ast.Expr) error {
	switch e := expr.(type) {
	case *ast.Ident:
		if predeclaredBasic[e.Name] {
			return errForShape("is a predeclared basic type and cannot implement the error interface")
		}
		return nil
	case *ast.SelectorExpr:
		return nil
	case *ast.StarExpr:
		return errorCapableExpr(e.X)
	case *ast.IndexExpr:
		return errorCapableExpr(e.X)
	case *ast.IndexListExpr:
		return errorCapableExpr(e.X)
	case *ast.InterfaceType:
		return nil
	case *ast.ParenExpr:
		return errorCapableExpr(e.X)
	default:
		// Slice, array, map, chan, func, and struct literals have no method
		// sets that could include Error() string.
		return errForShape("is a composite type literal and cannot implement the error interface")
	}
}

type shapeError string

func (e shapeError) Error() string { return string(e) }

func errForShape(reason string) error { return shapeError(reason) }

var predeclaredBasic = map[string]bool{
	"bool": true, "string": true,
	"int": true, "int8": true, "int16": true, "int32": true, "int64": true,
	"uint": true, "uint8": true, "uint16": true, "uint32": true, "uint64": true,
	"uintptr": true, "byte": true, "rune": true,
	"float32": true, "float64": true,
	"complex64": true, "complex128": true,
	"any": true, "comparable": true,
}

// requiredImports resolves the import paths the variant's declaration needs:
// the runtime package plus any file import referenced by the forwarded types
func (s *Synthesizer) requiredImports(signature *models.FunctionSignature, a arms, mode models.VariantMode) ([]string, error) {
	refs := map[string]bool{}

	collect := func(typeExpr string) {
		typeExpr = strings.TrimPrefix(typeExpr, "...")
		for _, pkg := range packageRefs(typeExpr) {
			refs[pkg] = true
		}
	}

	for _, p := range signature.Params {
		collect(p.Type)
	}
	for _, tp := range signature.TypeParams {
		collect(tp.Constraint)
	}
	if a.hasValue {
		collect(a.value)
	}
	collect(a.errType)

	var imports []string
	// A sync wrapper over a result-like primary with concrete arms calls it
	// directly and never references the runtime.
	if !(mode == models.ModeSync && a.reuse && a.converted) {
		imports = append(imports, RuntimeImport)
	}
	for pkg := range refs {
		path, ok := lookupImport(signature.FileImports, pkg)
		if !ok {
			return nil, errors.NewConversionError(pkg, "references a package the source file does not import").
				WithLocation(errors.SourceLocation{File: signature.FileName, Line: signature.Line}).
				WithContext("function", signature.Name)
		}
		imports = append(imports, path)
	}
	return imports, nil
}

// lookupImport finds the import path bound to a package identifier
func lookupImport(imports []models.Import, name string) (string, bool) {
	for _, imp := range imports {
		if imp.Name == name {
			return imp.Path, true
		}
	}
	return "", false
}

// packageRefs lists the package identifiers a type expression mentions
func packageRefs(typeExpr string) []string {
	expr, err := parser.ParseExpr(typeExpr)
	if err != nil {
		return nil
	}

	var refs []string
	ast.Inspect(expr, func(n ast.Node) bool {
		if sel, ok := n.(*ast.SelectorExpr); ok {
			if ident, ok := sel.X.(*ast.Ident); ok {
				refs = append(refs, ident.Name)
				return false
			}
		}
		return true
	})
	return refs
}
