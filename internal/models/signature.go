package models

import (
	"strconv"
	"strings"
)

// Param represents a single function parameter
type Param struct {
	Name string // parameter name ("" for unnamed parameters)
	Type string // type expression as written in source, e.g. "[]byte" or "...int"
}

// IsVariadic returns true for a trailing "...T" parameter
func (p Param) IsVariadic() bool {
	return strings.HasPrefix(p.Type, "...")
}

// Result represents a single function result
type Result struct {
	Name string // result name ("" for unnamed results)
	Type string // type expression as written in source
}

// TypeParam represents a generic type parameter declaration
type TypeParam struct {
	Name       string // type parameter name, e.g. "T"
	Constraint string // constraint expression, e.g. "comparable" or "~int | ~string"
}

// Receiver represents a method receiver
type Receiver struct {
	Name string // receiver name ("" for unnamed receivers)
	Type string // receiver type, e.g. "*Store" or "Cache[K, V]"
}

// Import records one import of the file the primary lives in, so the
// generated file can re-import packages its forwarded types reference
type Import struct {
	Name string // effective package name (alias or last path segment)
	Path string // import path
}

// FunctionSignature is the decomposed form of one annotated function
// declaration. Parameter and result order is load-bearing: it becomes the
// call signature of both emitted functions.
type FunctionSignature struct {
	Name        string     // function identifier
	Receiver    *Receiver  // nil for plain functions
	Params      []Param    // ordered parameter list
	Results     []Result   // ordered result list (may be empty)
	TypeParams  []TypeParam
	Directives  []string // //go: directive lines, replicated onto the variant
	Doc         []string // doc comment lines minus annotations and directives
	FileImports []Import // imports of the file the primary lives in
	Body        string   // body block source text
	Source      string   // full primary declaration text, byte-for-byte
	PackageName string
	FileName    string
	Line        int // line of the func keyword (1-based)
}

// Exported reports whether the primary identifier is exported
func (s *FunctionSignature) Exported() bool {
	if s.Name == "" {
		return false
	}
	first := rune(s.Name[0])
	return first >= 'A' && first <= 'Z'
}

// IsMethod reports whether the function has a receiver
func (s *FunctionSignature) IsMethod() bool {
	return s.Receiver != nil
}

// ParamDecls renders the parameter list for a generated declaration,
// preserving declaration order and names
func (s *FunctionSignature) ParamDecls() string {
	parts := make([]string, 0, len(s.Params))
	for i, p := range s.Params {
		name := p.Name
		if name == "" {
			name = placeholderArg(i)
		}
		parts = append(parts, name+" "+p.Type)
	}
	return strings.Join(parts, ", ")
}

// CallArgs renders the argument list for invoking the primary from the
// variant, expanding variadic parameters
func (s *FunctionSignature) CallArgs() string {
	parts := make([]string, 0, len(s.Params))
	for i, p := range s.Params {
		name := p.Name
		if name == "" {
			name = placeholderArg(i)
		}
		if p.IsVariadic() {
			name += "..."
		}
		parts = append(parts, name)
	}
	return strings.Join(parts, ", ")
}

// TypeParamDecls renders the generic parameter list including brackets,
// or "" when the function is not generic
func (s *FunctionSignature) TypeParamDecls() string {
	if len(s.TypeParams) == 0 {
		return ""
	}
	parts := make([]string, 0, len(s.TypeParams))
	for _, tp := range s.TypeParams {
		parts = append(parts, tp.Name+" "+tp.Constraint)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// ReceiverDecl renders the receiver clause including parentheses and a
// trailing space, or "" for plain functions
func (s *FunctionSignature) ReceiverDecl() string {
	if s.Receiver == nil {
		return ""
	}
	if s.Receiver.Name == "" {
		return "(" + s.Receiver.Type + ") "
	}
	return "(" + s.Receiver.Name + " " + s.Receiver.Type + ") "
}

// CallTarget renders the expression the variant invokes: the bare name for
// functions, receiver-qualified for methods
func (s *FunctionSignature) CallTarget() string {
	if s.Receiver == nil {
		return s.Name
	}
	name := s.Receiver.Name
	if name == "" {
		// Unnamed receivers cannot be forwarded; the extractor names them.
		name = "recv"
	}
	return name + "." + s.Name
}

// placeholderArg names an unnamed parameter so the variant can forward it
func placeholderArg(index int) string {
	return "arg" + strconv.Itoa(index)
}
