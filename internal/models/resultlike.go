package models

import "strings"

// IsErrorShaped reports whether a result type expression looks like an error
// arm. The transformer does not type-check, so this is a structural
// heuristic: the predeclared error interface, or a named type (optionally
// behind a pointer or package selector) whose base identifier ends in
// "Error".
func IsErrorShaped(typeExpr string) bool {
	t := strings.TrimSpace(typeExpr)
	t = strings.TrimPrefix(t, "*")
	if t == "error" {
		return true
	}
	if i := strings.LastIndex(t, "."); i >= 0 {
		t = t[i+1:]
	}
	return strings.HasSuffix(t, "Error")
}

// ResultLike reports whether the signature's return list already expresses a
// success/failure duality: its final result is error-shaped
func (s *FunctionSignature) ResultLike() bool {
	if len(s.Results) == 0 {
		return false
	}
	return IsErrorShaped(s.Results[len(s.Results)-1].Type)
}

// ValueResult returns the single value arm of the signature, or nil when the
// function yields no value (unit)
func (s *FunctionSignature) ValueResult() *Result {
	results := s.Results
	if s.ResultLike() {
		results = results[:len(results)-1]
	}
	if len(results) == 0 {
		return nil
	}
	return &results[0]
}

// ErrorResult returns the error arm of a result-like signature, or nil
func (s *FunctionSignature) ErrorResult() *Result {
	if !s.ResultLike() {
		return nil
	}
	return &s.Results[len(s.Results)-1]
}
