package annotations

import (
	"fmt"

	"github.com/flexigen/flexigen/internal/errors"
)

// AnnotationType represents the type of annotation
type AnnotationType int

const (
	// VariantAnnotation marks the attribute-driven whole-function rewrite:
	// the primary keeps working and an async counterpart is emitted
	VariantAnnotation AnnotationType = iota
	// BlockAnnotation marks the declarative single-mode emission selected
	// by the required -Mode parameter
	BlockAnnotation
)

// String returns the string representation of the annotation type
func (a AnnotationType) String() string {
	switch a {
	case VariantAnnotation:
		return "variant"
	case BlockAnnotation:
		return "block"
	default:
		return "unknown"
	}
}

// ParseAnnotationType converts string to AnnotationType
func ParseAnnotationType(s string) (AnnotationType, error) {
	switch s {
	case "variant":
		return VariantAnnotation, nil
	case "block":
		return BlockAnnotation, nil
	default:
		return 0, fmt.Errorf("unknown annotation type: %s", s)
	}
}

// ParsedAnnotation represents a fully parsed annotation line
type ParsedAnnotation struct {
	Type       AnnotationType        // annotation type enum
	Parameters map[string]string     // key/value parameters, at most one value per key
	Location   errors.SourceLocation // source location of the comment line
	Raw        string                // original annotation text
}

// GetString returns a parameter value with optional default
func (p *ParsedAnnotation) GetString(key string, defaultValue ...string) string {
	if value, exists := p.Parameters[key]; exists {
		return value
	}
	if len(defaultValue) > 0 {
		return defaultValue[0]
	}
	return ""
}

// HasParameter checks if a parameter exists
func (p *ParsedAnnotation) HasParameter(key string) bool {
	_, exists := p.Parameters[key]
	return exists
}

// ParameterSpec defines the specification for an annotation parameter
type ParameterSpec struct {
	Required    bool                // whether the parameter must be present
	Description string              // parameter description
	Validator   func(string) error  // value-shape validator
	Enum        []string            // allowed values ("" = free-form)
}

// AnnotationSchema defines the schema for an annotation type. Unknown keys
// are rejected, not ignored: strict mode catches typos at generation time.
type AnnotationSchema struct {
	Type        AnnotationType
	Description string
	Parameters  map[string]ParameterSpec
	Examples    []string
}
