package annotations

import (
	"fmt"
	"go/parser"
	"go/token"
	"unicode"
)

// Builtin schemas for the two annotation forms. The recognized keys are the
// whole configuration surface; anything else fails with UnknownConfigKey.

// RegisterBuiltinSchemas registers the variant and block schemas
func RegisterBuiltinSchemas(registry AnnotationRegistry) error {
	schemas := map[AnnotationType]AnnotationSchema{
		VariantAnnotation: {
			Type:        VariantAnnotation,
			Description: "emit an asynchronous counterpart alongside the annotated function",
			Parameters: map[string]ParameterSpec{
				"Name": {
					Description: "override the generated function's name",
					Validator:   ValidateIdentifier,
				},
				"ErrorType": {
					Description: "override the error arm used when wrapping the return type",
					Validator:   ValidateTypeExpr,
				},
			},
			Examples: []string{
				"//flexi::variant",
				"//flexi::variant -Name=FetchDeferred",
				"//flexi::variant -ErrorType=*StoreError",
			},
		},
		BlockAnnotation: {
			Type:        BlockAnnotation,
			Description: "emit a single function in the requested execution mode",
			Parameters: map[string]ParameterSpec{
				"Mode": {
					Required:    true,
					Description: "execution discipline of the emitted function",
					Enum:        []string{"sync", "async"},
				},
				"Name": {
					Description: "override the generated function's name",
					Validator:   ValidateIdentifier,
				},
				"ErrorType": {
					Description: "override the error arm used when wrapping the return type",
					Validator:   ValidateTypeExpr,
				},
			},
			Examples: []string{
				"//flexi::block -Mode=async",
				"//flexi::block -Mode=sync -Name=ParseChecked",
			},
		},
	}

	for annotationType, schema := range schemas {
		if err := registry.Register(annotationType, schema); err != nil {
			return fmt.Errorf("failed to register %s schema: %w", annotationType.String(), err)
		}
	}
	return nil
}

// ValidateIdentifier checks that a value is a legal Go identifier
func ValidateIdentifier(value string) error {
	if value == "" {
		return fmt.Errorf("identifier must not be empty")
	}
	for i, r := range value {
		if r == '_' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return fmt.Errorf("%q is not a valid Go identifier", value)
	}
	if token.Lookup(value).IsKeyword() {
		return fmt.Errorf("%q is a Go keyword", value)
	}
	return nil
}

// ValidateTypeExpr checks that a value parses as a Go type expression
func ValidateTypeExpr(value string) error {
	if value == "" {
		return fmt.Errorf("type expression must not be empty")
	}
	expr, err := parser.ParseExpr(value)
	if err != nil {
		return fmt.Errorf("%q is not a valid Go type expression", value)
	}
	if !isTypeExpr(expr) {
		return fmt.Errorf("%q is not a valid Go type expression", value)
	}
	return nil
}
