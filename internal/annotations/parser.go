package annotations

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/flexigen/flexigen/internal/errors"
)

// AnnotationPrefix is the marker every flexigen annotation starts with
const AnnotationPrefix = "flexi::"

// annotationLine is the participle grammar root for one annotation comment
type annotationLine struct {
	Head   string      `parser:"@Head"`
	Type   string      `parser:"@Atom"`
	Params []paramItem `parser:"@@*"`
}

// paramItem is a single -Key or -Key=Value argument. The value repetition
// excludes Param tokens so it stops at the next -Key flag.
type paramItem struct {
	Key   string   `parser:"@Param"`
	Value []string `parser:"(Equals @(String | Atom)+)?"`
}

// Parser parses flexi:: annotation comments against registered schemas
type Parser struct {
	parser   *participle.Parser[annotationLine]
	registry AnnotationRegistry
}

// NewParser creates a new annotation parser
func NewParser(registry AnnotationRegistry) *Parser {
	lex := lexer.MustSimple([]lexer.SimpleRule{
		{Name: "Head", Pattern: `//\s*flexi::`},
		{Name: "String", Pattern: `"(\\"|[^"])*"`},
		{Name: "Equals", Pattern: `=`},
		{Name: "Param", Pattern: `-[a-zA-Z_][a-zA-Z0-9_]*`},
		{Name: "Atom", Pattern: `[^\s=]+`},
		{Name: "Whitespace", Pattern: `\s+`},
	})

	parser := participle.MustBuild[annotationLine](
		participle.Lexer(lex),
		participle.Elide("Whitespace"),
	)

	return &Parser{
		parser:   parser,
		registry: registry,
	}
}

// IsAnnotation reports whether a comment line carries a flexi:: annotation
func IsAnnotation(comment string) bool {
	text := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(comment), "//"))
	return strings.HasPrefix(text, AnnotationPrefix)
}

// ParseAnnotation parses one annotation comment line and validates it
// against the registered schema for its type
func (p *Parser) ParseAnnotation(comment string, location errors.SourceLocation) (*ParsedAnnotation, error) {
	if !IsAnnotation(comment) {
		return nil, fmt.Errorf("not a flexi annotation: %s", comment)
	}

	line, err := p.parser.ParseString(location.File, strings.TrimSpace(comment))
	if err != nil {
		return nil, errors.Wrapf(errors.ConfigValueErrorCode, err, "malformed annotation %q", strings.TrimSpace(comment)).
			WithLocation(location).
			WithSuggestion("expected //flexi::<type> [-Key=Value ...]")
	}

	annotationType, err := ParseAnnotationType(line.Type)
	if err != nil {
		return nil, errors.Newf(errors.ConfigValueErrorCode, "unknown annotation type %q", line.Type).
			WithLocation(location).
			WithSuggestion("supported annotation types: variant, block")
	}

	parsed := &ParsedAnnotation{
		Type:       annotationType,
		Parameters: make(map[string]string),
		Location:   location,
		Raw:        strings.TrimSpace(comment),
	}

	for _, item := range line.Params {
		key := strings.TrimPrefix(item.Key, "-")

		if _, seen := parsed.Parameters[key]; seen {
			return nil, errors.NewConfigValueError(key, "at most one binding", "a duplicate").
				WithLocation(location)
		}

		if item.Value == nil {
			return nil, errors.NewConfigValueError(key, "an explicit value", "a bare flag").
				WithLocation(location).
				WithSuggestion(fmt.Sprintf("write -%s=<value>", key))
		}

		parsed.Parameters[key] = unquote(strings.Join(item.Value, ""))
	}

	if p.registry != nil {
		if err := p.validateAgainstSchema(parsed); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// validateAgainstSchema checks keys, required parameters, enumerations, and
// value shapes against the annotation's registered schema
func (p *Parser) validateAgainstSchema(annotation *ParsedAnnotation) error {
	schema, err := p.registry.GetSchema(annotation.Type)
	if err != nil {
		return errors.Wrapf(errors.ConfigValueErrorCode, err, "no schema for annotation type %s", annotation.Type).
			WithLocation(annotation.Location)
	}

	for key, value := range annotation.Parameters {
		spec, exists := schema.Parameters[key]
		if !exists {
			return errors.NewUnknownKeyError(key, annotation.Type.String()).
				WithLocation(annotation.Location)
		}

		if len(spec.Enum) > 0 && !containsString(spec.Enum, value) {
			return errors.NewConfigValueError(key, "one of "+strings.Join(spec.Enum, "|"), value).
				WithLocation(annotation.Location)
		}

		if spec.Validator != nil {
			if err := spec.Validator(value); err != nil {
				return errors.NewConfigValueError(key, spec.Description, value).
					WithLocation(annotation.Location).
					WithCause(err).
					WithSuggestion(err.Error())
			}
		}
	}

	for key, spec := range schema.Parameters {
		if spec.Required {
			if _, exists := annotation.Parameters[key]; !exists {
				return errors.Newf(errors.ConfigValueErrorCode, "missing required parameter '%s' for annotation type %s", key, annotation.Type).
					WithLocation(annotation.Location).
					WithSuggestion(fmt.Sprintf("write -%s=<value>", key))
			}
		}
	}

	return nil
}

// unquote strips one layer of surrounding double quotes from a value
func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return strings.ReplaceAll(s[1:len(s)-1], `\"`, `"`)
	}
	return s
}

func containsString(values []string, want string) bool {
	for _, v := range values {
		if v == want {
			return true
		}
	}
	return false
}
