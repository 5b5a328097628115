package annotations

import (
	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// Configuration keys recognized by the resolver. These two (plus the block
// form's Mode selector) are the entire configuration surface.
const (
	// ParamName renames the generated function
	ParamName = "Name"
	// ParamErrorType sets the wrapping error type
	ParamErrorType = "ErrorType"
	// ParamMode selects the execution discipline (block form only)
	ParamMode = "Mode"
)

// ResolveConfig converts a schema-validated annotation into a typed
// VariantConfig with defaults applied for absent keys. Value shapes were
// already checked against the schema; this is a pure mapping step.
func ResolveConfig(annotation *ParsedAnnotation) (models.VariantConfig, error) {
	config := models.VariantConfig{
		NameOverride:  annotation.GetString(ParamName),
		ErrorOverride: annotation.GetString(ParamErrorType),
		Mode:          models.ModeAsync,
	}

	if annotation.Type == BlockAnnotation {
		switch annotation.GetString(ParamMode) {
		case "sync":
			config.Mode = models.ModeSync
		case "async":
			config.Mode = models.ModeAsync
		default:
			// Unreachable after schema validation, kept as a guard.
			return models.VariantConfig{}, errors.NewConfigValueError(ParamMode, "one of sync|async", annotation.GetString(ParamMode)).
				WithLocation(annotation.Location)
		}
	}

	return config, nil
}
