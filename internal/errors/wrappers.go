package errors

import "fmt"

// Constructors for the transformation failure modes. Every failure is
// reported at generation time; none is downgraded to a warning.

// NewSignatureError reports input text that does not form a supported
// function declaration
func NewSignatureError(message string) *BaseError {
	return New(SignatureErrorCode, message)
}

// NewSignatureErrorf reports a malformed signature with a formatted message
func NewSignatureErrorf(format string, args ...interface{}) *BaseError {
	return Newf(SignatureErrorCode, format, args...)
}

// NewConfigValueError reports a recognized annotation key carrying a value of
// the wrong shape
func NewConfigValueError(key, expected, actual string) *BaseError {
	return Newf(ConfigValueErrorCode, "parameter '%s' expects %s, got '%s'", key, expected, actual).
		WithContext("parameter", key)
}

// NewUnknownKeyError reports an unrecognized annotation key (strict mode)
func NewUnknownKeyError(key, annotationType string) *BaseError {
	return Newf(UnknownKeyErrorCode, "unknown parameter '%s' for annotation type %s", key, annotationType).
		WithContext("parameter", key).
		WithSuggestion(fmt.Sprintf("remove '-%s' or check the spelling against the %s annotation's parameters", key, annotationType))
}

// NewConversionError reports an error type override that cannot satisfy the
// error conversion the generated variant requires
func NewConversionError(errorType, reason string) *BaseError {
	return Newf(ConversionErrorCode, "error type '%s' %s", errorType, reason).
		WithContext("error_type", errorType)
}

// NewGenerationError reports a failure while assembling generated output
func NewGenerationError(message string) *BaseError {
	return New(GenerationErrorCode, message)
}

// WrapParseError wraps an error with a "failed to parse" message
func WrapParseError(item string, cause error) *BaseError {
	return Wrapf(SignatureErrorCode, cause, "failed to parse %s", item)
}

// WrapGenerateError wraps an error with a "failed to generate" message
func WrapGenerateError(item string, cause error) *BaseError {
	return Wrapf(GenerationErrorCode, cause, "failed to generate %s", item)
}

// WrapFileSystemError wraps file system related errors
func WrapFileSystemError(operation, path string, cause error) *BaseError {
	return Wrapf(FileSystemErrorCode, cause, "failed to %s file '%s'", operation, path).
		WithContext("operation", operation).
		WithContext("path", path)
}

// WrapWithOperation wraps an error with an operation context
func WrapWithOperation(operation, item string, cause error) *BaseError {
	return Wrapf(UnknownErrorCode, cause, "failed to %s %s", operation, item)
}

// AddToMultiple adds an error to a MultipleErrors, creating it if nil
func AddToMultiple(multiple **MultipleErrors, err FlexiError) {
	if *multiple == nil {
		*multiple = NewMultipleErrors()
	}
	(*multiple).Add(err)
}
