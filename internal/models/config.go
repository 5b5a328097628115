package models

// VariantMode selects the execution discipline of the emitted function
type VariantMode int

const (
	// ModeAsync emits the deferred counterpart returning a *flexi.Task
	ModeAsync VariantMode = iota
	// ModeSync emits a synchronous fallible wrapper (block annotations only)
	ModeSync
)

// String returns the string representation of the variant mode
func (m VariantMode) String() string {
	switch m {
	case ModeAsync:
		return "async"
	case ModeSync:
		return "sync"
	default:
		return "unknown"
	}
}

// Default naming and error-type rules. The resolver supplies these
// explicitly; the synthesizer never falls back on hidden constants.
const (
	// AsyncSuffix is appended to the primary name for async variants
	AsyncSuffix = "Async"
	// CheckedSuffix is appended to the primary name for sync wrappers
	CheckedSuffix = "Checked"
	// DefaultErrorType is the universal error arm: Go's error interface
	DefaultErrorType = "error"
)

// VariantConfig is the typed configuration resolved from an annotation's
// key/value arguments. Zero values mean "use the default rule".
type VariantConfig struct {
	NameOverride  string      // -Name: replaces the suffix-derived variant name
	ErrorOverride string      // -ErrorType: replaces the default error arm
	Mode          VariantMode // block form only; variant form is always async
}

// VariantName resolves the emitted function's name for a given primary name
func (c VariantConfig) VariantName(primary string) string {
	if c.NameOverride != "" {
		return c.NameOverride
	}
	if c.Mode == ModeSync {
		return primary + CheckedSuffix
	}
	return primary + AsyncSuffix
}

// ErrorType resolves the error arm used when wrapping a non-result-like
// return type
func (c VariantConfig) ErrorType() string {
	if c.ErrorOverride != "" {
		return c.ErrorOverride
	}
	return DefaultErrorType
}

// HasErrorOverride reports whether the annotation overrode the error arm
func (c VariantConfig) HasErrorOverride() bool {
	return c.ErrorOverride != ""
}
