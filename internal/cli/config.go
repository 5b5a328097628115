package cli

// Config holds the configuration for one generation run
type Config struct {
	// Directories is the list of directories to scan for annotated Go
	// files. Supports Go-style "./..." patterns.
	Directories []string

	// ModuleName overrides the module name read from go.mod
	ModuleName string

	// Verbose enables detailed logging and error reporting
	Verbose bool
}
