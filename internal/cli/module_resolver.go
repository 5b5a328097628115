package cli

import (
	"os"
	"path/filepath"

	"golang.org/x/mod/modfile"

	"github.com/flexigen/flexigen/internal/errors"
)

// ModuleResolver determines the enclosing Go module for diagnostics and
// import path reporting
type ModuleResolver struct{}

// NewModuleResolver creates a new module resolver
func NewModuleResolver() *ModuleResolver {
	return &ModuleResolver{}
}

// ResolveModuleName returns the custom name when provided, otherwise the
// module path of the nearest enclosing go.mod
func (r *ModuleResolver) ResolveModuleName(customModule string) (string, error) {
	if customModule != "" {
		return customModule, nil
	}

	goModPath, err := r.findGoMod()
	if err != nil {
		return "", err
	}
	return r.parseModulePath(goModPath)
}

// findGoMod walks up from the working directory to the nearest go.mod
func (r *ModuleResolver) findGoMod() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", ".", err)
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return goModPath, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", errors.New(errors.FileSystemErrorCode, "go.mod not found in this or any parent directory").
				WithSuggestion("run from inside a Go module or pass --module explicitly")
		}
		dir = parent
	}
}

// parseModulePath reads the module path from a go.mod file
func (r *ModuleResolver) parseModulePath(goModPath string) (string, error) {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return "", errors.WrapFileSystemError("read", goModPath, err)
	}

	file, err := modfile.ParseLax(goModPath, data, nil)
	if err != nil {
		return "", errors.Wrapf(errors.FileSystemErrorCode, err, "go.mod at %s does not parse", goModPath)
	}
	if file.Module == nil || file.Module.Mod.Path == "" {
		return "", errors.Newf(errors.FileSystemErrorCode, "go.mod at %s has no module declaration", goModPath)
	}
	return file.Module.Mod.Path, nil
}

// BuildPackagePath builds the import path for a package directory relative
// to the working directory
func (r *ModuleResolver) BuildPackagePath(moduleName, packageDir string) (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", ".", err)
	}

	absPackageDir, err := filepath.Abs(packageDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", packageDir, err)
	}

	relPath, err := filepath.Rel(currentDir, absPackageDir)
	if err != nil {
		return "", errors.WrapFileSystemError("resolve", packageDir, err)
	}

	importPath := filepath.ToSlash(relPath)
	if importPath == "." {
		return moduleName, nil
	}
	return moduleName + "/" + importPath, nil
}
