package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// DirectoryScanner resolves directory arguments into the set of package
// directories to process. Supports Go-style "./..." patterns.
type DirectoryScanner struct{}

// NewDirectoryScanner creates a new directory scanner
func NewDirectoryScanner() *DirectoryScanner {
	return &DirectoryScanner{}
}

// ScanDirectories expands the provided patterns into directories that
// contain Go source files, sorted for reproducible processing order
func (s *DirectoryScanner) ScanDirectories(patterns []string) ([]string, error) {
	found := make(map[string]bool)

	for _, pattern := range patterns {
		if strings.HasSuffix(pattern, "/...") {
			baseDir := strings.TrimSuffix(pattern, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			if err := s.walkTree(baseDir, found); err != nil {
				return nil, err
			}
			continue
		}

		ok, err := s.hasGoFiles(pattern)
		if err != nil {
			return nil, err
		}
		if ok {
			found[filepath.Clean(pattern)] = true
		}
	}

	dirs := make([]string, 0, len(found))
	for dir := range found {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs, nil
}

// walkTree collects every subdirectory of root that holds Go files,
// skipping hidden, underscore, vendor, and testdata directories
func (s *DirectoryScanner) walkTree(root string, found map[string]bool) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !entry.IsDir() {
			return nil
		}
		if path != root && skipDirName(entry.Name()) {
			return filepath.SkipDir
		}

		ok, err := s.hasGoFiles(path)
		if err != nil {
			return err
		}
		if ok {
			found[filepath.Clean(path)] = true
		}
		return nil
	})
	if err != nil {
		return errors.WrapFileSystemError("scan", root, err)
	}
	return nil
}

// hasGoFiles reports whether the directory holds at least one Go source
// file that is not a test file and not the generated output
func (s *DirectoryScanner) hasGoFiles(dir string) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false, errors.WrapFileSystemError("read", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".go") {
			continue
		}
		if strings.HasSuffix(name, "_test.go") || name == models.GeneratedFileName {
			continue
		}
		return true, nil
	}
	return false, nil
}

func skipDirName(name string) bool {
	if name == "vendor" || name == "testdata" {
		return true
	}
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}
