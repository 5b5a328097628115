package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

// Cleaner removes previously generated files
type Cleaner struct{}

// NewCleaner creates a new cleaner
func NewCleaner() *Cleaner {
	return &Cleaner{}
}

// CleanGeneratedFiles removes every autogen_variants.go under the given
// directories and returns the paths it removed
func (c *Cleaner) CleanGeneratedFiles(directories []string) ([]string, error) {
	var removed []string

	for _, dir := range directories {
		if strings.HasSuffix(dir, "/...") {
			baseDir := strings.TrimSuffix(dir, "/...")
			if baseDir == "" {
				baseDir = "."
			}
			if err := c.cleanTree(baseDir, &removed); err != nil {
				return removed, err
			}
			continue
		}
		if err := c.cleanDirectory(dir, &removed); err != nil {
			return removed, err
		}
	}

	return removed, nil
}

func (c *Cleaner) cleanTree(baseDir string, removed *[]string) error {
	return filepath.Walk(baseDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, not fatal.
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != baseDir && skipDirName(info.Name()) {
			return filepath.SkipDir
		}
		return c.cleanDirectory(path, removed)
	})
}

func (c *Cleaner) cleanDirectory(dir string, removed *[]string) error {
	target := filepath.Join(dir, models.GeneratedFileName)

	if _, err := os.Stat(target); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.WrapFileSystemError("stat", target, err)
	}

	if err := os.Remove(target); err != nil {
		return errors.WrapFileSystemError("remove", target, err)
	}
	*removed = append(*removed, target)
	return nil
}
