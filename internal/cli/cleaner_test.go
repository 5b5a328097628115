package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanGeneratedFilesRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "svc", "autogen_variants.go"), "package svc\n")
	writeFile(t, filepath.Join(root, "svc", "user.go"), "package svc\n")
	writeFile(t, filepath.Join(root, "svc", "nested", "autogen_variants.go"), "package nested\n")

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Len(t, removed, 2)

	_, err = os.Stat(filepath.Join(root, "svc", "autogen_variants.go"))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "svc", "user.go"))
	assert.NoError(t, err)
}

func TestCleanGeneratedFilesSingleDirectory(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "autogen_variants.go"), "package root\n")

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root})
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "autogen_variants.go")}, removed)
}

func TestCleanGeneratedFilesNothingToRemove(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "user.go"), "package root\n")

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Empty(t, removed)
}

func TestCleanGeneratedFilesSkipsVendor(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "vendor", "dep", "autogen_variants.go"), "package dep\n")

	removed, err := NewCleaner().CleanGeneratedFiles([]string{root + "/..."})
	require.NoError(t, err)
	assert.Empty(t, removed)
}
