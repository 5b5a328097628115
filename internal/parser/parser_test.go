package parser

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
)

func newTestParser(t *testing.T) *Parser {
	t.Helper()
	p, err := NewParser()
	require.NoError(t, err)
	return p
}

func TestParseSourceExtractsAnnotatedFunction(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant -Name=FetchLater
func Fetch(id int, tags ...string) (string, error) {
	return "", nil
}
`)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)

	fn := metadata.Functions[0]
	assert.Equal(t, "Fetch", fn.Signature.Name)
	assert.Equal(t, "svc", fn.Signature.PackageName)
	assert.Equal(t, "FetchLater", fn.Config.NameOverride)
	assert.Equal(t, models.ModeAsync, fn.Config.Mode)

	require.Len(t, fn.Signature.Params, 2)
	assert.Equal(t, models.Param{Name: "id", Type: "int"}, fn.Signature.Params[0])
	assert.Equal(t, models.Param{Name: "tags", Type: "...string"}, fn.Signature.Params[1])
	assert.True(t, fn.Signature.Params[1].IsVariadic())

	require.Len(t, fn.Signature.Results, 2)
	assert.True(t, fn.Signature.ResultLike())
}

func TestParseSourceSkipsUnannotatedFunctions(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

func Plain() {}

// Documented but not annotated.
func AlsoPlain() {}
`)
	require.NoError(t, err)
	assert.Empty(t, metadata.Functions)
}

func TestParseSourceCapturesDeclarationBytes(t *testing.T) {
	decl := `func Fetch(id int) string {
	// internal spacing   preserved
	return ""
}`
	metadata, err := newTestParser(t).ParseSource("input.go", "package svc\n\n//flexi::variant\n"+decl+"\n")
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)
	assert.Equal(t, decl, metadata.Functions[0].Signature.Source)
}

func TestParseSourceRejectsAnnotationOnNonFunction(t *testing.T) {
	_, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant
type NotAFunction struct{}
`)
	require.Error(t, err)

	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.SignatureErrorCode, flexiErr.ErrorCode())
}

func TestParseSourceRejectsMultipleAnnotations(t *testing.T) {
	_, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant
//flexi::block -Mode=sync
func Fetch() int { return 0 }
`)
	require.Error(t, err)

	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.GenerationErrorCode, flexiErr.ErrorCode())
}

func TestParseSourceRejectsBodylessFunction(t *testing.T) {
	_, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant
func External() int
`)
	require.Error(t, err)

	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.SignatureErrorCode, flexiErr.ErrorCode())
}

func TestParseSourceRejectsMultipleValueResults(t *testing.T) {
	_, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant
func Pair() (int, string) { return 0, "" }
`)
	require.Error(t, err)

	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.SignatureErrorCode, flexiErr.ErrorCode())
}

func TestParseSourceRejectsErrorArmNotLast(t *testing.T) {
	_, err := newTestParser(t).ParseSource("input.go", `package svc

//flexi::variant
func Backwards() (error, int) { return nil, 0 }
`)
	require.Error(t, err)

	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.SignatureErrorCode, flexiErr.ErrorCode())
	// The diagnostic must name the misplaced arm, not the arm count.
	assert.Contains(t, err.Error(), "must be last")
	assert.NotContains(t, err.Error(), "value results")
}

func TestParseSourceSplitsDocAndDirectives(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

// Fetch loads a record.
//go:noinline
//go:generate stringer -type=Kind
//flexi::variant
func Fetch() int { return 0 }
`)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)

	signature := metadata.Functions[0].Signature
	assert.Equal(t, []string{"//go:noinline"}, signature.Directives)
	assert.Equal(t, []string{"// Fetch loads a record."}, signature.Doc)
}

func TestParseSourceExtractsReceiver(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

type Store struct{}

//flexi::variant
func (s *Store) Get(key string) string { return key }
`)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)

	receiver := metadata.Functions[0].Signature.Receiver
	require.NotNil(t, receiver)
	assert.Equal(t, "s", receiver.Name)
	assert.Equal(t, "*Store", receiver.Type)
}

func TestParseSourceNamesUnnamedReceiver(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

type Store struct{}

//flexi::variant
func (*Store) Ping() {}
`)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)
	assert.Equal(t, "recv", metadata.Functions[0].Signature.Receiver.Name)
}

func TestParseSourceCollectsFileImports(t *testing.T) {
	metadata, err := newTestParser(t).ParseSource("input.go", `package svc

import (
	"time"
	custom "net/http"
	_ "embed"
)

//flexi::variant
func Wait(d time.Duration) time.Duration { return d }
`)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)

	imports := metadata.Functions[0].Signature.FileImports
	assert.Contains(t, imports, models.Import{Name: "time", Path: "time"})
	assert.Contains(t, imports, models.Import{Name: "custom", Path: "net/http"})
	for _, imp := range imports {
		assert.NotEqual(t, "embed", imp.Path)
	}
}

func TestParseDirectoryProcessesFilesInOrder(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "b.go", `package svc

//flexi::variant
func FromB() int { return 0 }
`)
	writeSource(t, dir, "a.go", `package svc

//flexi::variant
func FromA() int { return 0 }
`)

	metadata, err := newTestParser(t).ParseDirectory(dir)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 2)

	// Lexicographic file order keeps output stable across runs.
	assert.Equal(t, "FromA", metadata.Functions[0].Signature.Name)
	assert.Equal(t, "FromB", metadata.Functions[1].Signature.Name)
}

func TestParseDirectorySkipsGeneratedAndTestFiles(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "svc.go", `package svc

//flexi::variant
func Fetch() int { return 0 }
`)
	writeSource(t, dir, "autogen_variants.go", `package svc

//flexi::variant
func FetchAsyncShadow() int { return 0 }
`)
	writeSource(t, dir, "svc_test.go", `package svc

//flexi::variant
func FromTest() int { return 0 }
`)

	metadata, err := newTestParser(t).ParseDirectory(dir)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)
	assert.Equal(t, "Fetch", metadata.Functions[0].Signature.Name)
}

func TestParseDirectoryRejectsMultiplePackages(t *testing.T) {
	dir := t.TempDir()
	writeSource(t, dir, "a.go", "package one\n")
	writeSource(t, dir, "b.go", "package two\n")

	_, err := newTestParser(t).ParseDirectory(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "multiple packages")
}

func writeSource(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}
