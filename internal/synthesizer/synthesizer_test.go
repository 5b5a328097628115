package synthesizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexigen/flexigen/internal/errors"
	"github.com/flexigen/flexigen/internal/models"
	"github.com/flexigen/flexigen/internal/parser"
)

// extractOne runs a source snippet through the extractor and returns the
// single annotated function it contains
func extractOne(t *testing.T, source string) models.AnnotatedFunction {
	t.Helper()
	p, err := parser.NewParser()
	require.NoError(t, err)

	metadata, err := p.ParseSource("input.go", source)
	require.NoError(t, err)
	require.Len(t, metadata.Functions, 1)
	return metadata.Functions[0]
}

func synthesizeOne(t *testing.T, source string) *models.GeneratedPair {
	t.Helper()
	pair, err := NewSynthesizer().Synthesize(extractOne(t, source))
	require.NoError(t, err)
	return pair
}

func TestSynthesizePlainValueFunction(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Fetch(id int) string {
	return "user-" + string(rune(id))
}
`)

	assert.Equal(t, "FetchAsync", pair.VariantName)
	assert.Contains(t, pair.Variant, "func FetchAsync(id int) *flexi.Task[string, error] {")
	assert.Contains(t, pair.Variant, "flexi.Spawn(func() (string, error) {")
	assert.Contains(t, pair.Variant, "return Fetch(id), nil")
	assert.NotContains(t, pair.Variant, "SpawnAs")
}

func TestSynthesizePrimaryIsByteIdentical(t *testing.T) {
	decl := `func Fetch(id int) string {
	x := id * 2 // spacing and comments must survive
	return string(rune(x))
}`
	pair := synthesizeOne(t, "package demo\n\n//flexi::variant\n"+decl+"\n")
	assert.Equal(t, decl, pair.Primary)
}

func TestSynthesizeReusesResultLikeArms(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Load(path string) (string, error) {
	return path, nil
}
`)

	assert.Contains(t, pair.Variant, "*flexi.Task[string, error]")
	assert.Contains(t, pair.Variant, "return Load(path)")
	assert.NotContains(t, pair.Variant, "return Load(path), nil")
}

func TestSynthesizeIgnoresErrorOverrideOnResultLike(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type ParseError struct{ msg string }

func (e *ParseError) Error() string { return e.msg }

//flexi::variant -ErrorType=*OtherError
func Step(n int) (int, *ParseError) {
	return n, nil
}
`)

	// The primary already declares its arms; the override must not leak in.
	assert.Contains(t, pair.Variant, "*flexi.Task[int, *ParseError]")
	assert.NotContains(t, pair.Variant, "OtherError")
	assert.Contains(t, pair.Variant, "flexi.SpawnFrom(func() (int, *ParseError) {")
}

func TestSynthesizeConcreteErrorArmKeepsArmsEndToEnd(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type ParseError struct{ msg string }

func (e *ParseError) Error() string { return e.msg }

//flexi::variant
func Step(n int) (int, *ParseError) {
	return n, nil
}
`)

	// The closure returns the primary's own arms so a nil *ParseError stays
	// a success instead of becoming a non-nil error interface.
	assert.Contains(t, pair.Variant, "flexi.SpawnFrom(func() (int, *ParseError) {")
	assert.Contains(t, pair.Variant, "return Step(n)")
	assert.NotContains(t, pair.Variant, "ConvertAs")
	assert.NotContains(t, pair.Variant, "func() (int, error)")
}

func TestSynthesizeNameOverride(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant -Name=FetchInBackground
func Fetch(id int) int {
	return id
}
`)

	assert.Equal(t, "FetchInBackground", pair.VariantName)
	assert.Contains(t, pair.Variant, "func FetchInBackground(id int)")
}

func TestSynthesizeErrorTypeOverrideWrapsWithConversion(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type AppError struct{ msg string }

func (e *AppError) Error() string { return e.msg }

//flexi::variant -ErrorType=*AppError
func Compute(n int) int {
	return n * n
}
`)

	assert.Contains(t, pair.Variant, "*flexi.Task[int, *AppError]")
	assert.Contains(t, pair.Variant, "flexi.SpawnAs(flexi.ConvertAs[*AppError], func() (int, error) {")
	assert.Contains(t, pair.Variant, "return Compute(n), nil")
}

func TestSynthesizeNoResultsUsesUnit(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Ping() {
}
`)

	assert.Contains(t, pair.Variant, "*flexi.Task[flexi.Unit, error]")
	assert.Contains(t, pair.Variant, "Ping()\n")
	assert.Contains(t, pair.Variant, "return flexi.Unit{}, nil")
}

func TestSynthesizeErrorOnlyResultReusesErrorArm(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Flush() error {
	return nil
}
`)

	assert.Contains(t, pair.Variant, "*flexi.Task[flexi.Unit, error]")
	assert.Contains(t, pair.Variant, "return flexi.Unit{}, Flush()")
}

func TestSynthesizeRejectsBasicErrorType(t *testing.T) {
	_, err := NewSynthesizer().Synthesize(extractOne(t, `package demo

//flexi::variant -ErrorType=int
func Work() int {
	return 1
}
`))

	require.Error(t, err)
	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.ConversionErrorCode, flexiErr.ErrorCode())
	assert.Contains(t, err.Error(), "IncompatibleErrorConversion")
}

func TestSynthesizeRejectsCompositeErrorType(t *testing.T) {
	_, err := NewSynthesizer().Synthesize(extractOne(t, `package demo

//flexi::variant -ErrorType=[]string
func Work() int {
	return 1
}
`))

	require.Error(t, err)
	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.ConversionErrorCode, flexiErr.ErrorCode())
}

func TestSynthesizeSyncBlockWithValue(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::block -Mode=sync
func Parse(raw string) int {
	return len(raw)
}
`)

	assert.Equal(t, "ParseChecked", pair.VariantName)
	assert.Contains(t, pair.Variant, "func ParseChecked(raw string) (int, error) {")
	assert.Contains(t, pair.Variant, "return flexi.Call(func() (int, error) {")
	assert.Contains(t, pair.Variant, "return Parse(raw), nil")
	assert.NotContains(t, pair.Variant, "Task")
}

func TestSynthesizeSyncBlockWithoutValue(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::block -Mode=sync
func Commit() {
}
`)

	assert.Contains(t, pair.Variant, "func CommitChecked() error {")
	assert.Contains(t, pair.Variant, "_, err := flexi.Call(func() (flexi.Unit, error) {")
	assert.Contains(t, pair.Variant, "return err")
}

func TestSynthesizeSyncBlockWithConvertedError(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type IOError struct{ msg string }

func (e *IOError) Error() string { return e.msg }

//flexi::block -Mode=sync -ErrorType=*IOError
func Write(data []byte) int {
	return len(data)
}
`)

	assert.Contains(t, pair.Variant, "func WriteChecked(data []byte) (int, *IOError) {")
	assert.Contains(t, pair.Variant, "value, err := flexi.Call(")
	assert.Contains(t, pair.Variant, "return value, flexi.ConvertAs[*IOError](err)")
	assert.Contains(t, pair.Variant, "return value, nil")
}

func TestSynthesizeSyncBlockReusesConcreteArms(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type IOError struct{ msg string }

func (e *IOError) Error() string { return e.msg }

//flexi::block -Mode=sync
func Write(data []byte) (int, *IOError) {
	return len(data), nil
}
`)

	assert.Contains(t, pair.Variant, "func WriteChecked(data []byte) (int, *IOError) {")
	assert.Contains(t, pair.Variant, "return Write(data)")
	assert.NotContains(t, pair.Variant, "flexi.")
	assert.NotContains(t, pair.Imports, RuntimeImport)
}

func TestSynthesizeAsyncBlock(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::block -Mode=async
func Crawl(url string) string {
	return url
}
`)

	assert.Equal(t, "CrawlAsync", pair.VariantName)
	assert.Contains(t, pair.Variant, "*flexi.Task[string, error]")
}

func TestSynthesizeMethodForwardsReceiver(t *testing.T) {
	pair := synthesizeOne(t, `package demo

type Store struct{}

//flexi::variant
func (s *Store) Get(key string) string {
	return key
}
`)

	assert.Contains(t, pair.Variant, "func (s *Store) GetAsync(key string) *flexi.Task[string, error] {")
	assert.Contains(t, pair.Variant, "return s.Get(key), nil")
}

func TestSynthesizeVariadicForwarding(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Sum(base int, xs ...int) int {
	return base
}
`)

	assert.Contains(t, pair.Variant, "func SumAsync(base int, xs ...int)")
	assert.Contains(t, pair.Variant, "return Sum(base, xs...), nil")
}

func TestSynthesizeGenericFunction(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func First[T any](items []T) T {
	return items[0]
}
`)

	assert.Contains(t, pair.Variant, "func FirstAsync[T any](items []T) *flexi.Task[T, error] {")
	assert.Contains(t, pair.Variant, "return First(items), nil")
}

func TestSynthesizeUnnamedParamsGetPlaceholders(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Mix(int, string) int {
	return 0
}
`)

	assert.Contains(t, pair.Variant, "func MixAsync(arg0 int, arg1 string)")
	assert.Contains(t, pair.Variant, "return Mix(arg0, arg1), nil")
}

func TestSynthesizeReplicatesDirectives(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//go:noinline
//flexi::variant
func Hot(n int) int {
	return n
}
`)

	assert.Contains(t, pair.Variant, "//go:noinline\nfunc HotAsync")
}

func TestSynthesizeCollectsForwardedImports(t *testing.T) {
	pair := synthesizeOne(t, `package demo

import "time"

//flexi::variant
func Wait(d time.Duration) time.Duration {
	return d
}
`)

	assert.Contains(t, pair.Imports, RuntimeImport)
	assert.Contains(t, pair.Imports, "time")
}

func TestSynthesizeRejectsUnresolvableTypePackage(t *testing.T) {
	// The annotation names a package the source file never imports.
	_, err := NewSynthesizer().Synthesize(extractOne(t, `package demo

//flexi::variant -ErrorType=*apperrors.Fault
func Work() int {
	return 1
}
`))

	require.Error(t, err)
	flexiErr, ok := err.(errors.FlexiError)
	require.True(t, ok)
	assert.Equal(t, errors.ConversionErrorCode, flexiErr.ErrorCode())
}

func TestSynthesizeVariantIsSingleDeclaration(t *testing.T) {
	pair := synthesizeOne(t, `package demo

//flexi::variant
func Tick() int {
	return 1
}
`)

	assert.True(t, strings.HasPrefix(pair.Variant, "// TickAsync "))
	assert.Equal(t, 1, strings.Count(pair.Variant, "\nfunc "))
	assert.True(t, strings.HasSuffix(pair.Variant, "}\n"))
}
