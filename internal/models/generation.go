package models

// AnnotatedFunction pairs one extracted signature with its resolved
// configuration; the synthesizer consumes these one at a time
type AnnotatedFunction struct {
	Signature FunctionSignature
	Config    VariantConfig
}

// GeneratedPair holds both halves of one transformation. Primary is the
// original declaration text untouched; Variant is the emitted counterpart.
type GeneratedPair struct {
	Primary     string   // byte-for-byte copy of the input declaration
	Variant     string   // generated declaration text
	VariantName string   // resolved name of the emitted function
	Imports     []string // import paths the variant's body requires
}

// PackageMetadata collects every annotated function found in one package
type PackageMetadata struct {
	PackageName string
	PackagePath string
	Functions   []AnnotatedFunction
}

// GeneratedFileName is the per-package output file name
const GeneratedFileName = "autogen_variants.go"

// GeneratedFile is the assembled per-package output ready to be written
type GeneratedFile struct {
	FilePath string // target path, e.g. <pkg>/autogen_variants.go
	Content  string // formatted Go source
}
