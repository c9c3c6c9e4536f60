package common

// WrapcVersion is the current wrapc version as a string.
const WrapcVersion string = "0.1.0"

// UnitFileExt is the file extension for a unit manifest.
const UnitFileExt string = ".toml"

// Enumeration of the output formats of the compiler.
const (
	EmitSource = "source"
	EmitLLVM   = "llvm"
	EmitDump   = "dump"
)

// EmitFormats lists the valid output formats in the order they are displayed.
var EmitFormats = []string{EmitSource, EmitLLVM, EmitDump}

// DefaultOutputExt returns the default output file extension for a format.
func DefaultOutputExt(format string) string {
	switch format {
	case EmitLLVM:
		return ".ll"
	case EmitDump:
		return ".dump"
	default:
		return ".desugared"
	}
}
