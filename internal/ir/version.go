package ir

// Version constants for the journal format and the tool.
const (
	// FormatVersion is the journal record format version.
	FormatVersion = "1"

	// ToolVersion is the fallible tool version.
	ToolVersion = "0.1.0"
)
