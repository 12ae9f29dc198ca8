// Package render formats forest data for plain terminal output.
package render

// -----------------------------------------------------------------------------
// Number Formatting
// -----------------------------------------------------------------------------

const (
	// ValueDigits is the number of decimals shown for metric values.
	ValueDigits = 3

	// SIThreshold is the magnitude above which values switch to SI prefixes,
	// e.g. 12.5k.
	SIThreshold = 1e4

	// SIDigits is the number of decimals shown with an SI prefix.
	SIDigits = 1
)

// -----------------------------------------------------------------------------
// Display Limits
// -----------------------------------------------------------------------------

const (
	// IndentWidth is the number of spaces per tree level in outlines.
	IndentWidth = 2

	// MaxLabelWidth truncates frame names in tables and outlines.
	MaxLabelWidth = 40
)

// -----------------------------------------------------------------------------
// Format Strings
// -----------------------------------------------------------------------------

const (
	// SectionHeaderFormat is the format for section titles.
	SectionHeaderFormat = "%s=== %s ===%s\n"
)
