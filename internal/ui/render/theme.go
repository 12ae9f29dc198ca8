package render

// ANSI codes for plain output on a terminal.
const (
	Reset  = "\x1b[0m"
	Yellow = "\x1b[0;33m"
	Cyan   = "\x1b[0;36m"
	Bold   = "\x1b[1m"
	Dim    = "\x1b[2m"
)

// Theme holds the escape codes used by the plain renderers. The zero Theme
// prints no escapes.
type Theme struct {
	Reset, Bold, Dim, Accent, Aggregate string
}

// ANSI returns the terminal theme.
func ANSI() Theme {
	return Theme{Reset: Reset, Bold: Bold, Dim: Dim, Accent: Cyan, Aggregate: Yellow}
}

// NoColor returns the theme for pipes and files.
func NoColor() Theme { return Theme{} }
