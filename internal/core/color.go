package core

// Color represents a foreground color for a screen cell.
// Uses ANSI 256-color codes for terminal compatibility.
type Color uint8

// Base colors.
const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
	ColorOrange
	ColorGray
	ColorDarkGray
)

// Theme assigns colors to the things a grid view draws.
type Theme struct {
	Floor    Color
	Wall     Color
	Marked   Color // special tiles: neither floor nor wall
	Visited  Color
	Frontier Color
	Path     Color
	Start    Color
	Target   Color
	Cursor   Color
	Agent    Color
	Selected Color
	Stuck    Color
	Text     Color
	Dim      Color
}

// DefaultTheme returns the standard palette.
func DefaultTheme() Theme {
	return Theme{
		Floor:    ColorDarkGray,
		Wall:     ColorGray,
		Marked:   ColorMagenta,
		Visited:  ColorBlue,
		Frontier: ColorBrightCyan,
		Path:     ColorBrightYellow,
		Start:    ColorBrightGreen,
		Target:   ColorBrightRed,
		Cursor:   ColorBrightWhite,
		Agent:    ColorGreen,
		Selected: ColorBrightGreen,
		Stuck:    ColorOrange,
		Text:     ColorWhite,
		Dim:      ColorGray,
	}
}
