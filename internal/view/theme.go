package view

// Palette shared by every screen. Values are lipgloss color strings.
const (
	ColorText    = "#cdd6f4"
	ColorMuted   = "#a6adc8"
	ColorBorder  = "#585b70"
	ColorBase    = "#1e1e2e"
	ColorAccent  = "#89b4fa"
	ColorSuccess = "#a6e3a1"
	ColorWarn    = "#f9e2af"
	ColorError   = "#f38ba8"
	ColorSurface = "#313244"
)
