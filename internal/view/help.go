package view

import "github.com/charmbracelet/bubbles/key"

var (
	helpKeyStyle  = Style{Foreground: ColorAccent, Bold: true}
	helpDescStyle = Style{Foreground: ColorMuted}
)

// Help lays out the help text of bindings on one line.
func Help(bindings ...key.Binding) Node {
	children := make([]Node, 0, 4*len(bindings))
	for _, b := range bindings {
		h := b.Help()
		if h.Key == "" && h.Desc == "" {
			continue
		}
		if len(children) > 0 {
			children = append(children, Text("  "))
		}
		children = append(children, StyledText(h.Key, helpKeyStyle), Text(" "), StyledText(h.Desc, helpDescStyle))
	}
	if len(children) == 0 {
		return StyledText("No shortcuts", helpDescStyle).WithKey("help")
	}
	return Row(Style{PadY: 1}, children...).WithKey("help")
}
