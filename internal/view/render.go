package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type overlay struct {
	pos  Position
	text string
}

// Render draws n on a width×height canvas. Anchored nodes are painted over
// the laid out tree in document order, relative to the whole canvas. With no
// canvas size the anchored nodes are appended below the tree.
func Render(n Node, width, height int) string {
	var overlays []overlay
	base := layout(n, &overlays)
	if width <= 0 || height <= 0 {
		parts := []string{base}
		for _, o := range overlays {
			parts = append(parts, o.text)
		}
		return strings.Join(parts, "\n")
	}
	cv := newCanvas(base, width, height)
	for _, o := range overlays {
		lines := strings.Split(o.text, "\n")
		x, y := place(o.pos, widest(lines), len(lines), width, height)
		cv.paint(o.text, x, y)
	}
	return cv.String()
}

func layout(n Node, overlays *[]overlay) string {
	var out string
	switch n.Kind {
	case KindText:
		out = n.Text
	case KindBox, KindRow:
		parts := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			if c.Style.Position != Flow {
				*overlays = append(*overlays, overlay{pos: c.Style.Position, text: layout(c, overlays)})
				continue
			}
			parts = append(parts, layout(c, overlays))
		}
		if n.Kind == KindRow {
			out = lipgloss.JoinHorizontal(lipgloss.Top, parts...)
		} else {
			out = lipgloss.JoinVertical(lipgloss.Left, parts...)
		}
	}
	return lipglossStyle(n.Style).Render(out)
}

func lipglossStyle(st Style) lipgloss.Style {
	s := lipgloss.NewStyle().
		Bold(st.Bold).
		Faint(st.Faint).
		Italic(st.Italic).
		Padding(st.PadY, st.PadX)
	if st.Foreground != "" {
		s = s.Foreground(lipgloss.Color(st.Foreground))
	}
	if st.Background != "" {
		s = s.Background(lipgloss.Color(st.Background))
	}
	if st.Border {
		s = s.Border(lipgloss.RoundedBorder())
	}
	if st.Width > 0 {
		s = s.Width(st.Width)
	}
	return s
}
