// Package view describes screens as declarative node trees and renders them
// to terminal strings.
package view

import "github.com/jask/mmmmm/internal/nav"

type Kind string

const (
	KindText Kind = "text"
	KindBox  Kind = "box"
	KindRow  Kind = "row"
)

// Position anchors a node. Flow nodes are laid out by their parent; every
// other position paints the node over the finished screen.
type Position int

const (
	Flow Position = iota
	TopLeft
	TopRight
	BottomLeft
	BottomRight
)

type Style struct {
	Bold       bool
	Faint      bool
	Italic     bool
	Foreground string
	Background string
	Border     bool
	PadX       int
	PadY       int
	Width      int
	Position   Position
}

// Node is one element of a view tree. Trees are values; nothing keeps a
// reference to a node after it has been rendered.
type Node struct {
	Kind     Kind
	Key      string
	Text     string
	Style    Style
	Children []Node
}

// VNode pairs a tree with the screen it belongs to.
type VNode struct {
	Screen nav.ScreenID
	Tree   Node
}

func Text(s string) Node {
	return Node{Kind: KindText, Text: s}
}

func StyledText(s string, st Style) Node {
	return Node{Kind: KindText, Text: s, Style: st}
}

func Box(st Style, children ...Node) Node {
	return Node{Kind: KindBox, Style: st, Children: children}
}

func Row(st Style, children ...Node) Node {
	return Node{Kind: KindRow, Style: st, Children: children}
}

// WithKey returns n tagged with key.
func (n Node) WithKey(key string) Node {
	n.Key = key
	return n
}

// Walk visits n and its descendants depth first.
func (n Node) Walk(visit func(Node)) {
	visit(n)
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// CountKey returns how many nodes in the tree carry key.
func (n Node) CountKey(key string) int {
	count := 0
	n.Walk(func(x Node) {
		if x.Key == key {
			count++
		}
	})
	return count
}
