// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package markup holds a minimal mixed-content tree and flattens it to
// plain text. PubMed titles and abstracts interleave text with inline
// formatting elements (<i>, <b>, <sup>, ...); the tree keeps each piece of
// text where it occurs so the flattened output reads the way the rendered
// markup does.
package markup

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Node is an element with its leading text, ordered children, and the
// trailing text that follows the element's closing tag inside its parent.
type Node struct {
	Name     string
	Text     string
	Children []*Node
	Tail     string
}

// Flatten concatenates the node's text, then each child's flattened text
// followed by that child's tail, in document order. Every element's own
// result is trimmed of surrounding whitespace before its tail is appended,
// and the returned string is trimmed. A nil node yields "".
//
// The walk keeps its own stack, so nesting depth is bounded by memory only.
func Flatten(n *Node) string {
	if n == nil {
		return ""
	}

	type frame struct {
		node *Node
		next int
		buf  strings.Builder
	}

	root := &frame{node: n}
	root.buf.WriteString(n.Text)
	stack := []*frame{root}

	for {
		top := stack[len(stack)-1]
		if top.next < len(top.node.Children) {
			child := top.node.Children[top.next]
			top.next++
			if child == nil {
				continue
			}
			f := &frame{node: child}
			f.buf.WriteString(child.Text)
			stack = append(stack, f)
			continue
		}

		text := strings.TrimSpace(top.buf.String())
		stack = stack[:len(stack)-1]
		if len(stack) == 0 {
			return text
		}
		parent := stack[len(stack)-1]
		parent.buf.WriteString(text)
		parent.buf.WriteString(top.node.Tail)
	}
}

// UnmarshalXML builds the subtree rooted at start. Character data before
// the first child becomes Text; character data after a child's end tag
// becomes that child's Tail. Comments and processing instructions are
// dropped.
func (n *Node) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	*n = Node{Name: start.Name.Local}
	stack := []*Node{n}

	for len(stack) > 0 {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("unexpected end of input inside <%s>", stack[len(stack)-1].Name)
			}
			return err
		}

		cur := stack[len(stack)-1]
		switch t := tok.(type) {
		case xml.CharData:
			if len(cur.Children) == 0 {
				cur.Text += string(t)
			} else {
				last := cur.Children[len(cur.Children)-1]
				last.Tail += string(t)
			}
		case xml.StartElement:
			child := &Node{Name: t.Name.Local}
			cur.Children = append(cur.Children, child)
			stack = append(stack, child)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	return nil
}

// Parse reads the first element of r and returns it as a tree.
func Parse(r io.Reader) (*Node, error) {
	d := xml.NewDecoder(r)
	d.Entity = xml.HTMLEntity
	for {
		tok, err := d.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("no element found")
			}
			return nil, fmt.Errorf("parsing markup: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			n := &Node{}
			if err := n.UnmarshalXML(d, start); err != nil {
				return nil, fmt.Errorf("parsing markup: %w", err)
			}
			return n, nil
		}
	}
}

// ParseString is Parse over a string.
func ParseString(s string) (*Node, error) {
	return Parse(strings.NewReader(s))
}
