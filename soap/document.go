package soap

import (
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

// Node is one element of a parsed response document. Namespaces are
// dropped: the backend is inconsistent about prefixes, so callers look
// elements up by local name only.
type Node struct {
	Name     string
	Text     string
	Children []*Node
}

func parseDocument(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)

	var root *Node
	var stack []*Node
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
		case xml.CharData:
			if len(stack) > 0 {
				stack[len(stack)-1].Text += string(t)
			}
		case xml.EndElement:
			if len(stack) == 0 {
				return nil, errors.New("unbalanced end element")
			}
			stack[len(stack)-1].Text = strings.TrimSpace(stack[len(stack)-1].Text)
			stack = stack[:len(stack)-1]
		}
	}

	if root == nil {
		return nil, errors.New("empty document")
	}
	return root, nil
}

// Find returns the first element with the given local name, depth-first,
// including the receiver itself. Nil when absent.
func (n *Node) Find(name string) *Node {
	if n == nil {
		return nil
	}
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindText returns the text content of the first element with the given
// local name. The second return reports presence.
func (n *Node) FindText(name string) (string, bool) {
	found := n.Find(name)
	if found == nil {
		return "", false
	}
	return found.Text, true
}

// FindAll collects every element with the given local name, depth-first.
func (n *Node) FindAll(name string) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	if n.Name == name {
		out = append(out, n)
	}
	for _, c := range n.Children {
		out = append(out, c.FindAll(name)...)
	}
	return out
}
