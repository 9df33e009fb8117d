package dom

import (
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Parse builds a static Root from an HTML stream. Used by HTTP engines and
// by tests running the pipeline against fixtures.
func Parse(r io.Reader) (Root, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, err
	}
	return htmlNode{n: doc}, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(s string) (Root, error) {
	return Parse(strings.NewReader(s))
}

type htmlNode struct {
	n *html.Node
}

func (h htmlNode) QueryAll(selector string) ([]Element, error) {
	sel, err := cascadia.Parse(selector)
	if err != nil {
		return nil, err
	}
	matches := cascadia.QueryAll(h.n, sel)
	out := make([]Element, 0, len(matches))
	for _, m := range matches {
		out = append(out, htmlNode{n: m})
	}
	return out, nil
}

// Text mirrors DOM textContent: every text node in the subtree, scripts and
// hidden nodes included.
func (h htmlNode) Text() (string, error) {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			sb.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(h.n)
	return sb.String(), nil
}

func (h htmlNode) Attribute(name string) (string, error) {
	for _, a := range h.n.Attr {
		if a.Key == name {
			return a.Val, nil
		}
	}
	return "", nil
}

// Visible applies markup heuristics; a static document has no layout, so
// anything not explicitly hidden counts as visible.
func (h htmlNode) Visible() (bool, error) {
	for _, a := range h.n.Attr {
		switch a.Key {
		case "hidden":
			return false, nil
		case "type":
			if strings.EqualFold(a.Val, "hidden") {
				return false, nil
			}
		case "aria-hidden":
			if strings.EqualFold(a.Val, "true") {
				return false, nil
			}
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return false, nil
			}
		}
	}
	return true, nil
}

func (h htmlNode) Parent() (Element, error) {
	for p := h.n.Parent; p != nil; p = p.Parent {
		if p.Type == html.ElementNode {
			return htmlNode{n: p}, nil
		}
	}
	return nil, nil
}

func (h htmlNode) Tag() (string, error) {
	if h.n.Type == html.ElementNode {
		return strings.ToLower(h.n.Data), nil
	}
	return "", nil
}
