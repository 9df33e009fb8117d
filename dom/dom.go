// Package dom abstracts DOM access behind a small capability interface so
// the extraction pipeline runs unchanged against a live browser page or a
// parsed HTML document.
package dom

// Root is anything that can be queried for elements: a document or an
// element scoping the query to its subtree.
type Root interface {
	// QueryAll returns all descendants matching the CSS selector, in
	// document order. A selector that matches nothing returns an empty
	// slice, not an error.
	QueryAll(selector string) ([]Element, error)
}

// Element is one DOM element. Implementations wrap either a live browser
// element or a static parse-tree node.
type Element interface {
	Root

	// Text returns the element's full text content, scripts included.
	Text() (string, error)

	// Attribute returns the attribute value, or "" when absent.
	Attribute(name string) (string, error)

	// Visible reports whether the element is rendered visible. Static
	// documents use markup heuristics (hidden, display:none).
	Visible() (bool, error)

	// Parent returns the parent element, or nil at the tree root.
	Parent() (Element, error)

	// Tag returns the lower-case tag name.
	Tag() (string, error)
}
