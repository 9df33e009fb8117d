package dom

import (
	"github.com/go-rod/rod"
)

// FromPage wraps a live page as a queryable Root.
func FromPage(page *rod.Page) Root {
	return pageRoot{page: page}
}

// FromElement wraps a live element.
func FromElement(el *rod.Element) Element {
	return rodElement{el: el}
}

type pageRoot struct {
	page *rod.Page
}

func (r pageRoot) QueryAll(selector string) ([]Element, error) {
	els, err := r.page.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapRodElements(els), nil
}

type rodElement struct {
	el *rod.Element
}

func (e rodElement) QueryAll(selector string) ([]Element, error) {
	els, err := e.el.Elements(selector)
	if err != nil {
		return nil, err
	}
	return wrapRodElements(els), nil
}

// Text reads textContent rather than innerText so hidden fragments and
// inline script bodies surface the same way on live and static documents.
func (e rodElement) Text() (string, error) {
	res, err := e.el.Eval(`() => this.textContent || ""`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func (e rodElement) Attribute(name string) (string, error) {
	v, err := e.el.Attribute(name)
	if err != nil {
		return "", err
	}
	if v == nil {
		return "", nil
	}
	return *v, nil
}

func (e rodElement) Visible() (bool, error) {
	return e.el.Visible()
}

func (e rodElement) Parent() (Element, error) {
	p, err := e.el.Parent()
	if err != nil {
		// Reaching past <html> yields an error from the browser; treat
		// it as the top of the walk.
		return nil, nil
	}
	if p == nil {
		return nil, nil
	}
	return rodElement{el: p}, nil
}

func (e rodElement) Tag() (string, error) {
	res, err := e.el.Eval(`() => this.tagName.toLowerCase()`)
	if err != nil {
		return "", err
	}
	return res.Value.Str(), nil
}

func wrapRodElements(els rod.Elements) []Element {
	out := make([]Element, 0, len(els))
	for _, el := range els {
		out = append(out, rodElement{el: el})
	}
	return out
}
