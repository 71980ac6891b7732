package render

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// attr is one attribute of an element built with el.
type attr struct {
	key, val string
}

// el builds an element node. Text passed through text() is escaped on render.
func el(tag atom.Atom, attrs []attr, children ...*html.Node) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		DataAtom: tag,
		Data:     tag.String(),
	}
	for _, a := range attrs {
		n.Attr = append(n.Attr, html.Attribute{Key: a.key, Val: a.val})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func class(name string) []attr {
	return []attr{{"class", name}}
}

// labeled is the <div class="course-detail"><strong>label:</strong> value</div> row.
func labeled(label, value string) *html.Node {
	return el(atom.Div, class("course-detail"),
		el(atom.Strong, nil, text(label+":")),
		text(" "+value),
	)
}
