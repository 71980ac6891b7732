package augment

import (
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// el builds an element with attributes given as key, value pairs. Text
// children made with text are escaped when the document is rendered.
func el(tag atom.Atom, kv []string, children ...*html.Node) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	for i := 0; i+1 < len(kv); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: kv[i], Val: kv[i+1]})
	}
	for _, c := range children {
		n.AppendChild(c)
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func attrs(kv ...string) []string {
	return kv
}
