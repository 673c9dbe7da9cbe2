package htmlutil

import (
	"strings"

	"golang.org/x/net/html"
)

// DOM helpers over x/net/html for the parsing strategies that need real
// document structure instead of regex scans.

// ParseDocument parses a full HTML document into a node tree.
func ParseDocument(doc string) (*html.Node, error) {
	return html.Parse(strings.NewReader(doc))
}

// AttrVal returns the value of the named attribute on an element node.
func AttrVal(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether an element's class list contains class.
func HasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(AttrVal(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// FindAllByClass collects element nodes carrying the given class, in
// document order.
func FindAllByClass(root *html.Node, class string) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && HasClass(n, class) {
			out = append(out, n)
		}
	})
	return out
}

// FindAllByTag collects element nodes with the given tag name.
func FindAllByTag(root *html.Node, tag string) []*html.Node {
	var out []*html.Node
	Walk(root, func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == tag {
			out = append(out, n)
		}
	})
	return out
}

// Walk visits root and every descendant, depth first.
func Walk(root *html.Node, visit func(*html.Node)) {
	if root == nil {
		return
	}
	visit(root)
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		Walk(c, visit)
	}
}

// NodeText collects the text content of a subtree, whitespace collapsed.
func NodeText(n *html.Node) string {
	var sb strings.Builder
	Walk(n, func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteString(" ")
		}
	})
	return CollapseWhitespace(sb.String())
}

// NodeAnchors collects every anchor under n as a Link.
func NodeAnchors(n *html.Node) []Link {
	var links []Link
	for _, a := range FindAllByTag(n, "a") {
		links = append(links, Link{Href: AttrVal(a, "href"), Text: NodeText(a)})
	}
	return links
}

// NextElementSibling skips text/comment nodes to the next element.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}
