package corpus

import (
	"strings"

	"golang.org/x/net/html"
)

// StripMarkup returns the visible text of an HTML fragment with entities
// decoded and whitespace collapsed. Script and style contents are dropped.
// Text without markup is returned with whitespace collapsed only.
func StripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.Join(strings.Fields(s), " ")
	}

	doc, err := html.Parse(strings.NewReader(s))
	if err != nil {
		return strings.Join(strings.Fields(s), " ")
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style") {
			return
		}
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
			b.WriteByte(' ')
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return strings.Join(strings.Fields(b.String()), " ")
}
