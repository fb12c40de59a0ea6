// Package textutil holds small text helpers shared across the engine.
package textutil

import (
	"strings"

	"golang.org/x/net/html"
)

// LooksLikeHTML sniffs whether a document was exported as HTML rather
// than plain text (Legistar-style agenda exports).
func LooksLikeHTML(text string) bool {
	head := strings.ToLower(text)
	if len(head) > 512 {
		head = head[:512]
	}
	return strings.Contains(head, "<html") ||
		strings.Contains(head, "<!doctype html") ||
		strings.Contains(head, "<body")
}

// StripHTML extracts the visible text from an HTML document, skipping
// script/style content. Parse errors fall back to the raw input.
func StripHTML(content string) string {
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}

	var buf strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "iframe":
				return
			}
		}

		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}

		// Block elements separate agenda items; keep them on their own lines
		if n.Type == html.ElementNode {
			switch n.Data {
			case "p", "div", "li", "tr", "br", "h1", "h2", "h3", "h4":
				buf.WriteString("\n")
			}
		}
	}

	walk(doc)
	return strings.TrimSpace(buf.String())
}
