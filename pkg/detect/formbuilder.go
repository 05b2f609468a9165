package detect

import (
	"strings"

	"golang.org/x/net/html"
)

// Form-builder platforms whose fields carry generated class names instead of
// meaningful name/id attributes.
var formBuilderDomains = []string{
	"docs.google.com",
	"forms.gle",
}

func isFormBuilderDomain(domain string) bool {
	for _, d := range formBuilderDomains {
		if strings.Contains(domain, d) {
			return true
		}
	}
	return false
}

// maxLabelClimb bounds how far label recovery walks up the tree.
const maxLabelClimb = 10

// labelFromContainer recovers a field label by walking up to the nearest
// labeled question container and reading its heading text. Returns "" when
// no labeled container is found.
func labelFromContainer(n *html.Node) string {
	node := n.Parent
	for depth := 0; node != nil && depth < maxLabelClimb; depth++ {
		if isQuestionContainer(node) {
			if label := headingText(node); label != "" {
				return label
			}
		}
		node = node.Parent
	}
	return ""
}

func isQuestionContainer(n *html.Node) bool {
	if n.Type != html.ElementNode {
		return false
	}
	return getAttr(n, "role") == "listitem"
}

// headingText returns the text of the first heading element within the
// container, skipping the answer controls themselves.
func headingText(container *html.Node) string {
	var found string
	var search func(*html.Node)
	search = func(n *html.Node) {
		if found != "" {
			return
		}
		if n.Type == html.ElementNode {
			if getAttr(n, "role") == "heading" || n.Data == "h1" || n.Data == "h2" || n.Data == "h3" {
				found = strings.TrimSpace(visibleText(n))
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			search(c)
		}
	}
	search(container)
	return found
}
