// Package htmlutil holds helpers for turning scraped markup into display text.
package htmlutil

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
)

// GetText returns the text content of node, the data of every text node below it
// joined in document order without any normalization.
func GetText(node *html.Node) string {
	if node == nil {
		return ""
	}

	var out strings.Builder
	stack := []*html.Node{node}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if current.Type == html.TextNode {
			out.WriteString(current.Data)
			continue
		}
		for child := current.LastChild; child != nil; child = child.PrevSibling {
			stack = append(stack, child)
		}
	}
	return out.String()
}

func dropNonPrintable(r rune) rune {
	if unicode.IsPrint(r) || unicode.IsSpace(r) {
		return r
	}
	return -1
}

// CleanText drops control characters and collapses every run of whitespace into a
// single space, trimming both ends.
func CleanText(s string) string {
	return strings.Join(strings.Fields(strings.Map(dropNonPrintable, s)), " ")
}
