package socs

import (
	"strings"

	"socsbot/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const (
	// ListSelector locates the competition dropdown, the target page's markup depends on it.
	ListSelector   = `select[name="cid"][id="cid"]`
	OptionSelector = "option"
)

// Extract returns the text of every option inside the competition dropdown in
// document order, duplicates included.
//
// found is false when the dropdown is not on the page (ex. the session cookie
// expired and a login page was served). A dropdown without options is found with
// an empty, non-nil list.
func Extract(document string) (items []string, found bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(document))
	if err != nil {
		return nil, false
	}

	dropdown := doc.Find(ListSelector).First()
	if dropdown.Length() == 0 {
		return nil, false
	}

	inner, err := dropdown.Html()
	if err != nil {
		return nil, false
	}

	// the inner markup is parsed on its own so only entries nested in the
	// dropdown are picked up
	fragment, err := goquery.NewDocumentFromReader(strings.NewReader(inner))
	if err != nil {
		return nil, false
	}

	items = []string{}
	for _, option := range fragment.Find(OptionSelector).Nodes {
		items = append(items, htmlutil.GetText(option))
	}
	return items, true
}
