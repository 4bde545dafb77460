package convert

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PlainText strips markup from a description. Descriptions from DataCite
// and Zenodo often contain HTML paragraphs and links.
func PlainText(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(whitespace.ReplaceAllString(s, " "))
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div, li").Each(func(_ int, sel *goquery.Selection) {
		sel.AppendHtml(" ")
	})
	return strings.TrimSpace(whitespace.ReplaceAllString(doc.Text(), " "))
}

// LastFirst rewrites "First Last" to "Last, First". Other names, e.g. with
// a comma or more than two words, are returned unchanged.
func LastFirst(name string) string {
	words := strings.Fields(name)
	if len(words) != 2 || strings.Contains(name, ",") {
		return name
	}
	return words[1] + ", " + words[0]
}
