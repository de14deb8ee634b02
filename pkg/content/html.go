package content

import (
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	blockTags  = regexp.MustCompile(`(?i)</?(p|div|br|li|ul|ol|h[1-6]|tr|section|article|header|footer|pre|blockquote)[^>]*>`)
	dropBlocks = regexp.MustCompile(`(?is)<(script|style|head|noscript)[^>]*>.*?</(script|style|head|noscript)>`)
	titleTag   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	blankRuns  = regexp.MustCompile(`\n{3,}`)
	spaceRuns  = regexp.MustCompile(`[ \t]+`)
)

// policy strips every tag; block boundaries are turned into newlines first.
var policy = bluemonday.StrictPolicy()

// HTMLTitle returns the document title, if any.
func HTMLTitle(doc string) string {
	m := titleTag.FindStringSubmatch(doc)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(policy.Sanitize(m[1])))
}

// HTMLText reduces an HTML page to readable plain text.
func HTMLText(doc string) string {
	doc = dropBlocks.ReplaceAllString(doc, "")
	doc = blockTags.ReplaceAllString(doc, "\n")
	text := html.UnescapeString(policy.Sanitize(doc))

	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spaceRuns.ReplaceAllString(l, " "))
	}
	text = strings.Join(lines, "\n")
	return strings.TrimSpace(blankRuns.ReplaceAllString(text, "\n\n"))
}
