package content

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/mattn/go-runewidth"

	"github.com/kraitsura/termfolio/pkg/model"
)

// Span is a clickable run of cells inside rendered lines.
type Span struct {
	Line  int
	Col   int // Cell offset from the start of the line
	Width int
	Ref   int
}

var backRefPattern = regexp.MustCompile(`^\[(\d+)\]`)

// FindMarkers locates inline citation markers.
func FindMarkers(lines []string) []Span {
	var spans []Span
	for i, line := range lines {
		for _, m := range model.MarkerPattern.FindAllStringSubmatchIndex(line, -1) {
			n, err := strconv.Atoi(line[m[2]:m[3]])
			if err != nil {
				continue
			}
			spans = append(spans, Span{
				Line:  i,
				Col:   runewidth.StringWidth(line[:m[0]]),
				Width: runewidth.StringWidth(line[m[0]:m[1]]),
				Ref:   n,
			})
		}
	}
	return spans
}

// FindBackRefs locates the back-references that open each entry of a
// references list.
func FindBackRefs(lines []string) []Span {
	var spans []Span
	for i, line := range lines {
		m := backRefPattern.FindStringSubmatchIndex(line)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(line[m[2]:m[3]])
		if err != nil {
			continue
		}
		spans = append(spans, Span{Line: i, Col: 0, Width: m[1] - m[0], Ref: n})
	}
	return spans
}

// Find returns the first span for citation n.
func Find(spans []Span, n int) (Span, bool) {
	for _, s := range spans {
		if s.Ref == n {
			return s, true
		}
	}
	return Span{}, false
}

// FindText locates whole-word occurrences of text. Spans carry no citation
// number.
func FindText(lines []string, text string) []Span {
	if text == "" {
		return nil
	}
	width := runewidth.StringWidth(text)
	var spans []Span
	for i, line := range lines {
		for from := 0; ; {
			j := strings.Index(line[from:], text)
			if j < 0 {
				break
			}
			start, end := from+j, from+j+len(text)
			if wordEdges(line, start, end) {
				spans = append(spans, Span{Line: i, Col: runewidth.StringWidth(line[:start]), Width: width})
			}
			from = end
		}
	}
	return spans
}

func wordEdges(line string, start, end int) bool {
	if r, _ := utf8.DecodeLastRuneInString(line[:start]); start > 0 && isWordRune(r) {
		return false
	}
	if r, _ := utf8.DecodeRuneInString(line[end:]); end < len(line) && isWordRune(r) {
		return false
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}
