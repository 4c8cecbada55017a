package jobsource

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanDescription strips markup from a job description. Boards frequently
// return HTML fragments; the extractor and the similarity function both want
// plain text. Input without markup passes through unchanged apart from
// whitespace normalization.
func CleanDescription(raw string) string {
	if !strings.Contains(raw, "<") {
		return normalizeWhitespace(raw)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		return normalizeWhitespace(raw)
	}

	doc.Find("script, style, noscript").Remove()

	// Keep block boundaries as newlines so list items stay separated.
	doc.Find("br, li, p, div, h1, h2, h3, h4").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return normalizeWhitespace(doc.Text())
}

func normalizeWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	var cleaned []string
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}
