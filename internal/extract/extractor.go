// Package extract pulls a passage and its attribution out of a text page.
//
// Pages normally follow a heading-then-two-paragraphs layout: an <h1> reading
// "Text #<n>", a <p> holding the passage, and a <p> holding its source. When
// that layout is missing the extractor falls back to the first long paragraph.
package extract

import (
	"bytes"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

// HeadingPattern matches the page heading that precedes the passage.
var HeadingPattern = regexp.MustCompile(`Text #\d+`)

const (
	// FallbackMinLength is exclusive: a paragraph must be longer than this.
	FallbackMinLength = 100
	// FallbackSkipPrefix marks navigation paragraphs ("View all texts", ...).
	FallbackSkipPrefix = "View"
)

// Extractor implements scraper.Extractor using goquery.
type Extractor struct {
	logger *zap.Logger
}

// New builds an Extractor.
func New(logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{logger: logger}
}

// Extract applies the heading rule and, when it finds nothing, the long
// paragraph fallback.
func (x *Extractor) Extract(html []byte) (scraper.Extraction, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		x.logger.Debug("Failed to parse html", zap.Error(err))
		return scraper.Extraction{}, false
	}
	if ext, ok := Primary(doc); ok {
		return ext, true
	}
	return Fallback(doc)
}

// Primary locates the first <h1> matching HeadingPattern and takes the next
// two <p> elements in document order as text and attribution. Both must exist.
func Primary(doc *goquery.Document) (scraper.Extraction, bool) {
	var (
		found bool
		texts []string
	)
	doc.Find("h1, p").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if !found {
			if goquery.NodeName(s) == "h1" && HeadingPattern.MatchString(cleanText(s)) {
				found = true
			}
			return true
		}
		if goquery.NodeName(s) == "p" {
			texts = append(texts, cleanText(s))
		}
		return len(texts) < 2
	})
	if len(texts) < 2 {
		return scraper.Extraction{}, false
	}
	return scraper.Extraction{Text: texts[0], Attribution: texts[1], Rule: scraper.RulePrimary}, true
}

// Fallback picks the first paragraph longer than FallbackMinLength runes that
// does not start with FallbackSkipPrefix. The paragraph after it, if any, is the
// attribution.
func Fallback(doc *goquery.Document) (scraper.Extraction, bool) {
	paragraphs := doc.Find("p")
	for i := 0; i < paragraphs.Length(); i++ {
		text := cleanText(paragraphs.Eq(i))
		if utf8.RuneCountInString(text) <= FallbackMinLength || strings.HasPrefix(text, FallbackSkipPrefix) {
			continue
		}
		attribution := ""
		if i+1 < paragraphs.Length() {
			attribution = cleanText(paragraphs.Eq(i + 1))
		}
		return scraper.Extraction{Text: text, Attribution: attribution, Rule: scraper.RuleFallback}, true
	}
	return scraper.Extraction{}, false
}

func cleanText(s *goquery.Selection) string {
	return strings.TrimSpace(s.Text())
}
