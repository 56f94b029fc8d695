package extract

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/text-scraper/internal/scraper"
)

func page(body string) []byte {
	return []byte("<!DOCTYPE html><html><head><title>t</title></head><body>" + body + "</body></html>")
}

func longText(prefix string, n int) string {
	return prefix + strings.Repeat("a", n-len(prefix))
}

func TestExtractPrimary(t *testing.T) {
	t.Parallel()

	x := New(nil)
	got, ok := x.Extract(page(`<h1>Text #3640650</h1><p>  Hello world  </p><p>— Someone</p><p>ignored</p>`))
	require.True(t, ok)
	require.Equal(t, scraper.Extraction{Text: "Hello world", Attribution: "— Someone", Rule: scraper.RulePrimary}, got)
}

func TestExtractPrimaryHeadingIDNotCrossChecked(t *testing.T) {
	t.Parallel()

	got, ok := New(nil).Extract(page(`<h1>Text #1</h1><p>passage</p><p>source</p>`))
	require.True(t, ok)
	require.Equal(t, "passage", got.Text)
	require.Equal(t, "source", got.Attribution)
}

func TestExtractPrimaryFollowsDocumentOrder(t *testing.T) {
	t.Parallel()

	html := page(`<div><h1>Text #42</h1></div><section><div><p>nested passage</p></div></section><p>source</p>`)
	got, ok := New(nil).Extract(html)
	require.True(t, ok)
	require.Equal(t, scraper.RulePrimary, got.Rule)
	require.Equal(t, "nested passage", got.Text)
	require.Equal(t, "source", got.Attribution)
}

func TestExtractPrimaryAcceptsEmptyAttribution(t *testing.T) {
	t.Parallel()

	got, ok := New(nil).Extract(page(`<h1>Text #7</h1><p>short passage</p><p></p>`))
	require.True(t, ok)
	require.Equal(t, scraper.Extraction{Text: "short passage", Attribution: "", Rule: scraper.RulePrimary}, got)
}

func TestExtractPrimaryWinsOverFallback(t *testing.T) {
	t.Parallel()

	long := longText("The ", 150)
	html := page(`<p>` + long + `</p><p>— Long Author</p><h1>Text #9</h1><p>short passage</p><p>— Short Author</p>`)

	doc := mustDoc(t, html)
	primary, ok := Primary(doc)
	require.True(t, ok)

	got, ok := New(nil).Extract(html)
	require.True(t, ok)
	require.Equal(t, primary, got)
	require.Equal(t, scraper.Extraction{Text: "short passage", Attribution: "— Short Author", Rule: scraper.RulePrimary}, got)
}

func TestExtractFallsBackWhenAttributionMissing(t *testing.T) {
	t.Parallel()

	long := longText("The ", 150)
	got, ok := New(nil).Extract(page(`<h1>Text #9</h1><p>` + long + `</p>`))
	require.True(t, ok)
	require.Equal(t, scraper.Extraction{Text: long, Attribution: "", Rule: scraper.RuleFallback}, got)
}

func TestExtractFallbackActivation(t *testing.T) {
	t.Parallel()

	long := longText("The", 150)
	require.Len(t, long, 150)

	got, ok := New(nil).Extract(page(`<h2>Something else</h2><p>` + long + `</p><p>— Author</p>`))
	require.True(t, ok)
	require.Equal(t, long, got.Text)
	require.Equal(t, "— Author", got.Attribution)
	require.Equal(t, scraper.RuleFallback, got.Rule)
}

func TestExtractNonMatchingHeadingUsesFallback(t *testing.T) {
	t.Parallel()

	long := longText("The ", 120)
	got, ok := New(nil).Extract(page(`<h1>Text #abc</h1><p>short</p><p>` + long + `</p><p>src</p>`))
	require.True(t, ok)
	require.Equal(t, scraper.Extraction{Text: long, Attribution: "src", Rule: scraper.RuleFallback}, got)
}

func TestExtractNoResult(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		html []byte
	}{
		{"empty document", []byte("")},
		{"no heading and only short paragraphs", page(`<h2>About</h2><p>short</p><p>` + longText("x", 100) + `</p>`)},
		{"only long paragraph starts with View", page(`<p>` + longText("View", 200) + `</p><p>— Author</p>`)},
		{"heading without paragraphs", page(`<h1>Text #5</h1><div>no paragraphs here</div>`)},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, ok := New(nil).Extract(tc.html)
			require.False(t, ok)
		})
	}
}

func TestFallbackSkipsViewPrefix(t *testing.T) {
	t.Parallel()

	view := longText("View", 200)
	long := longText("The ", 101)
	got, ok := Fallback(mustDoc(t, page(`<p>`+view+`</p><p>`+long+`</p><p>— Author</p>`)))
	require.True(t, ok)
	require.Equal(t, long, got.Text)
	require.Equal(t, "— Author", got.Attribution)
}

func TestFallbackLengthCountsRunes(t *testing.T) {
	t.Parallel()

	// 60 two-byte runes: 120 bytes but only 60 characters.
	short := strings.Repeat("é", 60)
	_, ok := Fallback(mustDoc(t, page(`<p>`+short+`</p>`)))
	require.False(t, ok)

	long := strings.Repeat("é", 101)
	got, ok := Fallback(mustDoc(t, page(`<p>`+long+`</p>`)))
	require.True(t, ok)
	require.Equal(t, long, got.Text)
}
