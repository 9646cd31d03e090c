// Package rendered summarizes the HTML the runtime captured so reports can
// describe page structure without shipping the whole document.
package rendered

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Summary is a structural digest of a captured HTML document.
type Summary struct {
	Title            string   `json:"title,omitempty"`
	ElementCount     int      `json:"element_count"`
	HeadingOutline   []string `json:"heading_outline,omitempty"`
	LinkCount        int      `json:"link_count"`
	ImageCount       int      `json:"image_count"`
	ImagesMissingAlt int      `json:"images_missing_alt"`
	Landmarks        []string `json:"landmarks,omitempty"`
}

// landmarkSelectors are the structural elements screen readers navigate by.
var landmarkSelectors = []string{"header", "nav", "main", "aside", "footer"}

// Digest parses html and returns its structural summary. The input is
// whatever the browser serialized; a parse failure is an error, an empty
// document is not.
func Digest(html string) (*Summary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parsing rendered HTML: %w", err)
	}

	s := &Summary{
		Title:      strings.TrimSpace(doc.Find("title").First().Text()),
		LinkCount:  doc.Find("a[href]").Length(),
		ImageCount: doc.Find("img").Length(),
	}

	doc.Find("*").Each(func(_ int, _ *goquery.Selection) {
		s.ElementCount++
	})

	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			s.HeadingOutline = append(s.HeadingOutline, fmt.Sprintf("%s: %s", goquery.NodeName(sel), text))
		}
	})

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		if alt, ok := sel.Attr("alt"); !ok || strings.TrimSpace(alt) == "" {
			s.ImagesMissingAlt++
		}
	})

	for _, landmark := range landmarkSelectors {
		if doc.Find(landmark).Length() > 0 {
			s.Landmarks = append(s.Landmarks, landmark)
		}
	}

	return s, nil
}
