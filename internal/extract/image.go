package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Image resolves the product image URL, or "" when neither structured
// data nor the OpenGraph tag yields a usable one. Structured data wins.
func Image(doc *goquery.Document, sd structuredData, sourceURL string) string {
	for _, raw := range sd.images {
		if img := CleanImageURL(raw, sourceURL); img != "" {
			return img
		}
	}

	og, _ := doc.Find(`meta[property="og:image"]`).Attr("content")
	return CleanImageURL(og, sourceURL)
}

// CleanImageURL normalizes a raw image reference against the page URL:
// protocol-relative URLs get https, relative paths resolve against the
// page, and plain http upgrades to https. Values that end up empty or
// without a host are rejected as "".
func CleanImageURL(raw, pageURL string) string {
	img := strings.TrimSpace(raw)
	if img == "" {
		return ""
	}

	if strings.HasPrefix(img, "//") {
		img = "https:" + img
	}
	if !strings.HasPrefix(img, "http") {
		base, err := url.Parse(pageURL)
		if err != nil {
			return ""
		}
		ref, err := url.Parse(img)
		if err != nil {
			return ""
		}
		img = base.ResolveReference(ref).String()
	}
	if strings.HasPrefix(img, "http://") {
		img = "https://" + strings.TrimPrefix(img, "http://")
	}

	parsed, err := url.Parse(img)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return img
}
