package extract

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// compareAtPattern matches styling-class vocabulary retailers use for
// crossed-out reference prices. Any candidate whose own class or any
// ancestor's class matches is disqualified.
var compareAtPattern = regexp.MustCompile(
	`(?i)compare[_\-]?at|was[_\-]?price|original[_\-]?price|price[_\-]?was` +
		`|price--compare|price__compare|crossed|strikethrough|line-through`,
)

// markupSelector pairs an element tag with a class-name pattern. The list
// runs from the most sale-specific naming to the most generic.
type markupSelector struct {
	tag   string
	class *regexp.Regexp
}

var priceSelectors = []markupSelector{
	{"span", regexp.MustCompile(`(?i)price__sale|sale[_\-]?price|current[_\-]?price|price--sale`)},
	{"div", regexp.MustCompile(`(?i)price__current|product__price|ProductPrice`)},
	{"span", regexp.MustCompile(`(?i)product-price|current-price`)},
}

var broadPricePattern = regexp.MustCompile(`(?i)price`)

// Price resolves the purchase price, or nil when no source yields a
// positive numeric value. Precedence: structured offer data, then named
// sale-price markup, then any price-ish span.
func Price(doc *goquery.Document, sd structuredData, sourceURL string) *float64 {
	if p := structuredPrice(sd, sourceURL); p != nil {
		return p
	}
	if p := markupPrice(doc); p != nil {
		return p
	}
	return broadFallbackPrice(doc)
}

func structuredPrice(sd structuredData, sourceURL string) *float64 {
	for _, o := range candidateOffers(sd.offers, sourceURL) {
		if p, ok := CleanPrice(o.PriceRaw); ok {
			return &p
		}
	}
	return nil
}

// markupPrice tries each selector in priority order. Only the first
// element matching a selector is considered; a compare-at hit moves on to
// the next selector rather than the next element, since sibling elements
// under the same naming usually share the same container.
func markupPrice(doc *goquery.Document) *float64 {
	for _, sel := range priceSelectors {
		el := firstWithClass(doc, sel.tag, sel.class)
		if el == nil {
			continue
		}
		if hasCompareAtAncestry(el) {
			continue
		}
		if p, ok := CleanPrice(el.Text()); ok {
			return &p
		}
	}
	return nil
}

// broadFallbackPrice accepts any span whose class loosely references
// "price", still refusing compare-at containers and anything rendered
// struck through.
func broadFallbackPrice(doc *goquery.Document) *float64 {
	var result *float64
	doc.Find("span").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		class, _ := s.Attr("class")
		if !broadPricePattern.MatchString(class) {
			return true
		}
		if compareAtPattern.MatchString(class) {
			return true
		}
		if s.Closest("s, del").Length() > 0 {
			return true
		}
		if p, ok := CleanPrice(s.Text()); ok {
			result = &p
			return false
		}
		return true
	})
	return result
}

// firstWithClass returns the first element of the given tag whose class
// attribute matches the pattern, or nil.
func firstWithClass(doc *goquery.Document, tag string, class *regexp.Regexp) *goquery.Selection {
	var found *goquery.Selection
	doc.Find(tag).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		attr, _ := s.Attr("class")
		if class.MatchString(attr) {
			found = s
			return false
		}
		return true
	})
	return found
}

// hasCompareAtAncestry reports whether the element or any ancestor
// carries a compare-at styling class.
func hasCompareAtAncestry(s *goquery.Selection) bool {
	if class, _ := s.Attr("class"); compareAtPattern.MatchString(class) {
		return true
	}
	matched := false
	s.Parents().EachWithBreak(func(_ int, p *goquery.Selection) bool {
		class, _ := p.Attr("class")
		if compareAtPattern.MatchString(class) {
			matched = true
			return false
		}
		return true
	})
	return matched
}

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// CleanPrice parses a raw price string: thousands separators are dropped,
// any remaining non-digit/non-decimal characters (currency symbols, unit
// suffixes) are stripped, and the remainder must parse to a positive
// float. Anything else reports not-found rather than an error.
func CleanPrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}
	cleaned := nonPriceChars.ReplaceAllString(strings.ReplaceAll(raw, ",", ""), "")
	if cleaned == "" {
		return 0, false
	}
	p, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsNaN(p) || math.IsInf(p, 0) || p <= 0 {
		return 0, false
	}
	return p, true
}
