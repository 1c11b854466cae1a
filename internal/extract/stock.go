package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Out-of-stock detection is deliberately conservative: multi-variant
// pages render "sold out" text for other sizes and colors while the
// requested variant remains purchasable, so arbitrary visible text is
// never scanned. Absence of a negative signal means in stock.

// oosVocabulary are schema.org availability values that mark the
// requested variant unavailable.
var oosVocabulary = []string{"OutOfStock", "SoldOut", "Discontinued", "BackOrder"}

// Meta-tag availability families, compared lowercased.
var (
	metaOOSValues = map[string]struct{}{
		"out of stock": {},
		"oos":          {},
		"sold out":     {},
		"backorder":    {},
		"preorder":     {},
	}
	metaInStockValues = map[string]struct{}{
		"in stock":  {},
		"instock":   {},
		"available": {},
	}
)

// purchaseActions are the button labels that identify the primary buy
// control. A disabled button with any other label (notify me, select a
// size) is not an out-of-stock signal.
var purchaseActions = map[string]struct{}{
	"add to cart": {},
	"add to bag":  {},
	"buy now":     {},
	"purchase":    {},
	"checkout":    {},
}

const maxButtonScan = 100

var trailingQualifier = regexp.MustCompile(`[\-–—].*$`)

// InStock evaluates the availability signals in precedence order:
// structured offer availability (variant-filtered), the availability meta
// tag, then a disabled primary purchase button. The first decisive signal
// wins; no signal at all reports in stock.
func InStock(doc *goquery.Document, sd structuredData, sourceURL string) bool {
	if inStock, decided := structuredAvailability(sd, sourceURL); decided {
		return inStock
	}
	if inStock, decided := metaAvailability(doc); decided {
		return inStock
	}
	if disabledPurchaseButton(doc) {
		return false
	}
	return true
}

func structuredAvailability(sd structuredData, sourceURL string) (inStock, decided bool) {
	for _, o := range candidateOffers(sd.offers, sourceURL) {
		if o.Availability == "" {
			continue
		}
		for _, vocab := range oosVocabulary {
			if strings.Contains(o.Availability, vocab) {
				return false, true
			}
		}
		// An explicit InStock short-circuits every later signal.
		if strings.Contains(o.Availability, "InStock") {
			return true, true
		}
	}
	return false, false
}

func metaAvailability(doc *goquery.Document) (inStock, decided bool) {
	meta := doc.Find(`meta[property="product:availability"]`)
	if meta.Length() == 0 {
		meta = doc.Find(`meta[name="availability"]`)
	}
	content, ok := meta.Attr("content")
	if !ok {
		return false, false
	}

	val := strings.ToLower(strings.TrimSpace(content))
	if _, oos := metaOOSValues[val]; oos {
		return false, true
	}
	if _, in := metaInStockValues[val]; in {
		return true, true
	}
	return false, false
}

// disabledPurchaseButton scans up to maxButtonScan button elements for an
// explicitly disabled one whose normalized label is a known purchase
// action. Trailing qualifier phrases after a dash ("Add to cart — sold
// out") are stripped before matching.
func disabledPurchaseButton(doc *goquery.Document) bool {
	found := false
	doc.Find("button").EachWithBreak(func(i int, s *goquery.Selection) bool {
		if i >= maxButtonScan {
			return false
		}
		if _, disabled := s.Attr("disabled"); !disabled {
			return true
		}

		text := strings.ToLower(strings.Join(strings.Fields(s.Text()), " "))
		text = strings.TrimSpace(trailingQualifier.ReplaceAllString(text, ""))
		if _, ok := purchaseActions[text]; ok {
			found = true
			return false
		}
		return true
	})
	return found
}
