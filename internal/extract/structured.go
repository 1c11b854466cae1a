package extract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// offer is one schema.org Offer pulled out of embedded JSON-LD.
type offer struct {
	URL          string
	PriceRaw     string
	Availability string
}

// structuredData aggregates every offer and image candidate found in the
// document's JSON-LD blocks, in document order.
type structuredData struct {
	offers []offer
	images []string
}

var variantPattern = regexp.MustCompile(`[?&](?:variant|sku_id|sku)=([\w\-]+)`)

// variantID extracts a variant/SKU identifier from a product URL's query
// string, or "" when the URL does not encode one.
func variantID(sourceURL string) string {
	m := variantPattern.FindStringSubmatch(sourceURL)
	if m == nil {
		return ""
	}
	return m[1]
}

// candidateOffers restricts offers to those whose own URL contains the
// source URL's variant identifier. When no offer matches (or the URL has
// no variant), the unfiltered set is returned: variant matching narrows
// the candidates but its absence must never cause extraction to fail.
// Note the fallback can pick a different variant's data when the page
// provides no variant-tagged offers at all.
func candidateOffers(offers []offer, sourceURL string) []offer {
	id := variantID(sourceURL)
	if id == "" {
		return offers
	}
	var matched []offer
	for _, o := range offers {
		if strings.Contains(o.URL, id) {
			matched = append(matched, o)
		}
	}
	if len(matched) == 0 {
		return offers
	}
	return matched
}

// parseStructuredData walks every application/ld+json script. Malformed
// blocks are skipped; retailers routinely embed several and only some
// parse cleanly.
func parseStructuredData(doc *goquery.Document) structuredData {
	var sd structuredData

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		var data any
		if err := json.Unmarshal([]byte(s.Text()), &data); err != nil {
			return
		}

		items, ok := data.([]any)
		if !ok {
			items = []any{data}
		}

		for _, raw := range items {
			item, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			sd.offers = append(sd.offers, collectOffers(item)...)
			if img := imageCandidate(item["image"]); img != "" {
				sd.images = append(sd.images, img)
			}
		}
	})

	return sd
}

// collectOffers gathers offers from an item's direct "offers" field and
// from the grouped-variant "hasVariant" structure used by ProductGroup
// markup, where each variant carries its own offers.
func collectOffers(item map[string]any) []offer {
	var offers []offer
	offers = appendOffers(offers, item["offers"])

	variants, _ := item["hasVariant"].([]any)
	for _, v := range variants {
		variant, ok := v.(map[string]any)
		if !ok {
			continue
		}
		offers = appendOffers(offers, variant["offers"])
	}
	return offers
}

func appendOffers(offers []offer, raw any) []offer {
	switch v := raw.(type) {
	case map[string]any:
		offers = append(offers, toOffer(v))
	case []any:
		for _, el := range v {
			if m, ok := el.(map[string]any); ok {
				offers = append(offers, toOffer(m))
			}
		}
	}
	return offers
}

// toOffer normalizes one offer object. Price accepts either an exact
// "price" field or the low end of a "lowPrice" range, in that order.
func toOffer(m map[string]any) offer {
	o := offer{}
	if u, ok := m["url"].(string); ok {
		o.URL = u
	}
	if a, ok := m["availability"].(string); ok {
		o.Availability = a
	}
	if raw := m["price"]; raw != nil {
		o.PriceRaw = stringify(raw)
	}
	if o.PriceRaw == "" {
		if raw := m["lowPrice"]; raw != nil {
			o.PriceRaw = stringify(raw)
		}
	}
	return o
}

// imageCandidate resolves the schema.org image field, which may be a
// plain string, a list (first element wins), or an ImageObject with a
// nested url.
func imageCandidate(raw any) string {
	if list, ok := raw.([]any); ok {
		if len(list) == 0 {
			return ""
		}
		raw = list[0]
	}
	if obj, ok := raw.(map[string]any); ok {
		raw = obj["url"]
	}
	s, _ := raw.(string)
	return s
}

// stringify renders JSON scalar values for price cleanup. JSON numbers
// decode as float64; %v would print large values in scientific notation,
// so format them explicitly.
func stringify(v any) string {
	switch n := v.(type) {
	case string:
		return n
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
