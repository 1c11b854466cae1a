package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanPrice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{"plain", "399.00", 399.00, true},
		{"dollar sign", "$1,299.99", 1299.99, true},
		{"euro suffix", "749,95", 74995, true}, // commas are thousands separators, not decimals
		{"currency words", "USD 24.50", 24.50, true},
		{"embedded text", "Now: $89.00!", 89.00, true},
		{"integer", "120", 120, true},
		{"empty", "", 0, false},
		{"whitespace only", "   ", 0, false},
		{"no digits", "Sold Out", 0, false},
		{"zero", "$0.00", 0, false},
		{"negative collapses to positive digits", "-15.00", 15.00, true},
		{"multiple dots", "1.2.3", 0, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := CleanPrice(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 0.001)
			}
		})
	}
}

func extractAll(t *testing.T, html, url string) Result {
	t.Helper()
	res, err := Extract([]byte(html), url)
	require.NoError(t, err)
	return res
}

func TestPrice_StructuredDataWinsOverMarkup(t *testing.T) {
	t.Parallel()

	// Page text shows the higher original price first; JSON-LD carries
	// the actual sale price.
	html := `<html><head>
	<script type="application/ld+json">
	{"@type":"Product","offers":{"price":"349.00","availability":"https://schema.org/InStock"}}
	</script></head><body>
	<span class="sale-price">$399.00</span>
	</body></html>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 349.00, *res.Price, 0.001)
}

func TestPrice_LowPriceRangeAccepted(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
	{"@type":"Product","offers":{"@type":"AggregateOffer","lowPrice":199.5,"highPrice":299.5}}
	</script>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 199.5, *res.Price, 0.001)
}

func TestPrice_VariantFilterSelectsMatchingOffer(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
	{"@type":"ProductGroup","hasVariant":[
		{"@type":"Product","offers":{"url":"https://shop.example/p/1?variant=111","price":"89.00"}},
		{"@type":"Product","offers":{"url":"https://shop.example/p/1?variant=222","price":"95.00"}}
	]}
	</script>`

	res := extractAll(t, html, "https://shop.example/p/1?variant=222")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 95.00, *res.Price, 0.001, "the variant-matched offer must win over document order")
}

func TestPrice_VariantFilterFallsBackToAllOffers(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
	{"@type":"Product","offers":[{"price":"42.00"}]}
	</script>`

	res := extractAll(t, html, "https://shop.example/p/1?variant=999")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 42.00, *res.Price, 0.001, "missing variant match must not fail extraction")
}

func TestPrice_CompareAtAncestorNeverSelected(t *testing.T) {
	t.Parallel()

	html := `<body>
	<div class="price__compare">
		<span class="sale-price">$399.00</span>
	</div>
	<span class="current-price">$299.00</span>
	</body>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 299.00, *res.Price, 0.001,
		"a candidate inside a compare-at container must be discarded even when it matches first")
}

func TestPrice_BroadFallbackSkipsStrikethrough(t *testing.T) {
	t.Parallel()

	html := `<body>
	<s><span class="price">$500.00</span></s>
	<span class="was-price">$450.00</span>
	<span class="price-item">$420.00</span>
	</body>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 420.00, *res.Price, 0.001)
}

func TestPrice_AbsentWhenNothingMatches(t *testing.T) {
	t.Parallel()

	res := extractAll(t, `<body><p>Call for pricing</p></body>`, "https://shop.example/p/1")
	assert.Nil(t, res.Price)
}

func TestPrice_MalformedJSONLDSkipped(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">{not json</script>
	<span class="current-price">$75.00</span>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 75.00, *res.Price, 0.001)
}

func TestPrice_ZeroStructuredPriceFallsThrough(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
	{"@type":"Product","offers":{"price":"0.00"}}
	</script>
	<span class="current-price">$19.00</span>`

	res := extractAll(t, html, "https://shop.example/p/1")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 19.00, *res.Price, 0.001)
}
