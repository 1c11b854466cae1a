package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInStock_DefaultWithoutSignals(t *testing.T) {
	t.Parallel()

	res := extractAll(t, `<body><span class="price">$10.00</span></body>`, "https://shop.example/p/1")
	assert.True(t, res.InStock, "absence of a negative signal must report in stock")
}

func TestInStock_StructuredOOSVocabulary(t *testing.T) {
	t.Parallel()

	for _, vocab := range []string{"OutOfStock", "SoldOut", "Discontinued", "BackOrder"} {
		html := `<script type="application/ld+json">
		{"@type":"Product","offers":{"price":"399.00","availability":"https://schema.org/` + vocab + `"}}
		</script>`

		res := extractAll(t, html, "https://shop.example/p/1")
		assert.False(t, res.InStock, "availability %s", vocab)
		require.NotNil(t, res.Price, "an OOS reading keeps its price for trend continuity")
		assert.InDelta(t, 399.00, *res.Price, 0.001)
	}
}

func TestInStock_InStockShortCircuitsDisabledButton(t *testing.T) {
	t.Parallel()

	html := `<script type="application/ld+json">
	{"@type":"Product","offers":{"availability":"https://schema.org/InStock"}}
	</script>
	<button disabled>Add to cart</button>`

	res := extractAll(t, html, "https://shop.example/p/1")
	assert.True(t, res.InStock, "structured InStock must suppress the disabled-button signal")
}

func TestInStock_VariantFilteredAvailability(t *testing.T) {
	t.Parallel()

	// The other variant is sold out; the requested one is purchasable.
	html := `<script type="application/ld+json">
	{"@type":"ProductGroup","hasVariant":[
		{"offers":{"url":"https://shop.example/p/1?variant=111","availability":"https://schema.org/OutOfStock"}},
		{"offers":{"url":"https://shop.example/p/1?variant=222","availability":"https://schema.org/InStock"}}
	]}
	</script>`

	res := extractAll(t, html, "https://shop.example/p/1?variant=222")
	assert.True(t, res.InStock)

	res = extractAll(t, html, "https://shop.example/p/1?variant=111")
	assert.False(t, res.InStock)
}

func TestInStock_MetaAvailability(t *testing.T) {
	t.Parallel()

	tests := []struct {
		content string
		want    bool
	}{
		{"out of stock", false},
		{"oos", false},
		{"sold out", false},
		{"backorder", false},
		{"preorder", false},
		{"in stock", true},
		{"instock", true},
		{"available", true},
		{"limited", true}, // unrecognized value is not decisive
	}

	for _, tt := range tests {
		html := `<meta property="product:availability" content="` + tt.content + `">`
		res := extractAll(t, html, "https://shop.example/p/1")
		assert.Equal(t, tt.want, res.InStock, "content %q", tt.content)
	}
}

func TestInStock_DisabledPurchaseButton(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want bool
	}{
		{
			name: "disabled add to cart",
			html: `<button disabled>Add to cart</button>`,
			want: false,
		},
		{
			name: "disabled with trailing qualifier",
			html: `<button disabled>Add to cart — Sold out</button>`,
			want: false,
		},
		{
			name: "enabled add to cart",
			html: `<button>Add to cart</button>`,
			want: true,
		},
		{
			name: "disabled non-purchase button",
			html: `<button disabled>Notify me</button>`,
			want: true,
		},
		{
			name: "disabled buy now",
			html: `<button disabled>  Buy Now  </button>`,
			want: false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			res := extractAll(t, "<body>"+tt.html+"</body>", "https://shop.example/p/1")
			assert.Equal(t, tt.want, res.InStock)
		})
	}
}

func TestExtract_EndToEndScenario(t *testing.T) {
	t.Parallel()

	const inStockDoc = `<html><head>
	<script type="application/ld+json">
	{"@type":"Product","offers":{"price":"399.00","availability":"https://schema.org/InStock"},
	 "image":"https://cdn.example/machine.jpg"}
	</script></head></html>`

	res := extractAll(t, inStockDoc, "https://shop.example/p/machine")
	require.NotNil(t, res.Price)
	assert.InDelta(t, 399.00, *res.Price, 0.001)
	assert.True(t, res.InStock)
	assert.Equal(t, "https://cdn.example/machine.jpg", res.ImageURL)

	const oosDoc = `<html><head>
	<script type="application/ld+json">
	{"@type":"Product","offers":{"price":"399.00","availability":"https://schema.org/OutOfStock"}}
	</script></head></html>`

	res = extractAll(t, oosDoc, "https://shop.example/p/machine")
	require.NotNil(t, res.Price, "price is still extracted on a sold-out item")
	assert.InDelta(t, 399.00, *res.Price, 0.001)
	assert.False(t, res.InStock)
}
