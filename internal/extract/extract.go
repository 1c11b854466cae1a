// Package extract turns fetched retailer markup into a normalized
// price/image/stock reading. Each value is resolved by a prioritized
// cascade of independent signals; the first decisive signal wins.
//
// Structured offer data is always consulted before visible markup because
// page text commonly shows a crossed-out "original" price ahead of the
// actual sale price.
package extract

import (
	"bytes"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// Result is one normalized extraction. A nil Price means no price signal
// matched, which is distinct from InStock=false: a sold-out item with an
// extractable price still produces a Result worth logging.
type Result struct {
	Price    *float64
	ImageURL string
	InStock  bool
}

// Extract parses markup and runs the full cascade. Price is extracted
// first; image and stock status never influence price selection.
func Extract(html []byte, sourceURL string) (Result, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return Result{InStock: true}, fmt.Errorf("parsing document: %w", err)
	}

	sd := parseStructuredData(doc)

	return Result{
		Price:    Price(doc, sd, sourceURL),
		ImageURL: Image(doc, sd, sourceURL),
		InStock:  InStock(doc, sd, sourceURL),
	}, nil
}
