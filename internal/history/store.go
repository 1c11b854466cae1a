// Package history persists the append-only price time series. All
// business logic depends on the Store interface, never on the CSV
// implementation, which keeps the engine testable against fakes.
package history

import (
	"time"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// Store defines the history operations the pipeline needs. Rows are
// append-only and ordered by time; nothing ever mutates a prior row.
type Store interface {
	// Init creates the log if missing and migrates older, narrower
	// schemas to the current column set.
	Init() error

	// Append adds one reading to the end of the log.
	Append(r domain.Reading) error

	// ProductRows returns every reading for the given product key in
	// log order.
	ProductRows(name string) ([]domain.Reading, error)

	// LastPrice returns the most recent logged price for the product,
	// or nil when it has never been logged.
	LastPrice(name string) (*float64, error)

	// PriceAt returns the last price logged at or before cutoff
	// (inclusive), or nil when no row qualifies.
	PriceAt(name string, cutoff time.Time) (*float64, error)

	// LastSeen returns the timestamp of the product's most recent row,
	// or nil when it has never been logged.
	LastSeen(name string) (*time.Time, error)
}
