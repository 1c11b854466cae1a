package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	domain "github.com/hafoozi/price-tracker/pkg/types"
)

// TimeFormat is the timestamp layout used in the log. It is part of the
// file's external contract; dashboards parse it.
const TimeFormat = "2006-01-02 15:04:05"

// fields is the current column set, in order. Older logs with fewer
// columns are migrated by Init.
var fields = []string{"timestamp", "name", "price", "url", "image", "oos"}

// CSVStore implements Store on a flat CSV file.
type CSVStore struct {
	path string
	log  *slog.Logger
}

// CSVOption configures a CSVStore.
type CSVOption func(*CSVStore)

// WithLogger sets a custom logger.
func WithLogger(l *slog.Logger) CSVOption {
	return func(s *CSVStore) {
		s.log = l
	}
}

// NewCSVStore creates a store backed by the file at path. Call Init
// before any other operation.
func NewCSVStore(path string, opts ...CSVOption) *CSVStore {
	s := &CSVStore{
		path: path,
		log:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init creates the log with a header when missing. When the existing
// header is narrower than the current schema, the whole file is
// rewritten with missing columns defaulted to empty; rows themselves are
// otherwise preserved verbatim.
func (s *CSVStore) Init() error {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return s.writeHeader()
	}
	if err != nil {
		return fmt.Errorf("reading history log: %w", err)
	}

	firstLine, _, _ := strings.Cut(string(data), "\n")
	if strings.TrimRight(firstLine, "\r") == strings.Join(fields, ",") {
		return nil
	}

	return s.migrate(data)
}

func (s *CSVStore) writeHeader() error {
	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("creating history log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("writing history header: %w", err)
	}
	w.Flush()
	return w.Error()
}

// migrate rewrites an older log under the current schema. Columns absent
// from the old header come out empty.
func (s *CSVStore) migrate(data []byte) error {
	r := csv.NewReader(strings.NewReader(string(data)))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("parsing history log for migration: %w", err)
	}
	if len(records) == 0 {
		return s.writeHeader()
	}

	oldHeader := records[0]
	colIndex := make(map[string]int, len(oldHeader))
	for i, col := range oldHeader {
		colIndex[col] = i
	}

	f, err := os.Create(s.path)
	if err != nil {
		return fmt.Errorf("rewriting history log: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(fields); err != nil {
		return fmt.Errorf("writing migrated header: %w", err)
	}
	for _, rec := range records[1:] {
		row := make([]string, len(fields))
		for i, col := range fields {
			if j, ok := colIndex[col]; ok && j < len(rec) {
				row[i] = rec[j]
			}
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("writing migrated row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	s.log.Info("history log migrated", "path", s.path, "columns", len(fields))
	return nil
}

// Append adds one reading. The file is opened in append mode so prior
// rows are never touched.
func (s *CSVStore) Append(r domain.Reading) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()

	oos := ""
	if r.OutOfStock {
		oos = "1"
	}

	w := csv.NewWriter(f)
	err = w.Write([]string{
		r.Timestamp.Format(TimeFormat),
		r.Name,
		fmt.Sprintf("%.2f", r.Price),
		r.URL,
		r.ImageURL,
		oos,
	})
	if err != nil {
		return fmt.Errorf("appending history row: %w", err)
	}
	w.Flush()
	return w.Error()
}

// ProductRows returns the product's readings in log order. Rows with an
// unparseable timestamp or price are skipped rather than failing the
// whole query; a single corrupt line must not blind every consumer.
func (s *CSVStore) ProductRows(name string) ([]domain.Reading, error) {
	all, err := s.readAll()
	if err != nil {
		return nil, err
	}

	var rows []domain.Reading
	for _, r := range all {
		if r.Name == name {
			rows = append(rows, r)
		}
	}
	return rows, nil
}

// LastPrice returns the most recent logged price for the product.
func (s *CSVStore) LastPrice(name string) (*float64, error) {
	rows, err := s.ProductRows(name)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	price := rows[len(rows)-1].Price
	return &price, nil
}

// PriceAt returns the last price logged at or before cutoff, inclusive.
func (s *CSVStore) PriceAt(name string, cutoff time.Time) (*float64, error) {
	rows, err := s.ProductRows(name)
	if err != nil {
		return nil, err
	}
	for i := len(rows) - 1; i >= 0; i-- {
		if !rows[i].Timestamp.After(cutoff) {
			price := rows[i].Price
			return &price, nil
		}
	}
	return nil, nil
}

// LastSeen returns when the product was last logged.
func (s *CSVStore) LastSeen(name string) (*time.Time, error) {
	rows, err := s.ProductRows(name)
	if err != nil || len(rows) == 0 {
		return nil, err
	}
	ts := rows[len(rows)-1].Timestamp
	return &ts, nil
}

func (s *CSVStore) readAll() ([]domain.Reading, error) {
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening history log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing history log: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	colIndex := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		colIndex[col] = i
	}
	get := func(rec []string, col string) string {
		if j, ok := colIndex[col]; ok && j < len(rec) {
			return rec[j]
		}
		return ""
	}

	readings := make([]domain.Reading, 0, len(records)-1)
	for _, rec := range records[1:] {
		ts, err := time.ParseInLocation(TimeFormat, get(rec, "timestamp"), time.Local)
		if err != nil {
			s.log.Warn("skipping history row with bad timestamp", "row", rec)
			continue
		}
		price, err := strconv.ParseFloat(get(rec, "price"), 64)
		if err != nil {
			s.log.Warn("skipping history row with bad price", "row", rec)
			continue
		}
		readings = append(readings, domain.Reading{
			Timestamp:  ts,
			Name:       get(rec, "name"),
			Price:      price,
			URL:        get(rec, "url"),
			ImageURL:   get(rec, "image"),
			OutOfStock: get(rec, "oos") == "1",
		})
	}
	return readings, nil
}
