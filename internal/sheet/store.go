package sheet

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"strings"
	"time"
)

// DefaultTTL bounds how stale a cached Fetch may be.
const DefaultTTL = 30 * time.Second

// Store reads and writes whole tables through a Backend.
// It does no locking: concurrent Replace calls are last writer wins.
type Store struct {
	backend Backend
	cache   *tableCache
}

// NewStore wraps a backend. ttl <= 0 disables caching.
func NewStore(b Backend, ttl time.Duration) *Store {
	return &Store{backend: b, cache: newTableCache(ttl)}
}

// SetClock overrides the clock used for cache expiry.
func (s *Store) SetClock(now func() time.Time) { s.cache.now = now }

// Fetch returns the rows of table, possibly from cache.
func (s *Store) Fetch(ctx context.Context, table string) ([]Row, error) {
	if rows, ok := s.cache.get(table); ok {
		return rows, nil
	}
	return s.FetchFresh(ctx, table)
}

// FetchFresh reads table straight from the backend and refreshes the cache.
func (s *Store) FetchFresh(ctx context.Context, table string) ([]Row, error) {
	schema, err := SchemaFor(table)
	if err != nil {
		return nil, err
	}
	values, err := s.backend.Values(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("sheet: fetch %s: %w", table, err)
	}
	if len(values) == 0 {
		return []Row{}, nil
	}
	header := values[0]
	rows := make([]Row, 0, len(values)-1)
	for _, raw := range values[1:] {
		if blank(raw) {
			continue
		}
		r := Row{}
		for i, col := range header {
			col = strings.TrimSpace(col)
			if col == "" {
				continue
			}
			if _, seen := r[col]; seen {
				continue
			}
			if i < len(raw) {
				r[col] = raw[i]
			} else {
				r[col] = ""
			}
		}
		rows = append(rows, schema.normalize(r))
	}
	s.cache.put(table, rows)
	return rows, nil
}

// Replace overwrites table with the header followed by rows.
func (s *Store) Replace(ctx context.Context, table string, rows []Row) error {
	schema, err := SchemaFor(table)
	if err != nil {
		return err
	}
	values := make([][]string, 0, len(rows)+1)
	values = append(values, append([]string(nil), schema.Columns...))
	for _, r := range rows {
		values = append(values, schema.values(r))
	}
	defer s.cache.invalidate(table)
	if err := s.backend.Update(ctx, table, values); err != nil {
		return fmt.Errorf("sheet: replace %s: %w", table, err)
	}
	return nil
}

// Append adds rows after a fresh read of table.
func (s *Store) Append(ctx context.Context, table string, rows ...Row) error {
	if len(rows) == 0 {
		return nil
	}
	existing, err := s.FetchFresh(ctx, table)
	if err != nil {
		return err
	}
	return s.Replace(ctx, table, append(existing, rows...))
}

// Invalidate drops every cached table.
func (s *Store) Invalidate() { s.cache.invalidateAll() }

// Ping checks that the workbook is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if _, err := s.backend.Worksheets(ctx); err != nil {
		return fmt.Errorf("sheet: ping: %w", err)
	}
	return nil
}

// EnsureSchema creates table if missing and repairs a drifted header.
// Data rows are padded or truncated positionally and rows left blank are dropped.
// Calling it again on a repaired table writes nothing.
func (s *Store) EnsureSchema(ctx context.Context, table string) error {
	schema, err := SchemaFor(table)
	if err != nil {
		return err
	}
	names, err := s.backend.Worksheets(ctx)
	if err != nil {
		return fmt.Errorf("sheet: list worksheets: %w", err)
	}
	if !slices.Contains(names, table) {
		if err := s.backend.AddWorksheet(ctx, table); err != nil {
			return fmt.Errorf("sheet: create %s: %w", table, err)
		}
		log.Printf("[sheet] created worksheet %s", table)
		return s.Replace(ctx, table, nil)
	}
	values, err := s.backend.Values(ctx, table)
	if err != nil {
		return fmt.Errorf("sheet: read %s: %w", table, err)
	}
	if len(values) == 0 {
		return s.Replace(ctx, table, nil)
	}
	header := trimAll(values[0])
	if slices.Equal(header, schema.Columns) {
		return nil
	}
	if d := duplicates(header); len(d) > 0 {
		log.Printf("[sheet] WARNING %s has duplicate headers %v; rewriting header", table, d)
	} else {
		log.Printf("[sheet] WARNING %s header %v does not match %v; rewriting header", table, header, schema.Columns)
	}
	width := len(schema.Columns)
	repaired := make([][]string, 0, len(values))
	repaired = append(repaired, append([]string(nil), schema.Columns...))
	for _, raw := range values[1:] {
		row := make([]string, width)
		copy(row, raw)
		if blank(row) {
			continue
		}
		repaired = append(repaired, row)
	}
	defer s.cache.invalidate(table)
	if err := s.backend.Update(ctx, table, repaired); err != nil {
		return fmt.Errorf("sheet: repair %s: %w", table, err)
	}
	return nil
}

// EnsureAll runs EnsureSchema for every table.
func (s *Store) EnsureAll(ctx context.Context) error {
	var errs []error
	for _, t := range Tables() {
		if err := s.EnsureSchema(ctx, t); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func blank(row []string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func trimAll(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = strings.TrimSpace(v)
	}
	return out
}

func duplicates(header []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, h := range header {
		if h == "" {
			continue
		}
		if seen[h] {
			out = append(out, h)
		}
		seen[h] = true
	}
	return out
}
