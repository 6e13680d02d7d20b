package store

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"

	"github.com/reefscan/fieldvault/models"
)

// CacheSymbols replaces the entire reference-symbol cache with the supplied
// list: every existing entry is removed, then every draft is inserted with a
// fresh last-updated stamp. The replacement runs in one transaction, so
// concurrent readers see either the old cache or the new one, never a mix.
func (s *RecordStore) CacheSymbols(ctx context.Context, symbols []models.SymbolDraft) error {
	db, err := s.handle()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache symbols: begin: %w: %w", ErrWriteRejected, err)
	}
	defer tx.Rollback()

	deleteQuery, deleteArgs, err := qb.Delete("symbol_cache").ToSql()
	if err != nil {
		return fmt.Errorf("cache symbols: %w: %w", ErrBuildingSQLQuery, err)
	}
	if _, err = tx.ExecContext(ctx, deleteQuery, deleteArgs...); err != nil {
		return fmt.Errorf("cache symbols: clear: %w: %w", ErrWriteRejected, err)
	}

	lastUpdated := formatTime(time.Now())
	for _, symbol := range symbols {
		attrs := symbol.Attrs
		if len(attrs) == 0 {
			attrs = []byte("{}")
		}

		query, args, err := qb.Insert("symbol_cache").
			Columns("id", "category", "attrs", "last_updated").
			Values(symbol.ID, symbol.Category, string(attrs), lastUpdated).
			ToSql()
		if err != nil {
			return fmt.Errorf("cache symbols: %w: %w", ErrBuildingSQLQuery, err)
		}
		if _, err = tx.ExecContext(ctx, query, args...); err != nil {
			s.log.Err(err).
				Str("func", "RecordStore.CacheSymbols").
				Str("id", symbol.ID).
				Msg("failed to insert cached symbol")
			return fmt.Errorf("cache symbols: insert %s: %w: %w", symbol.ID, ErrWriteRejected, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("cache symbols: commit: %w: %w", ErrWriteRejected, err)
	}

	s.log.Debug().Int("count", len(symbols)).Msg("replaced symbol cache")
	s.notifyChange()
	return nil
}

// CachedSymbols returns the full current cache content. Order is unspecified.
func (s *RecordStore) CachedSymbols(ctx context.Context) ([]models.CachedSymbol, error) {
	return s.querySymbols(ctx, qb.Select("id", "category", "attrs", "last_updated").
		From("symbol_cache"))
}

// SymbolsByCategory returns the cached symbols of one category, via the
// category index.
func (s *RecordStore) SymbolsByCategory(ctx context.Context, category string) ([]models.CachedSymbol, error) {
	return s.querySymbols(ctx, qb.Select("id", "category", "attrs", "last_updated").
		From("symbol_cache").
		Where(sq.Eq{"category": category}))
}

func (s *RecordStore) querySymbols(ctx context.Context, builder sq.SelectBuilder) ([]models.CachedSymbol, error) {
	db, err := s.handle()
	if err != nil {
		return nil, err
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("get cached symbols: %w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		s.log.Err(err).
			Str("func", "RecordStore.querySymbols").
			Msg("failed to query symbol cache")
		return nil, fmt.Errorf("get cached symbols: %w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	var symbols []models.CachedSymbol
	for rows.Next() {
		var (
			symbol      models.CachedSymbol
			attrs       string
			lastUpdated string
		)
		if err = rows.Scan(&symbol.ID, &symbol.Category, &attrs, &lastUpdated); err != nil {
			return nil, fmt.Errorf("get cached symbols: %w: %w", ErrScanningRow, err)
		}
		symbol.Attrs = []byte(attrs)
		symbol.LastUpdated = parseTime(lastUpdated)
		symbols = append(symbols, symbol)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, fmt.Errorf("get cached symbols: %w: %w", ErrExecutingQuery, rowsErr)
	}

	return symbols, nil
}
