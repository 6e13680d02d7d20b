package store

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reefscan/fieldvault/internal/config"
	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/models"
)

// newMockedStore wires a ready RecordStore over a sqlmock handle so error
// paths of the engine can be exercised without a real database.
func newMockedStore(t *testing.T) (*RecordStore, sqlmock.Sqlmock) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	log := logger.Nop()
	s := New(config.Storage{DB: config.DB{DSN: ":memory:"}}, log)
	s.db = &DB{DB: mockDB, logger: log}
	s.ready.Store(true)

	return s, mock
}

func TestStoreImage_WriteRejected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("INSERT INTO images").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.StoreImage(context.Background(), []byte("x"), "")
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStoreFieldNote_WriteRejected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("INSERT INTO field_notes").
		WillReturnError(errors.New("database is locked"))

	_, err := s.StoreFieldNote(context.Background(), models.FieldNoteDraft{Title: "t", Description: "d"})
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMarkSynced_WriteRejected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("UPDATE images").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.MarkSynced(context.Background(), models.CollectionImages)
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSymbols_BeginRejected(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectBegin().WillReturnError(errors.New("disk I/O error"))

	err := s.CacheSymbols(context.Background(), []models.SymbolDraft{{ID: "A", Category: "x"}})
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCacheSymbols_RollsBackOnInsertFailure(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM symbol_cache").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec("INSERT INTO symbol_cache").
		WillReturnError(errors.New("constraint failed"))
	mock.ExpectRollback()

	err := s.CacheSymbols(context.Background(), []models.SymbolDraft{{ID: "A", Category: "x"}})
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetImage_ScanError(t *testing.T) {
	s, mock := newMockedStore(t)

	// wrong shape: the row carries fewer columns than the scan expects
	rows := sqlmock.NewRows([]string{"id"}).AddRow("img-1")
	mock.ExpectQuery("SELECT id, payload, media_type, created_at, synced FROM images").
		WillReturnRows(rows)

	_, _, err := s.GetImage(context.Background(), "img-1")
	assert.ErrorIs(t, err, ErrScanningRow)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFieldNotes_QueryError(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectQuery("SELECT (.+) FROM field_notes").
		WillReturnError(errors.New("disk I/O error"))

	_, err := s.FieldNotes(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPendingCounts_QueryError(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.MatchExpectationsInOrder(false)
	for i := 0; i < 3; i++ {
		mock.ExpectQuery(`SELECT COUNT\(\*\) FROM`).
			WillReturnError(errors.New("disk I/O error"))
	}

	_, err := s.PendingCounts(context.Background())
	assert.ErrorIs(t, err, ErrExecutingQuery)
}

func TestClearAll_PartialFailure(t *testing.T) {
	s, mock := newMockedStore(t)

	mock.ExpectExec("DELETE FROM images").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM field_notes").
		WillReturnError(errors.New("disk I/O error"))

	err := s.ClearAll(context.Background())
	assert.ErrorIs(t, err, ErrWriteRejected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
