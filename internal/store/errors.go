package store

import "errors"

// Sentinel errors returned by record store operations to signal well-known
// failure conditions. Callers should use [errors.Is] to match against these
// values.
var (
	// ErrInitialization is returned when the underlying storage engine is
	// unavailable or denies access while opening the capture database.
	// The store stays unusable until the caller retries Open.
	ErrInitialization = errors.New("storage engine unavailable")

	// ErrNotReady is returned when an operation is attempted before Open has
	// completed successfully. This is a caller bug: operations must wait for
	// readiness instead of retrying automatically.
	ErrNotReady = errors.New("record store not initialized")

	// ErrWriteRejected is returned when the storage engine refuses a write,
	// for example because the quota is exceeded or the database file is
	// corrupted. The record handed in by the caller was not persisted.
	ErrWriteRejected = errors.New("storage engine rejected write")

	// ErrUnknownCollection is returned when a sweep or clear targets a
	// collection name the schema does not know.
	ErrUnknownCollection = errors.New("unknown collection")
)

// Low-level database operation errors. These are returned (or wrapped) by
// store methods when a SQL-level operation fails before any domain logic can
// be applied.
var (
	// ErrBuildingSQLQuery is returned when constructing a parameterised SQL
	// query fails (e.g. invalid argument count or unsupported type).
	ErrBuildingSQLQuery = errors.New("error building sql query")

	// ErrExecutingQuery is returned when executing a SELECT or similar
	// read-only query against the database fails.
	ErrExecutingQuery = errors.New("error executing sql query")

	// ErrScanningRow is returned when scanning column values from a result
	// row into a destination struct fails.
	ErrScanningRow = errors.New("failed to scan record row")
)
