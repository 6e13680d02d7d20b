package store

import (
	"database/sql"

	sq "github.com/Masterminds/squirrel"

	"github.com/reefscan/fieldvault/internal/logger"
	"github.com/reefscan/fieldvault/migrations"
)

// DB wraps the raw SQLite handle together with the store logger.
type DB struct {
	*sql.DB
	logger *logger.Logger
}

// Migrate applies the embedded capture-schema migrations.
func (db *DB) Migrate() error {
	return migrations.Migrate(db.DB)
}

// qb is the squirrel statement builder shared by all repositories. SQLite
// uses ordinary question-mark placeholders.
var qb = sq.StatementBuilder.PlaceholderFormat(sq.Question)
