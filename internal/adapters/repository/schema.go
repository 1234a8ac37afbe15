package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/okian/fairway/internal/domain/model"
)

const createSessions = `CREATE TABLE IF NOT EXISTS sessions (
	id              TEXT PRIMARY KEY,
	title           TEXT NOT NULL,
	location        TEXT NOT NULL DEFAULT '',
	upload_date_ms  BIGINT NOT NULL,
	session_date_ms BIGINT NOT NULL,
	source_type     TEXT NOT NULL,
	shot_count      INTEGER NOT NULL
)`

func createShots() string {
	var b strings.Builder
	b.WriteString(`CREATE TABLE IF NOT EXISTS shots (
	session_id          TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq                 INTEGER NOT NULL,
	shot_number         INTEGER,
	club                TEXT NOT NULL DEFAULT '',
	club_description    TEXT NOT NULL DEFAULT '',
	shot_time_ms        BIGINT,
	shot_classification TEXT NOT NULL DEFAULT '',
`)
	for _, f := range model.Metrics() {
		fmt.Fprintf(&b, "\t%s DOUBLE PRECISION,\n", f.Column())
	}
	b.WriteString("\tPRIMARY KEY (session_id, seq)\n)")
	return b.String()
}

func migrations() []string {
	return []string{
		createSessions,
		createShots(),
		`CREATE INDEX IF NOT EXISTS sessions_upload_date_idx ON sessions (upload_date_ms)`,
	}
}

// migrate creates missing tables. Statements run one at a time since not
// every driver accepts batches.
func migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range migrations() {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("%w: %w", ErrMigration, err)
		}
	}
	return nil
}
