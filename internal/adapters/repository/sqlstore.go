package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"  // postgres driver
	_ "modernc.org/sqlite" // sqlite driver

	"github.com/okian/fairway/internal/domain/model"
)

// Supported database drivers.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

func init() { //nolint:gochecknoinits // the modernc driver name is not in sqlx's bind table
	sqlx.BindDriver(DriverSQLite, sqlx.QUESTION)
}

// SQLStore persists sessions in SQLite or PostgreSQL.
type SQLStore struct {
	db   *sqlx.DB
	opts options

	wg       sync.WaitGroup
	stopChan chan struct{}
	stopOnce sync.Once
	closeErr error
}

// OpenSQL connects to driver/dsn, migrates the schema and returns a store.
// For sqlite, dsn is a file path.
func OpenSQL(ctx context.Context, driver, dsn string, opts ...Option) (*SQLStore, error) {
	var (
		db  *sqlx.DB
		err error
	)
	switch driver {
	case DriverSQLite:
		db, err = sqlx.ConnectContext(ctx, DriverSQLite, sqliteDSN(dsn))
		if err == nil {
			// One writer; WAL lets readers proceed.
			db.SetMaxOpenConns(1)
		}
	case DriverPostgres:
		db, err = sqlx.ConnectContext(ctx, DriverPostgres, dsn)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", driver, err)
	}

	s, err := NewSQLStore(ctx, db, opts...)
	if err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func sqliteDSN(path string) string {
	if strings.HasPrefix(path, "file:") {
		return path
	}
	return fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
}

// NewSQLStore wraps an open connection and migrates the schema.
func NewSQLStore(ctx context.Context, db *sqlx.DB, opts ...Option) (*SQLStore, error) {
	s := &SQLStore{
		db:       db,
		opts:     defaultOptions(),
		stopChan: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(&s.opts)
	}
	if err := migrate(ctx, db); err != nil {
		return nil, err
	}
	startMetricsUpdater(ctx, &s.wg, s.stopChan, s.opts.metricsInterval, s.Count)
	return s, nil
}

// sessionRow is the sessions table layout.
type sessionRow struct {
	ID            string `db:"id"`
	Title         string `db:"title"`
	Location      string `db:"location"`
	UploadDateMs  int64  `db:"upload_date_ms"`
	SessionDateMs int64  `db:"session_date_ms"`
	SourceType    string `db:"source_type"`
	ShotCount     int    `db:"shot_count"`
}

func toRow(s *model.Session) sessionRow {
	return sessionRow{
		ID:            s.ID,
		Title:         s.Title,
		Location:      s.Location,
		UploadDateMs:  s.UploadDate.UnixMilli(),
		SessionDateMs: s.SessionDate.UnixMilli(),
		SourceType:    string(s.Source),
		ShotCount:     s.ShotCount,
	}
}

func (r sessionRow) session() model.Session {
	return model.Session{
		ID:          r.ID,
		Title:       r.Title,
		Location:    r.Location,
		UploadDate:  time.UnixMilli(r.UploadDateMs).UTC(),
		SessionDate: time.UnixMilli(r.SessionDateMs).UTC(),
		Source:      model.Source(r.SourceType),
		ShotCount:   r.ShotCount,
	}
}

const selectSessionsSQL = `SELECT id, title, location, upload_date_ms, session_date_ms, source_type, shot_count FROM sessions`

func (s *SQLStore) Save(ctx context.Context, in *model.Session) (out *model.Session, err error) {
	defer func(start time.Time) { observe("save", start, err) }(time.Now())
	if err := validateForSave(in); err != nil {
		return nil, err
	}

	c := in.Clone()
	if c.ID == "" {
		c.ID = s.opts.newID()
	}
	c.ShotCount = len(c.Shots)

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin save: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO sessions (id, title, location, upload_date_ms, session_date_ms, source_type, shot_count)
		VALUES (:id, :title, :location, :upload_date_ms, :session_date_ms, :source_type, :shot_count)`, toRow(c))
	if err != nil {
		return nil, fmt.Errorf("failed to insert session: %w", err)
	}

	insert := tx.Rebind(insertShotSQL)
	for i := range c.Shots {
		c.Shots[i].SessionID = c.ID
		if _, err = tx.ExecContext(ctx, insert, shotArgs(c.ID, i, &c.Shots[i])...); err != nil {
			return nil, fmt.Errorf("failed to insert shot %d: %w", i, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit session: %w", err)
	}
	return c, nil
}

func (s *SQLStore) Get(ctx context.Context, id string) (out *model.Session, err error) {
	defer func(start time.Time) { observe("get", start, err) }(time.Now())
	sess, err := s.header(ctx, id)
	if err != nil {
		return nil, err
	}
	shots, err := s.queryShots(ctx, `WHERE session_id = ? ORDER BY seq`, id)
	if err != nil {
		return nil, err
	}
	sess.Shots = shots
	return sess, nil
}

func (s *SQLStore) header(ctx context.Context, id string) (*model.Session, error) {
	var row sessionRow
	err := s.db.GetContext(ctx, &row, s.db.Rebind(selectSessionsSQL+` WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	sess := row.session()
	return &sess, nil
}

func (s *SQLStore) List(ctx context.Context) (out []model.Session, err error) {
	defer func(start time.Time) { observe("list", start, err) }(time.Now())
	return s.querySessions(ctx, selectSessionsSQL+` ORDER BY upload_date_ms DESC, id`)
}

func (s *SQLStore) Search(ctx context.Context, title string) (out []model.Session, err error) {
	defer func(start time.Time) { observe("search", start, err) }(time.Now())
	return s.querySessions(ctx, selectSessionsSQL+` WHERE LOWER(title) LIKE ? ORDER BY upload_date_ms DESC, id`,
		"%"+escapeLike(strings.ToLower(title))+"%")
}

func (s *SQLStore) querySessions(ctx context.Context, q string, args ...any) ([]model.Session, error) {
	var rows []sessionRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	out := make([]model.Session, len(rows))
	for i, r := range rows {
		out[i] = r.session()
	}
	return out, nil
}

// escapeLike drops LIKE wildcards from a search term.
func escapeLike(s string) string {
	return strings.NewReplacer("%", "", "_", "").Replace(s)
}

func (s *SQLStore) Update(ctx context.Context, id string, patch model.SessionPatch) (out *model.Session, err error) {
	defer func(start time.Time) { observe("update", start, err) }(time.Now())

	var (
		sets []string
		args []any
	)
	if patch.Title != nil {
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}
	if patch.Location != nil {
		sets = append(sets, "location = ?")
		args = append(args, *patch.Location)
	}
	if patch.SessionDate != nil {
		sets = append(sets, "session_date_ms = ?")
		args = append(args, patch.SessionDate.UnixMilli())
	}
	if len(sets) == 0 {
		return s.header(ctx, id)
	}

	q := `UPDATE sessions SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := s.db.ExecContext(ctx, s.db.Rebind(q), append(args, id)...)
	if err != nil {
		return nil, fmt.Errorf("failed to update session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, ErrNotFound
	}
	return s.header(ctx, id)
}

func (s *SQLStore) Delete(ctx context.Context, id string) (err error) {
	defer func(start time.Time) { observe("delete", start, err) }(time.Now())

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin delete: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	if _, err = tx.ExecContext(ctx, tx.Rebind(`DELETE FROM shots WHERE session_id = ?`), id); err != nil {
		return fmt.Errorf("failed to delete shots: %w", err)
	}
	res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM sessions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return tx.Commit()
}

func (s *SQLStore) Shots(ctx context.Context, id string) (out []model.Shot, err error) {
	defer func(start time.Time) { observe("shots", start, err) }(time.Now())
	if _, err := s.header(ctx, id); err != nil {
		return nil, err
	}
	return s.queryShots(ctx, `WHERE session_id = ? ORDER BY shot_number IS NULL, shot_number, seq`, id)
}

func (s *SQLStore) Count(ctx context.Context) int {
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM sessions`); err != nil {
		return 0
	}
	return n
}

// Close stops the metrics updater and closes the database.
func (s *SQLStore) Close() error {
	s.stopOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
		s.closeErr = s.db.Close()
	})
	return s.closeErr
}

// Shot columns in a fixed order shared by inserts and scans.
//
//nolint:gochecknoglobals // static layout and queries
var (
	shotTextColumns = []string{"session_id", "seq", "shot_number", "club", "club_description", "shot_time_ms", "shot_classification"}
	insertShotSQL   = buildInsertShot()
	selectShotSQL   = `SELECT ` + strings.Join(shotColumns(), ", ") + ` FROM shots `
)

func shotColumns() []string {
	cols := append([]string{}, shotTextColumns...)
	for _, f := range model.Metrics() {
		cols = append(cols, f.Column())
	}
	return cols
}

func buildInsertShot() string {
	cols := shotColumns()
	marks := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	return `INSERT INTO shots (` + strings.Join(cols, ", ") + `) VALUES (` + marks + `)`
}

func shotArgs(sessionID string, seq int, shot *model.Shot) []any {
	var shotNumber, shotTime any
	if shot.ShotNumber != nil {
		shotNumber = int64(*shot.ShotNumber)
	}
	if shot.ShotTime != nil {
		shotTime = shot.ShotTime.UnixMilli()
	}
	args := []any{sessionID, seq, shotNumber, shot.Club, shot.ClubDescription, shotTime, shot.ShotClassification}
	for _, f := range model.Metrics() {
		if v := shot.Metric(f); v != nil {
			args = append(args, *v)
		} else {
			args = append(args, nil)
		}
	}
	return args
}

func (s *SQLStore) queryShots(ctx context.Context, where string, args ...any) ([]model.Shot, error) {
	rows, err := s.db.QueryxContext(ctx, s.db.Rebind(selectShotSQL+where), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query shots: %w", err)
	}
	defer rows.Close()

	metricFields := model.Metrics()
	var out []model.Shot
	for rows.Next() {
		var (
			shot       model.Shot
			seq        int
			shotNumber sql.NullInt64
			shotTime   sql.NullInt64
			values     = make([]sql.NullFloat64, len(metricFields))
		)
		dest := []any{&shot.SessionID, &seq, &shotNumber, &shot.Club, &shot.ClubDescription, &shotTime, &shot.ShotClassification}
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan shot: %w", err)
		}
		if shotNumber.Valid {
			shot.SetShotNumber(int(shotNumber.Int64))
		}
		if shotTime.Valid {
			t := time.UnixMilli(shotTime.Int64).UTC()
			shot.ShotTime = &t
		}
		for i, v := range values {
			if v.Valid {
				shot.Set(metricFields[i], v.Float64)
			}
		}
		out = append(out, shot)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read shots: %w", err)
	}
	return out, nil
}
