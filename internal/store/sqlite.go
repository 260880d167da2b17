package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"

	"ledger-go/internal/ledger"
	"ledger-go/internal/store/migrations"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements ledger.ObjectStore on a SQLite database.
// The connection is opened and migrated in the background; Ready is closed
// once that has succeeded.
type SQLiteStore struct {
	path   string
	logger ledger.Logger

	ready chan struct{}
	done  chan struct{}

	mu      sync.RWMutex
	db      *sql.DB
	initErr error
	closed  bool
}

// OpenSQLite starts opening the database at path and returns immediately.
// path can be a file path or ":memory:" for an in-memory database.
func OpenSQLite(path string, logger ledger.Logger) *SQLiteStore {
	if logger == nil {
		logger = ledger.NewNopLogger()
	}
	s := &SQLiteStore{
		path:   path,
		logger: logger,
		ready:  make(chan struct{}),
		done:   make(chan struct{}),
	}
	go s.init()
	return s
}

func (s *SQLiteStore) init() {
	defer close(s.done)

	db, err := OpenConnection(s.path)
	if err == nil {
		if err = migrations.MigrateUp(db); err != nil {
			db.Close()
			err = fmt.Errorf("migrating %s: %w", s.path, err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.initErr = err
		s.logger.Error("store initialization failed", "path", s.path, "error", err)
		return
	}
	s.db = db
	s.logger.Debug("store ready", "path", s.path)
	close(s.ready)
}

// OpenConnection opens and configures a SQLite connection with the PRAGMAs the store relies on.
// An in-memory database is limited to one connection so every query sees the same data.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", pragma, err)
		}
	}
	return db, nil
}

func (s *SQLiteStore) Ready() <-chan struct{} {
	return s.ready
}

// Wait blocks until background initialization has finished.
func (s *SQLiteStore) Wait(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.initErr != nil {
		return fmt.Errorf("%w: %v", ledger.ErrStoreUnavailable, s.initErr)
	}
	return nil
}

// Path returns the database file path (or ":memory:").
func (s *SQLiteStore) Path() string {
	return s.path
}

// conn returns the open database. Callers must hold s.mu for reading.
func (s *SQLiteStore) conn() (*sql.DB, error) {
	if s.closed || s.db == nil {
		return nil, ledger.ErrStoreUnavailable
	}
	return s.db, nil
}

func (s *SQLiteStore) Create(ctx context.Context, kind ledger.Kind, fields ledger.Fields) (ledger.Fields, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	if err := schema.Check(fields, true); err != nil {
		return nil, err
	}
	id, _ := fields[schema.PrimaryKey].(string)
	if id == "" {
		return nil, fmt.Errorf("empty %s for %s", schema.PrimaryKey, kind)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	cols := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields))
	for _, f := range schema.Fields {
		v, ok := fields[f.Name]
		if !ok {
			continue
		}
		cols = append(cols, quote(f.Name))
		args = append(args, toColumn(v))
	}
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(schema.Table), strings.Join(cols, ", "), placeholders(len(cols)))
	if _, err := tx.ExecContext(ctx, stmt, args...); err != nil {
		return nil, fmt.Errorf("inserting %s: %w", kind, err)
	}

	created, err := getTx(ctx, tx, schema, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return created, nil
}

func (s *SQLiteStore) Get(ctx context.Context, kind ledger.Kind, id string) (ledger.Fields, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}
	return getTx(ctx, db, schema, id)
}

func (s *SQLiteStore) Update(ctx context.Context, kind ledger.Kind, id string, partial ledger.Fields) (ledger.Fields, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return nil, err
	}
	patch, err := checkPatch(schema, id, partial)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if len(patch) > 0 {
		sets := make([]string, 0, len(patch))
		args := make([]any, 0, len(patch)+1)
		for _, f := range schema.Fields {
			v, ok := patch[f.Name]
			if !ok {
				continue
			}
			sets = append(sets, quote(f.Name)+" = ?")
			args = append(args, toColumn(v))
		}
		args = append(args, id)

		stmt := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
			quote(schema.Table), strings.Join(sets, ", "), quote(schema.PrimaryKey))
		res, err := tx.ExecContext(ctx, stmt, args...)
		if err != nil {
			return nil, fmt.Errorf("updating %s: %w", kind, err)
		}
		n, err := res.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("updating %s: %w", kind, err)
		}
		if n == 0 {
			return nil, nil
		}
	}

	updated, err := getTx(ctx, tx, schema, id)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}
	return updated, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, kind ledger.Kind, id string) (bool, error) {
	schema, err := ledger.SchemaFor(kind)
	if err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return false, err
	}

	stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", quote(schema.Table), quote(schema.PrimaryKey))
	res, err := db.ExecContext(ctx, stmt, id)
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("deleting %s: %w", kind, err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Query(ctx context.Context, q ledger.Query) ([]ledger.Fields, error) {
	schema, err := checkQuery(q)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return nil, err
	}

	var (
		b    strings.Builder
		args []any
	)
	fmt.Fprintf(&b, "SELECT %s FROM %s", columnList(schema), quote(schema.Table))
	for i, f := range q.Filters {
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		fmt.Fprintf(&b, "%s %s ?", quote(f.Field), f.Op)
		args = append(args, toColumn(f.Value))
	}

	sortKey := q.SortKey
	if sortKey == "" {
		sortKey = schema.PrimaryKey
	}
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	// rowid breaks ties in insertion order.
	fmt.Fprintf(&b, " ORDER BY %s %s, rowid ASC", quote(sortKey), dir)
	if q.Limit > 0 {
		b.WriteString(" LIMIT ?")
		args = append(args, q.Limit)
	}

	rows, err := db.QueryContext(ctx, b.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.Kind, err)
	}
	defer rows.Close()

	var out []ledger.Fields
	for rows.Next() {
		f, err := scanFields(rows, schema)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying %s: %w", q.Kind, err)
	}
	return out, nil
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteStore) CheckMigrations() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return err
	}
	return migrations.CheckDBMigrationStatus(db)
}

// BackupTo writes a complete copy of the database to destPath using VACUUM INTO.
func (s *SQLiteStore) BackupTo(ctx context.Context, destPath string) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return err
	}
	if _, err := db.ExecContext(ctx, "VACUUM INTO ?", destPath); err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// DumpSchema returns the CREATE statements of the migrated schema,
// excluding SQLite internals and the migration bookkeeping table.
func (s *SQLiteStore) DumpSchema(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	db, err := s.conn()
	if err != nil {
		return "", err
	}

	rows, err := db.QueryContext(ctx, `
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY
		  CASE type
		    WHEN 'table' THEN 1
		    WHEN 'index' THEN 2
		  END,
		  name
	`)
	if err != nil {
		return "", fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	var b strings.Builder
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scan failed: %w", err)
		}
		b.WriteString(stmt)
		b.WriteString("\n\n")
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("rows error: %w", err)
	}
	return b.String(), nil
}

// Close waits for initialization to finish and closes the connection.
// Operations issued afterwards fail with ledger.ErrStoreUnavailable.
func (s *SQLiteStore) Close() error {
	<-s.done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

type queryer interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func getTx(ctx context.Context, q queryer, schema ledger.Schema, id string) (ledger.Fields, error) {
	stmt := fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
		columnList(schema), quote(schema.Table), quote(schema.PrimaryKey))
	f, err := scanFields(q.QueryRowContext(ctx, stmt, id), schema)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil // Not found
		}
		return nil, err
	}
	return f, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanFields reads one row laid out as columnList(schema) into Fields.
// NULL columns are omitted.
func scanFields(row scanner, schema ledger.Schema) (ledger.Fields, error) {
	dest := make([]any, len(schema.Fields))
	for i, f := range schema.Fields {
		switch f.Type {
		case ledger.FieldText:
			dest[i] = new(sql.NullString)
		case ledger.FieldReal:
			dest[i] = new(sql.NullFloat64)
		default:
			dest[i] = new(sql.NullInt64)
		}
	}
	if err := row.Scan(dest...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning %s: %w", schema.Kind, err)
	}

	out := make(ledger.Fields, len(schema.Fields))
	for i, f := range schema.Fields {
		switch v := dest[i].(type) {
		case *sql.NullString:
			if v.Valid {
				out[f.Name] = v.String
			}
		case *sql.NullFloat64:
			if v.Valid {
				out[f.Name] = v.Float64
			}
		case *sql.NullInt64:
			if !v.Valid {
				continue
			}
			if f.Type == ledger.FieldTime {
				out[f.Name] = fromUnixNano(v.Int64)
			} else {
				out[f.Name] = v.Int64
			}
		}
	}
	return out, nil
}

func columnList(schema ledger.Schema) string {
	cols := make([]string, len(schema.Fields))
	for i, f := range schema.Fields {
		cols[i] = quote(f.Name)
	}
	return strings.Join(cols, ", ")
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

// quote quotes an identifier taken from ledger.Schemas.
func quote(name string) string {
	return `"` + name + `"`
}

// Compile-time check that SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)
