package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/investor-cli/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY,
	tenant     TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	input      TEXT NOT NULL,
	result     TEXT NOT NULL,
	dscr       REAL NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS tenants (
	slug       TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id          TEXT PRIMARY KEY,
	tenant      TEXT NOT NULL,
	property    TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	amount      REAL NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	occurred_at DATETIME NOT NULL,
	created_at  DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scenarios_tenant ON scenarios(tenant);
CREATE INDEX IF NOT EXISTS idx_ledger_tenant ON ledger_entries(tenant);
CREATE INDEX IF NOT EXISTS idx_ledger_occurred_at ON ledger_entries(occurred_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScenario(ctx context.Context, sc model.SavedScenario) (*model.SavedScenario, error) {
	sc.ID = uuid.New().String()
	sc.CreatedAt = time.Now().UTC()
	sc.DSCR = sc.Result.DSCR

	inputJSON, err := json.Marshal(sc.Input)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal input")
	}
	resultJSON, err := json.Marshal(sc.Result)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: marshal result")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO scenarios (id, tenant, label, input, result, dscr, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		sc.ID, sc.Tenant, sc.Label, string(inputJSON), string(resultJSON), sc.DSCR, sc.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert scenario")
	}
	return &sc, nil
}

func (s *SQLiteStore) GetScenario(ctx context.Context, id string) (*model.SavedScenario, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, tenant, label, input, result, dscr, created_at FROM scenarios WHERE id = ?`,
		id,
	)
	sc, err := scanScenario(row)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "scenario %s", id)
	}
	return sc, err
}

func (s *SQLiteStore) ListScenarios(ctx context.Context, filter ScenarioFilter) ([]model.SavedScenario, error) {
	query := `SELECT id, tenant, label, input, result, dscr, created_at FROM scenarios WHERE 1=1`
	var args []any

	if filter.Tenant != "" {
		query += ` AND tenant = ?`
		args = append(args, filter.Tenant)
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}
	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scenarios")
	}
	defer rows.Close()

	var out []model.SavedScenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *sc)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list scenarios")
}

func (s *SQLiteStore) DeleteScenario(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM scenarios WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete scenario %s", id)
	}
	return checkRowsAffected(res, "scenario", id)
}

func (s *SQLiteStore) PutTenant(ctx context.Context, t model.Tenant) error {
	data, err := json.Marshal(t)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal tenant")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO tenants (slug, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(slug) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		t.Slug, string(data), time.Now().UTC(),
	)
	return eris.Wrapf(err, "sqlite: put tenant %s", t.Slug)
}

func (s *SQLiteStore) GetTenant(ctx context.Context, slug string) (*model.Tenant, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM tenants WHERE slug = ?`, slug).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, eris.Wrapf(ErrNotFound, "tenant %s", slug)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get tenant %s", slug)
	}

	var t model.Tenant
	if err := json.Unmarshal([]byte(data), &t); err != nil {
		return nil, eris.Wrapf(err, "sqlite: unmarshal tenant %s", slug)
	}
	return &t, nil
}

func (s *SQLiteStore) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM tenants ORDER BY slug`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list tenants")
	}
	defer rows.Close()

	var out []model.Tenant
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan tenant")
		}
		var t model.Tenant
		if err := json.Unmarshal([]byte(data), &t); err != nil {
			return nil, eris.Wrap(err, "sqlite: unmarshal tenant")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list tenants")
}

func (s *SQLiteStore) AddEntry(ctx context.Context, e model.LedgerEntry) (*model.LedgerEntry, error) {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = e.CreatedAt
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO ledger_entries (id, tenant, property, kind, category, amount, note, occurred_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.Tenant, e.Property, string(e.Kind), e.Category, e.Amount, e.Note, e.OccurredAt, e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert ledger entry")
	}
	return &e, nil
}

func (s *SQLiteStore) ListEntries(ctx context.Context, filter EntryFilter) ([]model.LedgerEntry, error) {
	query := `SELECT id, tenant, property, kind, category, amount, note, occurred_at, created_at
	          FROM ledger_entries WHERE 1=1`
	var args []any

	if filter.Tenant != "" {
		query += ` AND tenant = ?`
		args = append(args, filter.Tenant)
	}
	if filter.Property != "" {
		query += ` AND property = ?`
		args = append(args, filter.Property)
	}
	if filter.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(filter.Kind))
	}
	if !filter.From.IsZero() {
		query += ` AND occurred_at >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND occurred_at < ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY occurred_at DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list ledger entries")
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.Tenant, &e.Property, &kind, &e.Category, &e.Amount, &e.Note, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan ledger entry")
		}
		e.Kind = model.EntryKind(kind)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "sqlite: list ledger entries")
}

func (s *SQLiteStore) DeleteEntry(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM ledger_entries WHERE id = ?`, id)
	if err != nil {
		return eris.Wrapf(err, "sqlite: delete ledger entry %s", id)
	}
	return checkRowsAffected(res, "ledger entry", id)
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanScenario(row rowScanner) (*model.SavedScenario, error) {
	var sc model.SavedScenario
	var inputJSON, resultJSON string

	err := row.Scan(&sc.ID, &sc.Tenant, &sc.Label, &inputJSON, &resultJSON, &sc.DSCR, &sc.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan scenario")
	}

	if err := json.Unmarshal([]byte(inputJSON), &sc.Input); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal input")
	}
	if err := json.Unmarshal([]byte(resultJSON), &sc.Result); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal result")
	}
	return &sc, nil
}

func checkRowsAffected(res sql.Result, kind, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrapf(err, "sqlite: rows affected for %s %s", kind, id)
	}
	if n == 0 {
		return eris.Wrapf(ErrNotFound, "%s %s", kind, id)
	}
	return nil
}
