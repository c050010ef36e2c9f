package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/investor-cli/internal/db"
	"github.com/sells-group/investor-cli/internal/model"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// the hot paths: compute-and-save and tenant resolution.
var preparedStatements = map[string]string{
	"insert_scenario": `INSERT INTO scenarios (id, tenant, label, input, result, dscr, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
	"get_scenario":    `SELECT id, tenant, label, input, result, dscr, created_at FROM scenarios WHERE id = $1`,
	"delete_scenario": `DELETE FROM scenarios WHERE id = $1`,
	"get_tenant":      `SELECT data FROM tenants WHERE slug = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS scenarios (
	id         TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant     TEXT NOT NULL,
	label      TEXT NOT NULL DEFAULT '',
	input      JSONB NOT NULL,
	result     JSONB NOT NULL,
	dscr       DOUBLE PRECISION NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS tenants (
	slug       TEXT PRIMARY KEY,
	data       JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS ledger_entries (
	id          TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	tenant      TEXT NOT NULL,
	property    TEXT NOT NULL DEFAULT '',
	kind        TEXT NOT NULL,
	category    TEXT NOT NULL DEFAULT '',
	amount      DOUBLE PRECISION NOT NULL,
	note        TEXT NOT NULL DEFAULT '',
	occurred_at TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_scenarios_tenant ON scenarios(tenant);
CREATE INDEX IF NOT EXISTS idx_ledger_tenant ON ledger_entries(tenant);
CREATE INDEX IF NOT EXISTS idx_ledger_occurred_at ON ledger_entries(occurred_at);
`

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveScenario(ctx context.Context, sc model.SavedScenario) (*model.SavedScenario, error) {
	sc.ID = uuid.New().String()
	sc.CreatedAt = time.Now().UTC()
	sc.DSCR = sc.Result.DSCR

	inputJSON, err := json.Marshal(sc.Input)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal input")
	}
	resultJSON, err := json.Marshal(sc.Result)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: marshal result")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO scenarios (id, tenant, label, input, result, dscr, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		sc.ID, sc.Tenant, sc.Label, inputJSON, resultJSON, sc.DSCR, sc.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert scenario")
	}
	return &sc, nil
}

func (s *PostgresStore) GetScenario(ctx context.Context, id string) (*model.SavedScenario, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, tenant, label, input, result, dscr, created_at FROM scenarios WHERE id = $1`,
		id,
	)

	sc, err := scanPgScenario(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "scenario %s", id)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get scenario %s", id)
	}
	return sc, nil
}

func (s *PostgresStore) ListScenarios(ctx context.Context, filter ScenarioFilter) ([]model.SavedScenario, error) {
	query := `SELECT id, tenant, label, input, result, dscr, created_at FROM scenarios WHERE 1=1`
	var args []any

	if filter.Tenant != "" {
		args = append(args, filter.Tenant)
		query += ` AND tenant = $1`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += placeholderSuffix(` LIMIT`, len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += placeholderSuffix(` OFFSET`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scenarios")
	}
	defer rows.Close()

	var out []model.SavedScenario
	for rows.Next() {
		sc, err := scanPgScenario(rows)
		if err != nil {
			return nil, eris.Wrap(err, "postgres: list scenarios")
		}
		out = append(out, *sc)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list scenarios")
}

func (s *PostgresStore) DeleteScenario(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete scenario %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "scenario %s", id)
	}
	return nil
}

func (s *PostgresStore) PutTenant(ctx context.Context, t model.Tenant) error {
	data, err := json.Marshal(t)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal tenant")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO tenants (slug, data, updated_at) VALUES ($1, $2, $3)
		 ON CONFLICT (slug) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at`,
		t.Slug, data, time.Now().UTC(),
	)
	return eris.Wrapf(err, "postgres: put tenant %s", t.Slug)
}

func (s *PostgresStore) GetTenant(ctx context.Context, slug string) (*model.Tenant, error) {
	var data []byte
	err := s.pool.QueryRow(ctx, `SELECT data FROM tenants WHERE slug = $1`, slug).Scan(&data)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, eris.Wrapf(ErrNotFound, "tenant %s", slug)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: get tenant %s", slug)
	}

	var t model.Tenant
	if err := json.Unmarshal(data, &t); err != nil {
		return nil, eris.Wrapf(err, "postgres: unmarshal tenant %s", slug)
	}
	return &t, nil
}

func (s *PostgresStore) ListTenants(ctx context.Context) ([]model.Tenant, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM tenants ORDER BY slug`)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list tenants")
	}
	defer rows.Close()

	var out []model.Tenant
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, eris.Wrap(err, "postgres: scan tenant")
		}
		var t model.Tenant
		if err := json.Unmarshal(data, &t); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal tenant")
		}
		out = append(out, t)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list tenants")
}

func (s *PostgresStore) AddEntry(ctx context.Context, e model.LedgerEntry) (*model.LedgerEntry, error) {
	e.ID = uuid.New().String()
	e.CreatedAt = time.Now().UTC()
	if e.OccurredAt.IsZero() {
		e.OccurredAt = e.CreatedAt
	}

	_, err := s.pool.Exec(ctx,
		`INSERT INTO ledger_entries (id, tenant, property, kind, category, amount, note, occurred_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.Tenant, e.Property, string(e.Kind), e.Category, e.Amount, e.Note, e.OccurredAt, e.CreatedAt,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert ledger entry")
	}
	return &e, nil
}

func (s *PostgresStore) ListEntries(ctx context.Context, filter EntryFilter) ([]model.LedgerEntry, error) {
	query := `SELECT id, tenant, property, kind, category, amount, note, occurred_at, created_at
	          FROM ledger_entries WHERE 1=1`
	var args []any

	if filter.Tenant != "" {
		args = append(args, filter.Tenant)
		query += placeholderSuffix(` AND tenant =`, len(args))
	}
	if filter.Property != "" {
		args = append(args, filter.Property)
		query += placeholderSuffix(` AND property =`, len(args))
	}
	if filter.Kind != "" {
		args = append(args, string(filter.Kind))
		query += placeholderSuffix(` AND kind =`, len(args))
	}
	if !filter.From.IsZero() {
		args = append(args, filter.From)
		query += placeholderSuffix(` AND occurred_at >=`, len(args))
	}
	if !filter.To.IsZero() {
		args = append(args, filter.To)
		query += placeholderSuffix(` AND occurred_at <`, len(args))
	}
	query += ` ORDER BY occurred_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += placeholderSuffix(` LIMIT`, len(args))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list ledger entries")
	}
	defer rows.Close()

	var out []model.LedgerEntry
	for rows.Next() {
		var e model.LedgerEntry
		var kind string
		if err := rows.Scan(&e.ID, &e.Tenant, &e.Property, &kind, &e.Category, &e.Amount, &e.Note, &e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan ledger entry")
		}
		e.Kind = model.EntryKind(kind)
		out = append(out, e)
	}
	return out, eris.Wrap(rows.Err(), "postgres: list ledger entries")
}

func (s *PostgresStore) DeleteEntry(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM ledger_entries WHERE id = $1`, id)
	if err != nil {
		return eris.Wrapf(err, "postgres: delete ledger entry %s", id)
	}
	if tag.RowsAffected() == 0 {
		return eris.Wrapf(ErrNotFound, "ledger entry %s", id)
	}
	return nil
}

func scanPgScenario(row pgx.Row) (*model.SavedScenario, error) {
	var sc model.SavedScenario
	var inputJSON, resultJSON []byte

	if err := row.Scan(&sc.ID, &sc.Tenant, &sc.Label, &inputJSON, &resultJSON, &sc.DSCR, &sc.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(inputJSON, &sc.Input); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal input")
	}
	if err := json.Unmarshal(resultJSON, &sc.Result); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal result")
	}
	return &sc, nil
}

// placeholderSuffix appends a numbered placeholder, e.g. " LIMIT $3".
func placeholderSuffix(prefix string, n int) string {
	return fmt.Sprintf("%s $%d", prefix, n)
}
