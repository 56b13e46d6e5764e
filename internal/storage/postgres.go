package storage

import (
	"context"
	"errors"

	"parking-client/internal/database"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore keeps session keys in the kv_store table, one row per
// (namespace, key)
type PostgresStore struct {
	DB        *pgxpool.Pool
	namespace string
}

// NewPostgresStore runs the kv_store migration and returns the store
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool, namespace string) (*PostgresStore, error) {
	if namespace == "" {
		namespace = "parking"
	}
	if err := database.NewMigrator(pool, database.SessionStoreMigrations).RunMigrations(ctx); err != nil {
		return nil, err
	}
	return &PostgresStore{DB: pool, namespace: namespace}, nil
}

func (p *PostgresStore) Get(ctx context.Context, key string) (string, bool, error) {
	var value string
	err := p.DB.QueryRow(ctx,
		`SELECT value FROM kv_store WHERE namespace=$1 AND key=$2`,
		p.namespace, key,
	).Scan(&value)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (p *PostgresStore) Set(ctx context.Context, key, value string) error {
	_, err := p.DB.Exec(ctx,
		`INSERT INTO kv_store(namespace, key, value, updated_at)
         VALUES($1, $2, $3, NOW())
         ON CONFLICT (namespace, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`,
		p.namespace, key, value,
	)
	return err
}

func (p *PostgresStore) Remove(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	_, err := p.DB.Exec(ctx,
		`DELETE FROM kv_store WHERE namespace=$1 AND key = ANY($2)`,
		p.namespace, keys,
	)
	return err
}

func (p *PostgresStore) Clear(ctx context.Context) error {
	_, err := p.DB.Exec(ctx, `DELETE FROM kv_store WHERE namespace=$1`, p.namespace)
	return err
}

func (p *PostgresStore) Ping(ctx context.Context) error {
	return p.DB.Ping(ctx)
}

func (p *PostgresStore) Close() error {
	p.DB.Close()
	return nil
}
