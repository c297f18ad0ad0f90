package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/konstantinfoerster/scryfall-go/internal/config"
	"github.com/rs/zerolog/log"
)

type DBConnection struct {
	Conn   DBConn
	pgxCon *pgxpool.Pool
}

func Connect(ctx context.Context, cfg config.Database) (*DBConnection, error) {
	c, err := pgxpool.ParseConfig(cfg.ConnectionURL())
	if err != nil {
		return nil, err
	}
	c.MaxConnLifetime = time.Minute * 5
	c.MaxConnIdleTime = time.Second * 30
	c.HealthCheckPeriod = time.Second * 10
	c.MaxConns = cfg.MaxConnectionsOrDefault()
	log.Info().Msgf("max database connection is set to %d", c.MaxConns)

	pool, err := pgxpool.ConnectConfig(ctx, c)
	if err != nil {
		return nil, err
	}

	if err = pool.Ping(ctx); err != nil {
		pool.Close()

		return nil, err
	}

	return &DBConnection{
		Conn:   pool,
		pgxCon: pool,
	}, nil
}

func (d *DBConnection) Close() error {
	d.pgxCon.Close()

	return nil
}

// WithTransaction runs f inside a read committed transaction, the transaction is rolled back if f fails.
func (d *DBConnection) WithTransaction(ctx context.Context, f func(conn *DBConnection) error) error {
	switch d.Conn.(type) {
	case pgx.Tx:
		return fmt.Errorf("already inside a transaction")
	default:
		opts := pgx.TxOptions{AccessMode: pgx.ReadWrite, IsoLevel: pgx.ReadCommitted}

		return d.pgxCon.BeginTxFunc(ctx, opts, func(t pgx.Tx) error {
			return f(&DBConnection{
				Conn:   t,
				pgxCon: d.pgxCon,
			})
		})
	}
}

// Cleanup truncates all catalog tables.
func (d *DBConnection) Cleanup(ctx context.Context) error {
	tables := []string{
		"card_legality",
		"card_face",
		"card",
		"card_set",
	}
	_, err := d.Conn.Exec(ctx, fmt.Sprintf("TRUNCATE %s RESTART IDENTITY CASCADE", strings.Join(tables, ",")))

	return err
}

// DBConn implemented by pgxpool.Pool and pgx.Tx
type DBConn interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, optionsAndArgs ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, optionsAndArgs ...interface{}) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}
