package database

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

type Options struct {
	MaxOpenConns int
	MaxIdleConns int
	Attempts     int
}

// Connect opens the Postgres pool and retries the first ping so the server can
// start alongside a database container that is still booting.
func Connect(ctx context.Context, dsn string, opts Options) (*sqlx.DB, error) {
	if opts.Attempts <= 0 {
		opts.Attempts = 10
	}
	db, err := sqlx.Open("postgres", dsn)
	if err != nil {
		return nil, errors.Wrap(err, "database.Connect.Open")
	}
	if opts.MaxOpenConns > 0 {
		db.SetMaxOpenConns(opts.MaxOpenConns)
	}
	if opts.MaxIdleConns > 0 {
		db.SetMaxIdleConns(opts.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	for i := 0; i < opts.Attempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			return db, nil
		}
		log.Warn().Err(err).Int("attempt", i+1).Msg("database not ready")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(time.Duration(500+i*200) * time.Millisecond):
		}
	}
	db.Close()
	return nil, errors.Wrap(err, "database.Connect.Ping")
}
