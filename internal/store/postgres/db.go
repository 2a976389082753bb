package postgres

import (
	"context"
	"database/sql"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"

	"agendei/internal/config"
)

// Connect opens the professionals directory database and verifies the
// connection before handing it out. The directory is read-mostly and queried
// once per session start, so the default pool is deliberately small.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*bun.DB, error) {
	sqlDB, err := sql.Open("pgx", cfg.URL)
	if err != nil {
		return nil, err
	}

	maxOpen, maxIdle := poolLimits(cfg)
	sqlDB.SetMaxOpenConns(maxOpen)
	sqlDB.SetMaxIdleConns(maxIdle)
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, err
	}

	return bun.NewDB(sqlDB, pgdialect.New()), nil
}

// poolLimits resolves zero-valued knobs. Idle connections never drop to
// zero: the integration tests pin a single connection and rely on it being
// reused.
func poolLimits(cfg config.DatabaseConfig) (maxOpen, maxIdle int) {
	maxOpen = cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = 16
	}
	maxIdle = cfg.MaxIdleConns
	if maxIdle <= 0 {
		maxIdle = maxOpen / 2
	}
	if maxIdle < 1 {
		maxIdle = 1
	}
	if maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	return maxOpen, maxIdle
}

func Close(db *bun.DB) error {
	if db == nil {
		return nil
	}
	return db.Close()
}
