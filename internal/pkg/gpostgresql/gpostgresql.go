package gpostgresql

import (
	"context"
	"fmt"
	"strings"

	"geoloc193/internal/config"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/useinsider/go-pkg/inslogger"
)

// PoolConfig builds the pgxpool settings for dbConfig without connecting.
func PoolConfig(dbConfig *config.DatabaseConfig) (*pgxpool.Config, error) {
	connString := strings.TrimSpace(fmt.Sprintf(
		"user=%s password=%s dbname=%s host=%s port=%d",
		dbConfig.User,
		dbConfig.Password,
		dbConfig.Name,
		dbConfig.Host,
		dbConfig.Port,
	))

	poolConfig, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse pool config: %w", err)
	}

	if dbConfig.MaxConns > 0 {
		poolConfig.MaxConns = dbConfig.MaxConns
	}
	if dbConfig.MinConns > 0 {
		poolConfig.MinConns = dbConfig.MinConns
	}
	if poolConfig.MinConns > poolConfig.MaxConns {
		return nil, fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", poolConfig.MinConns, poolConfig.MaxConns)
	}
	if dbConfig.MaxConnLifetime > 0 {
		poolConfig.MaxConnLifetime = dbConfig.MaxConnLifetime
	}
	if dbConfig.MaxConnIdleTime > 0 {
		poolConfig.MaxConnIdleTime = dbConfig.MaxConnIdleTime
	}
	if dbConfig.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = dbConfig.HealthCheckPeriod
	}
	if dbConfig.ConnectTimeout > 0 {
		poolConfig.ConnConfig.ConnectTimeout = dbConfig.ConnectTimeout
	}
	return poolConfig, nil
}

// NewDBConnection opens the pool and pings it once before handing it out.
func NewDBConnection(ctx context.Context, dbConfig *config.DatabaseConfig, logger inslogger.Interface) (*pgxpool.Pool, error) {
	poolConfig, err := PoolConfig(dbConfig)
	if err != nil {
		logger.Errorf("Error building pool config: %v", err)
		return nil, err
	}

	db, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		logger.Errorf("Error connecting to database: %v", err)
		return nil, err
	}

	pingCtx := ctx
	if dbConfig.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, dbConfig.ConnectTimeout)
		defer cancel()
	}
	if err := db.Ping(pingCtx); err != nil {
		db.Close()
		logger.Errorf("Error pinging database %s:%d: %v", dbConfig.Host, dbConfig.Port, err)
		return nil, err
	}

	logger.Logf("Connected to PostgreSQL %s:%d/%s (max %d conns)", dbConfig.Host, dbConfig.Port, dbConfig.Name, poolConfig.MaxConns)
	return db, nil
}

func Close(pool *pgxpool.Pool, logger inslogger.Interface) {
	if pool != nil {
		logger.Log("Closing PostgreSQL connection pool")
		pool.Close()
	}
}
