package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"pos-service/config"
	"pos-service/internal/util"

	_ "github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store wraps the pooled MySQL connection. Single prepared statements go
// through the helpers below; transactional work (locking reads, stored
// operations that must share a connection) goes through BeginTx so all
// statements ride one connection until commit or rollback.
type Store struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewStore opens the connection pool and performs one diagnostic ping.
func NewStore(cfg config.DatabaseConfig) (*Store, error) {
	db, err := sqlx.Connect("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMins) * time.Minute)

	s := &Store{db: db, logger: util.GetLogger()}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	s.logger.Info("Connected to the database")

	return s, nil
}

// NewStoreFromDB wraps an already-open connection. Used by tests that
// back the store with a mock driver.
func NewStoreFromDB(db *sqlx.DB) *Store {
	return &Store{db: db, logger: util.GetLogger()}
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// GetDB returns the underlying database connection
func (s *Store) GetDB() *sqlx.DB {
	return s.db
}

// BeginTx starts a transaction pinned to one pooled connection.
func (s *Store) BeginTx(ctx context.Context) (*sqlx.Tx, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// get runs a single-row prepared statement. Errors are logged with the
// statement for context and returned unchanged; no retries here.
func (s *Store) get(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.GetContext(ctx, dest, query, args...)
	if err != nil && err != sql.ErrNoRows {
		s.logger.Error("Query failed", zap.String("query", query), zap.Error(err))
	}
	return err
}

// selectAll runs a multi-row prepared statement.
func (s *Store) selectAll(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	err := s.db.SelectContext(ctx, dest, query, args...)
	if err != nil {
		s.logger.Error("Query failed", zap.String("query", query), zap.Error(err))
	}
	return err
}

// exec runs a statement and returns the affected row count.
func (s *Store) exec(ctx context.Context, query string, args ...interface{}) (int64, error) {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Exec failed", zap.String("query", query), zap.Error(err))
		return 0, err
	}
	affected, _ := res.RowsAffected()
	return affected, nil
}

// callRow invokes a stored operation and scans its first result row into
// dest. Stored-procedure result shapes vary by call, so every site scans
// into an explicit struct rather than trusting positional access.
func (s *Store) callRow(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Stored call failed", zap.String("query", query), zap.Error(err))
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

// callVoid invokes a stored operation whose result rows we do not need.
func (s *Store) callVoid(ctx context.Context, query string, args ...interface{}) error {
	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Stored call failed", zap.String("query", query), zap.Error(err))
		return err
	}
	return rows.Close()
}

// callRowTx is callRow on an open transaction.
func (s *Store) callRowTx(ctx context.Context, tx *sqlx.Tx, dest interface{}, query string, args ...interface{}) error {
	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Stored call failed in tx", zap.String("query", query), zap.Error(err))
		return err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return err
		}
		return sql.ErrNoRows
	}
	return rows.StructScan(dest)
}

// callVoidTx is callVoid on an open transaction.
func (s *Store) callVoidTx(ctx context.Context, tx *sqlx.Tx, query string, args ...interface{}) error {
	rows, err := tx.QueryxContext(ctx, query, args...)
	if err != nil {
		s.logger.Error("Stored call failed in tx", zap.String("query", query), zap.Error(err))
		return err
	}
	return rows.Close()
}
