package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"
)

// Locker acquires an exclusive lock for a key. The returned release
// function must be called exactly once.
type Locker interface {
	Lock(ctx context.Context, key int64) (release func(), err error)
}

// AdvisoryLocker implements Locker with PostgreSQL session-level advisory
// locks. Each held lock pins one pooled connection until released.
type AdvisoryLocker struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewAdvisoryLocker creates an AdvisoryLocker over the given pool.
func NewAdvisoryLocker(db *sql.DB, logger *slog.Logger) *AdvisoryLocker {
	return &AdvisoryLocker{
		db:     db,
		logger: logger.With("system", "locker"),
	}
}

// Lock blocks until the advisory lock for key is granted or ctx is done.
func (l *AdvisoryLocker) Lock(ctx context.Context, key int64) (func(), error) {
	conn, err := l.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire lock connection: %w", err)
	}

	if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_lock($1)", key); err != nil {
		conn.Close()
		return nil, fmt.Errorf("acquire advisory lock %d: %w", key, err)
	}

	l.logger.Debug("advisory lock acquired", "key", key)

	return func() {
		// the caller's context may already be cancelled here
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := conn.ExecContext(ctx, "SELECT pg_advisory_unlock($1)", key); err != nil {
			l.logger.Error("advisory unlock failed", "key", key, "error", err)
		}
		conn.Close()
	}, nil
}
