package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"fleetwise/internal/core/ports"

	// Registers the "postgres" database/sql driver for the lock pool.
	_ "github.com/lib/pq"
)

// OpenLockPool opens the small dedicated pool that holds session-level
// advisory locks. Locks are held on a pinned connection for a whole cycle,
// so they are kept off the pool that serves requests.
func OpenLockPool(dsn string, maxConns int) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open lock pool: %w", err)
	}
	if maxConns > 0 {
		db.SetMaxOpenConns(maxConns)
		db.SetMaxIdleConns(maxConns)
	}
	return db, nil
}

// AdvisoryLockManager implements ports.CycleLocker with PostgreSQL
// session-level advisory locks.
type AdvisoryLockManager struct {
	db *sql.DB
}

func NewAdvisoryLockManager(db *sql.DB) *AdvisoryLockManager {
	return &AdvisoryLockManager{db: db}
}

// TryAcquire takes the advisory lock without waiting. The connection that
// took it stays pinned until Release.
func (m *AdvisoryLockManager) TryAcquire(ctx context.Context, key int64) (ports.CycleLock, bool, error) {
	conn, err := m.db.Conn(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("pin lock connection: %w", err)
	}

	var acquired bool
	if err := conn.QueryRowContext(ctx, "SELECT pg_try_advisory_lock($1)", key).Scan(&acquired); err != nil {
		_ = conn.Close()
		return nil, false, fmt.Errorf("try advisory lock %d: %w", key, err)
	}
	if !acquired {
		_ = conn.Close()
		return nil, false, nil
	}

	return &advisoryLock{conn: conn, key: key}, true, nil
}

type advisoryLock struct {
	conn *sql.Conn
	key  int64
}

// Release unlocks and returns the pinned connection to the pool. Closing
// the session also drops the lock if the unlock itself failed.
func (l *advisoryLock) Release(ctx context.Context) error {
	var released bool
	err := l.conn.QueryRowContext(ctx, "SELECT pg_advisory_unlock($1)", l.key).Scan(&released)
	closeErr := l.conn.Close()
	if err != nil {
		return fmt.Errorf("advisory unlock %d: %w", l.key, err)
	}
	if !released {
		return fmt.Errorf("advisory lock %d was not held", l.key)
	}
	return closeErr
}
