package ports

import "context"

// CycleLock is a held cross-instance lock.
type CycleLock interface {
	Release(ctx context.Context) error
}

// CycleLocker provides a cluster-wide mutex so only one instance runs a
// given background cycle at a time.
type CycleLocker interface {
	// TryAcquire takes the lock identified by key without waiting. It
	// returns false and no error when another holder has it.
	TryAcquire(ctx context.Context, key int64) (CycleLock, bool, error)
}
