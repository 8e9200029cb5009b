package storage

import (
	"sync"
)

// OperationType tells the LockManager whether an operation only reads
// store state or changes it.
type OperationType int

const (
	// ReadOperation may run concurrently with other reads.
	ReadOperation OperationType = iota

	// WriteOperation is exclusive: no reads or writes run alongside it.
	WriteOperation
)

// String returns "read" or "write"
func (o OperationType) String() string {
	if o == WriteOperation {
		return "write"
	}
	return "read"
}

// LockManager centralises the RW locking of an in-process store so every
// operation takes the right lock and releases it on every return path.
type LockManager struct {
	mu sync.RWMutex
}

// NewLockManager creates a ready to use lock manager.
func NewLockManager() *LockManager {
	return &LockManager{}
}

// Execute runs fn holding a read or write lock according to opType.
//
// Example:
//
//	err := lm.Execute(WriteOperation, func() error {
//	    data.Lists = append(data.Lists, list)
//	    return nil
//	})
func (lm *LockManager) Execute(opType OperationType, fn func() error) error {
	switch opType {
	case WriteOperation:
		lm.mu.Lock()
		defer lm.mu.Unlock()
	default:
		lm.mu.RLock()
		defer lm.mu.RUnlock()
	}
	return fn()
}

// Query runs fn under lm with the given lock type and returns its result.
// It exists so callers get a typed value instead of asserting an
// interface{}.
func Query[T any](lm *LockManager, opType OperationType, fn func() (T, error)) (T, error) {
	var out T
	err := lm.Execute(opType, func() error {
		var err error
		out, err = fn()
		return err
	})
	return out, err
}
