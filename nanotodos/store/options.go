package store

import (
	"log/slog"
	"time"
)

// MemoryStoreOption is a function that modifies memory store configuration
type MemoryStoreOption func(*memoryStore)

// WithFile persists the store as a JSON snapshot at path.
func WithFile(path string) MemoryStoreOption {
	return func(s *memoryStore) {
		s.filePath = path
	}
}

// WithFileSystem sets a custom FileSystem implementation
func WithFileSystem(fs FileSystem) MemoryStoreOption {
	return func(s *memoryStore) {
		s.fs = fs
	}
}

// WithFileLockFactory sets a custom FileLockFactory implementation
func WithFileLockFactory(factory FileLockFactory) MemoryStoreOption {
	return func(s *memoryStore) {
		s.lockFactory = factory
	}
}

// WithTimeFunc sets the clock used for snapshot metadata
func WithTimeFunc(fn func() time.Time) MemoryStoreOption {
	return func(s *memoryStore) {
		s.timeFunc = fn
	}
}

// WithLogger sets the memory store logger
func WithLogger(logger *slog.Logger) MemoryStoreOption {
	return func(s *memoryStore) {
		s.logger = logger
	}
}

// SQLStoreOption is a function that modifies SQL store configuration
type SQLStoreOption func(*sqlStore)

// WithSQLLogger sets the logger that receives every executed statement at
// debug level.
func WithSQLLogger(logger *slog.Logger) SQLStoreOption {
	return func(s *sqlStore) {
		s.logger = logger
	}
}

// WithMaxConcurrentFetches bounds how many todo queries AllLists runs at
// once.
func WithMaxConcurrentFetches(n int) SQLStoreOption {
	return func(s *sqlStore) {
		if n > 0 {
			s.maxFetches = n
		}
	}
}
