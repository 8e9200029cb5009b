package store

import (
	"context"
	"io/fs"
	"sync"
	"time"
)

// mockFileSystem is an in-memory FileSystem with injectable failures.
type mockFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte

	ReadFileError  error
	WriteFileError error
	RenameError    error
	writes         int
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{files: make(map[string][]byte)}
}

func (m *mockFileSystem) ReadFile(name string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadFileError != nil {
		return nil, m.ReadFileError
	}
	data, ok := m.files[name]
	if !ok {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), data...), nil
}

func (m *mockFileSystem) WriteFile(name string, data []byte, _ fs.FileMode) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteFileError != nil {
		return m.WriteFileError
	}
	m.writes++
	m.files[name] = append([]byte(nil), data...)
	return nil
}

func (m *mockFileSystem) Rename(oldpath, newpath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.RenameError != nil {
		return m.RenameError
	}
	data, ok := m.files[oldpath]
	if !ok {
		return fs.ErrNotExist
	}
	m.files[newpath] = data
	delete(m.files, oldpath)
	return nil
}

func (m *mockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

func (m *mockFileSystem) content(name string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	return data, ok
}

// mockFileLock records lock traffic.
type mockFileLock struct {
	mu        sync.Mutex
	locked    bool
	lockErr   error
	attempts  int
	unlocks   int
	neverFree bool
}

func (l *mockFileLock) TryLockContext(ctx context.Context, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts++
	if l.lockErr != nil {
		return false, l.lockErr
	}
	if l.locked || l.neverFree {
		return false, nil
	}
	l.locked = true
	return true, nil
}

func (l *mockFileLock) Unlock() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.unlocks++
	l.locked = false
	return nil
}

func (l *mockFileLock) isLocked() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.locked
}

type mockLockFactory struct {
	mu    sync.Mutex
	locks map[string]*mockFileLock
}

func newMockLockFactory() *mockLockFactory {
	return &mockLockFactory{locks: make(map[string]*mockFileLock)}
}

func (f *mockLockFactory) New(path string) FileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.locks[path]; ok {
		return l
	}
	l := &mockFileLock{}
	f.locks[path] = l
	return l
}

func (f *mockLockFactory) get(path string) *mockFileLock {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.locks[path]
}
