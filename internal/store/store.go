package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KV is the persistence adapter behind the task list: a flat string-keyed,
// string-valued store. Get reports ok=false for keys that were never set.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}

type Backend string

const (
	BackendAuto   Backend = ""
	BackendSQLite Backend = "sqlite"
	BackendFile   Backend = "file"
	BackendMemory Backend = "memory"
)

func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendAuto, BackendSQLite, BackendFile, BackendMemory:
		return b, nil
	case "auto":
		return BackendAuto, nil
	default:
		return "", fmt.Errorf("unknown backend: %s (want sqlite|file|memory)", s)
	}
}

type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	if strings.TrimSpace(s.Dir) == "" {
		return errors.New("store dir is empty")
	}
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) sqlitePath() string {
	return filepath.Join(s.Dir, sqliteFileName)
}

func (s Store) filePath() string {
	return filepath.Join(s.Dir, stateFileName)
}

// DetectBackend picks the backend for an existing store dir: sqlite wins when its
// file is present, then the JSON state file; a fresh dir gets sqlite.
func (s Store) DetectBackend() Backend {
	if _, err := os.Stat(s.sqlitePath()); err == nil {
		return BackendSQLite
	}
	if _, err := os.Stat(s.filePath()); err == nil {
		return BackendFile
	}
	return BackendSQLite
}

// Open returns the KV for the requested backend. The caller owns the result and
// must Close it.
func (s Store) Open(ctx context.Context, b Backend) (KV, error) {
	if b == BackendAuto {
		b = s.DetectBackend()
	}
	switch b {
	case BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		if err := s.Ensure(); err != nil {
			return nil, err
		}
		return &FileKV{path: s.filePath()}, nil
	case BackendSQLite:
		return s.openSQLiteKV(ctx)
	default:
		return nil, fmt.Errorf("unknown backend: %s", b)
	}
}

// Memory is a map-backed KV. The zero value is not usable; call NewMemory.
type Memory struct {
	mu sync.Mutex
	m  map[string]string
}

func NewMemory() *Memory {
	return &Memory{m: map[string]string{}}
}

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.m[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.m[key] = value
	return nil
}

func (m *Memory) Close() error { return nil }
