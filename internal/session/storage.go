package session

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// Storage persiste el bundle de sesión. Load devuelve (nil, nil) cuando
// no hay sesión guardada.
type Storage interface {
	Load() (*Bundle, error)
	Save(*Bundle) error
	Clear() error
}

// MemoryStorage guarda el bundle en memoria. Para tests y procesos
// efímeros.
type MemoryStorage struct {
	mu sync.Mutex
	b  *Bundle
}

func NewMemoryStorage() *MemoryStorage { return &MemoryStorage{} }

func (m *MemoryStorage) Load() (*Bundle, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.b == nil {
		return nil, nil
	}
	cp := *m.b
	return &cp, nil
}

func (m *MemoryStorage) Save(b *Bundle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *b
	m.b = &cp
	return nil
}

func (m *MemoryStorage) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.b = nil
	return nil
}

// FileStorage guarda el bundle como JSON con permisos 0600. Para la CLI.
type FileStorage struct {
	path string
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

// DefaultSessionPath es ~/.dartsstats/session.json.
func DefaultSessionPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dartsstats", "session.json"), nil
}

func (f *FileStorage) Load() (*Bundle, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var b Bundle
	if err := json.Unmarshal(data, &b); err != nil {
		// Archivo corrupto: tratarlo como sin sesión.
		return nil, nil
	}
	return &b, nil
}

func (f *FileStorage) Save(b *Bundle) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o600)
}

func (f *FileStorage) Clear() error {
	err := os.Remove(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return err
}
