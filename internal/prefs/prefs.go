// Package prefs stores the user's menu choices as flat key/value pairs.
//
// Values are never cached: every read goes to the backing store and every
// write is persisted before the setter returns.
package prefs

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/Danondso/menumic/internal/config"
)

// Preference keys.
const (
	KeepInputActive    = "keepInputActive"
	KeepOutputBalanced = "keepOutputBalanced"
	InputDeviceID      = "inputDeviceID"
)

// Store is a flat key/value preference store. Missing keys read as the zero value.
type Store interface {
	Bool(key string) bool
	SetBool(key string, v bool) error
	Int(key string) int
	SetInt(key string, v int) error
}

// Toggle flips a boolean preference and returns the stored value afterwards.
func Toggle(s Store, key string) (bool, error) {
	if err := s.SetBool(key, !s.Bool(key)); err != nil {
		return s.Bool(key), err
	}
	return s.Bool(key), nil
}

// DefaultPath returns the preferences file location next to the config file.
func DefaultPath() string {
	return filepath.Join(config.Dir(), "preferences.toml")
}

// File is a Store persisted as a single TOML table.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a File store at path. The file is created on first write.
func NewFile(path string) *File {
	return &File{path: path}
}

// Path returns the backing file path.
func (f *File) Path() string {
	return f.path
}

func (f *File) read() (map[string]any, error) {
	values := map[string]any{}
	_, err := toml.DecodeFile(f.path, &values)
	if errors.Is(err, os.ErrNotExist) {
		return values, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read preferences: %w", err)
	}
	return values, nil
}

func (f *File) set(key string, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		// A corrupt file is replaced rather than blocking every future write.
		values = map[string]any{}
	}
	values[key] = v
	if err := config.WriteTOMLAtomic(f.path, values); err != nil {
		return fmt.Errorf("write preferences: %w", err)
	}
	return nil
}

func (f *File) get(key string) any {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return nil
	}
	return values[key]
}

func (f *File) Bool(key string) bool {
	b, _ := f.get(key).(bool)
	return b
}

func (f *File) SetBool(key string, v bool) error {
	return f.set(key, v)
}

func (f *File) Int(key string) int {
	switch n := f.get(key).(type) {
	case int64:
		return int(n)
	case int:
		return n
	}
	return 0
}

func (f *File) SetInt(key string, v int) error {
	return f.set(key, int64(v))
}

// Memory is an in-process Store, used by tests and as a fallback when no
// writable location exists.
type Memory struct {
	mu     sync.Mutex
	values map[string]any
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{values: map[string]any{}}
}

func (m *Memory) Bool(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, _ := m.values[key].(bool)
	return b
}

func (m *Memory) SetBool(key string, v bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = v
	return nil
}

func (m *Memory) Int(key string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, _ := m.values[key].(int)
	return n
}

func (m *Memory) SetInt(key string, v int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = v
	return nil
}
