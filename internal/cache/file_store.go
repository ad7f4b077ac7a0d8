package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

type fileStore struct {
	dir string
}

// NewFileStore keeps one JSON file per key under dir.
func NewFileStore(dir string) Store {
	return &fileStore{dir: dir}
}

// DefaultStateDir is ~/.bundle-evaluator, or a temp dir when home is unknown.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return filepath.Join(os.TempDir(), "bundle-evaluator")
	}
	return filepath.Join(home, ".bundle-evaluator")
}

func (s *fileStore) path(key string) (string, error) {
	clean := strings.TrimSpace(key)
	if clean == "" || strings.ContainsAny(clean, `/\`) || strings.HasPrefix(clean, ".") {
		return "", fmt.Errorf("cache: invalid key %q", key)
	}
	return filepath.Join(s.dir, clean+".json"), nil
}

func (s *fileStore) Load(_ context.Context, key string) ([]byte, bool, error) {
	p, err := s.path(key)
	if err != nil {
		return nil, false, err
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache: read %s: %w", key, err)
	}
	return data, true, nil
}

func (s *fileStore) Save(_ context.Context, key string, value []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("cache: ensure dir: %w", err)
	}
	tmp := p + ".tmp"
	if err := os.WriteFile(tmp, value, 0o644); err != nil {
		return fmt.Errorf("cache: write %s: %w", key, err)
	}
	return os.Rename(tmp, p)
}
