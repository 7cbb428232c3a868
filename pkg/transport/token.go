package transport

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/afero"
)

// TokenStore supplies the Bearer token attached to each request and forgets
// it when the backend reports the token as expired.
type TokenStore interface {
	// Token returns the current token, or "" when the caller is anonymous.
	Token(ctx context.Context) (string, error)
	// Clear discards the stored token.
	Clear(ctx context.Context) error
}

// StaticToken is a TokenStore holding a fixed token. Clear is a no-op.
type StaticToken string

func (t StaticToken) Token(context.Context) (string, error) { return string(t), nil }

func (t StaticToken) Clear(context.Context) error { return nil }

// MemoryTokenStore keeps a token in memory.
type MemoryTokenStore struct {
	mu    sync.RWMutex
	token string
}

// NewMemoryTokenStore returns a store holding token.
func NewMemoryTokenStore(token string) *MemoryTokenStore {
	return &MemoryTokenStore{token: token}
}

func (s *MemoryTokenStore) Token(context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, nil
}

// Set replaces the stored token.
func (s *MemoryTokenStore) Set(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
}

func (s *MemoryTokenStore) Clear(context.Context) error {
	s.Set("")
	return nil
}

// FileTokenStore persists the token in a file, the way the mobile app keeps
// it in device storage between launches.
type FileTokenStore struct {
	fs   afero.Fs
	path string
	mu   sync.Mutex
}

// NewFileTokenStore returns a store backed by path on fsys. A nil fsys uses
// the OS filesystem. A leading "~/" in path is expanded to the home
// directory.
func NewFileTokenStore(fsys afero.Fs, path string) (*FileTokenStore, error) {
	if fsys == nil {
		fsys = afero.NewOsFs()
	}
	if path == "" {
		return nil, fmt.Errorf("token file path is required")
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to resolve home directory: %w", err)
		}
		path = filepath.Join(home, rest)
	}
	return &FileTokenStore{fs: fsys, path: path}, nil
}

// Path returns the resolved token file path.
func (s *FileTokenStore) Path() string {
	return s.path
}

func (s *FileTokenStore) Token(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := afero.ReadFile(s.fs, s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes token to the file with owner-only permissions.
func (s *FileTokenStore) Save(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("failed to create token directory: %w", err)
	}
	if err := afero.WriteFile(s.fs, s.path, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("failed to write token file: %w", err)
	}
	return nil
}

func (s *FileTokenStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.fs.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to remove token file: %w", err)
	}
	return nil
}

// FallbackTokenStore reads the token from Primary and sends Fallback while
// Primary has none, e.g. before the first login. Clear only clears Primary.
type FallbackTokenStore struct {
	Primary  TokenStore
	Fallback string
}

func (s *FallbackTokenStore) Token(ctx context.Context) (string, error) {
	token, err := s.Primary.Token(ctx)
	if err != nil || token != "" {
		return token, err
	}
	return s.Fallback, nil
}

func (s *FallbackTokenStore) Clear(ctx context.Context) error {
	return s.Primary.Clear(ctx)
}
