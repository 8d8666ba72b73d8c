package auth

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DirPerm is applied to the directory that holds the tokens cache.
const DirPerm fs.FileMode = 0o700

const filePerm fs.FileMode = 0o600

// Store is the on-disk tokens cache, keyed by origin (or offline URL).
type Store struct {
	Tokens map[string]string `yaml:"tokens"`
}

// LoadStore reads the tokens cache at path, creating an empty one when it
// does not exist yet.
func LoadStore(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("tokens cache path is empty")
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		s := &Store{Tokens: map[string]string{}}
		if err := s.Save(path); err != nil {
			return nil, err
		}
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read tokens cache %s: %w", path, err)
	}
	s := &Store{}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("parse tokens cache %s: %w", path, err)
	}
	if s.Tokens == nil {
		s.Tokens = map[string]string{}
	}
	return s, nil
}

// Save writes the store to path.
func (s *Store) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), DirPerm); err != nil {
		return fmt.Errorf("create tokens cache dir: %w", err)
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return fmt.Errorf("write tokens cache %s: %w", path, err)
	}
	return nil
}

// Get returns the token stored for key.
func (s *Store) Get(key string) (string, bool) {
	tok, ok := s.Tokens[key]
	return tok, ok && tok != ""
}

// Set stores token for key.
func (s *Store) Set(key, token string) {
	if s.Tokens == nil {
		s.Tokens = map[string]string{}
	}
	s.Tokens[key] = token
}

// Delete removes key and reports whether it was present.
func (s *Store) Delete(key string) bool {
	if _, ok := s.Tokens[key]; !ok {
		return false
	}
	delete(s.Tokens, key)
	return true
}
