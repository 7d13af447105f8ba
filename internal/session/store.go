package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"
)

// Fixed key names under which credentials are persisted, shared with the
// mobile apps' secure stores.
const (
	KeyUsername  = "username"
	KeyToken     = "token"
	KeyPatientID = "patientId"
	KeyTrainerID = "trainerId"
)

var ErrKeyNotFound = errors.New("key not found in credential store")

// Store is the capability the session layer needs from a secure local
// credential store. The mobile apps back it with the platform keychain;
// the CLI uses a file.
type Store interface {
	Read(key string) (string, error)
	Write(key, value string) error
	Delete(key string) error
}

// FileStore persists credentials as a JSON object in a single
// owner-readable file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (fs *FileStore) Read(key string) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return "", err
	}
	value, ok := values[key]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	return value, nil
}

func (fs *FileStore) Write(key, value string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	values[key] = value
	return fs.save(values)
}

func (fs *FileStore) Delete(key string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	values, err := fs.load()
	if err != nil {
		return err
	}
	delete(values, key)
	return fs.save(values)
}

func (fs *FileStore) load() (map[string]string, error) {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	values := map[string]string{}
	if len(data) > 0 {
		if err := json.Unmarshal(data, &values); err != nil {
			return nil, fmt.Errorf("parse credentials file: %w", err)
		}
	}
	return values, nil
}

func (fs *FileStore) save(values map[string]string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	if err := os.WriteFile(fs.path, data, 0o600); err != nil {
		return fmt.Errorf("write credentials file: %w", err)
	}
	return nil
}
