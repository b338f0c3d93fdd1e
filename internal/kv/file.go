package kv

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

const fileExt = ".json"

// File is a Store that keeps one file per key under a data directory.
// Writes go through a temp file and rename so a crash never leaves a
// half-written value behind. Access is serialized per process; two
// processes sharing a directory get last-write-wins, same as two browser
// tabs sharing localStorage.
type File struct {
	mu  sync.Mutex
	dir string
}

// NewFile creates the data directory if needed and returns a store over it.
func NewFile(dir string) (*File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &File{dir: dir}, nil
}

func (f *File) Get(key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path(key))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (f *File) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := f.path(key)
	tmp, err := os.CreateTemp(f.dir, ".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, path)
}

func (f *File) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	err := os.Remove(f.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (f *File) Keys() ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	entries, err := os.ReadDir(f.dir)
	if err != nil {
		return nil, err
	}

	var keys []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, fileExt) {
			continue
		}
		key, err := decodeKey(strings.TrimSuffix(name, fileExt))
		if err != nil {
			continue
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func (f *File) path(key string) string {
	return filepath.Join(f.dir, encodeKey(key)+fileExt)
}

// Keys are hex-encoded in filenames so arbitrary key strings can never
// escape the data directory or collide with the temp-file prefix.
func encodeKey(key string) string {
	return hex.EncodeToString([]byte(key))
}

func decodeKey(name string) (string, error) {
	raw, err := hex.DecodeString(name)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
