package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
)

const (
	usersFile    = "users.json"
	cartsFile    = "carts.json"
	requestsFile = "requests.json"
)

// Store is a directory holding one JSON document per record set
type Store struct {
	dir    string
	logger *zap.Logger
}

// Open prepares the data directory
func Open(dir string, logger *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &Store{dir: dir, logger: logger}, nil
}

// recordSet is a mapping persisted as a whole. All access goes through mu,
// so one load-modify-save cycle runs at a time per record set.
type recordSet[V any] struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

func newRecordSet[V any](s *Store, name string) *recordSet[V] {
	return &recordSet[V]{
		path:   filepath.Join(s.dir, name),
		logger: s.logger.With(zap.String("record_set", name)),
	}
}

// load reads the snapshot. Missing or unreadable data yields an empty mapping.
func (r *recordSet[V]) load() map[string]V {
	data := make(map[string]V)

	raw, err := os.ReadFile(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return data
	}
	if err != nil {
		r.logger.Warn("Failed to read record set, treating as empty", zap.Error(err))
		return data
	}

	if err := json.Unmarshal(raw, &data); err != nil {
		r.logger.Warn("Failed to decode record set, treating as empty", zap.Error(err))
		return make(map[string]V)
	}
	return data
}

// save writes a new snapshot next to the old one and renames it into place,
// so a failed write leaves the previous snapshot intact
func (r *recordSet[V]) save(data map[string]V) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	enc := json.NewEncoder(tmp)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err = enc.Encode(data); err != nil {
		return fmt.Errorf("failed to encode record set: %w", err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("failed to sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), r.path); err != nil {
		return fmt.Errorf("failed to replace record set: %w", err)
	}
	return nil
}

// view runs fn against the current snapshot
func (r *recordSet[V]) view(fn func(map[string]V)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fn(r.load())
}

// update loads the snapshot, lets fn mutate it and persists the result.
// fn returning changed=false skips the write.
func (r *recordSet[V]) update(fn func(map[string]V) (changed bool)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	data := r.load()
	if !fn(data) {
		return nil
	}
	return r.save(data)
}
