package waitlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileRepository stores subscribers as a JSON array in a local file. It is the
// fallback when no key-value store is reachable.
type FileRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileRepository returns a repository backed by path. The file and its
// parent directory are created on first write.
func NewFileRepository(path string) *FileRepository {
	return &FileRepository{path: path}
}

func (r *FileRepository) Name() string { return "file" }

func (r *FileRepository) Add(ctx context.Context, sub Subscriber) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	subscribers, err := r.read()
	if err != nil {
		return err
	}
	for _, existing := range subscribers {
		if existing.Email == sub.Email {
			return ErrDuplicate
		}
	}

	return r.write(append(subscribers, sub))
}

func (r *FileRepository) List(ctx context.Context) ([]Subscriber, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.read()
}

func (r *FileRepository) Close() error { return nil }

func (r *FileRepository) read() ([]Subscriber, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []Subscriber{}, nil
		}
		return nil, fmt.Errorf("read subscribers file: %w", err)
	}
	if len(data) == 0 {
		return []Subscriber{}, nil
	}

	var subscribers []Subscriber
	if err := json.Unmarshal(data, &subscribers); err != nil {
		return nil, fmt.Errorf("decode subscribers file: %w", err)
	}
	return subscribers, nil
}

func (r *FileRepository) write(subscribers []Subscriber) error {
	if dir := filepath.Dir(r.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create subscribers dir: %w", err)
		}
	}

	data, err := json.MarshalIndent(subscribers, "", "  ")
	if err != nil {
		return fmt.Errorf("encode subscribers: %w", err)
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write subscribers file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("replace subscribers file: %w", err)
	}
	return nil
}
