package cache_fs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/davarch/ci-status/internal/domain"
)

// FSCache holds the latest snapshot per branch in memory, mirrored to one
// JSON file. The file is always rewritten in full: write to a temp file,
// fsync, rename. A reader therefore sees either the old or the new
// snapshot, never a partial one.
type FSCache struct {
	path string

	mu  sync.Mutex
	mem domain.Snapshot
}

func New(path string) *FSCache { return &FSCache{path: path} }

func (c *FSCache) Update(_ context.Context, branch string, workflows []domain.Workflow) error {
	if c.path == "" {
		return errors.New("cache path is empty")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mem == nil {
		// First write in this process: seed from the durable state so
		// other branches survive the full rewrite. A corrupt or missing
		// file means starting fresh.
		snap, err := c.readFile()
		if err != nil {
			snap = domain.Snapshot{}
		}
		c.mem = snap
	}
	c.mem[branch] = workflows

	return c.writeFile()
}

func (c *FSCache) Read(_ context.Context) (domain.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.mem != nil {
		out := make(domain.Snapshot, len(c.mem))
		for k, v := range c.mem {
			out[k] = v
		}
		return out, nil
	}
	return c.readFile()
}

func (c *FSCache) Exists() bool {
	_, err := os.Stat(c.path)
	return err == nil
}

func (c *FSCache) readFile() (domain.Snapshot, error) {
	b, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return domain.Snapshot{}, nil
		}
		return nil, err
	}

	var snap domain.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("%s: %w", c.path, domain.ErrCacheCorrupt)
	}
	if snap == nil {
		snap = domain.Snapshot{}
	}
	return snap, nil
}

func (c *FSCache) writeFile() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(c.mem, "", "  ")
	if err != nil {
		return err
	}

	tmp := c.path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}

	if _, err := f.Write(b); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	return os.Rename(tmp, c.path)
}
