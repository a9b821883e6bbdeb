package driver

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"valc/internal/diag"
)

// Current schema version - increment when CachePayload format changes
const cacheSchemaVersion uint16 = 1

// Digest is the SHA-256 fingerprint of a program snapshot.
type Digest = [sha256.Size]byte

// SnapshotCache хранит результаты понижения по отпечатку программы на диске.
// Thread-safe for concurrent access.
type SnapshotCache struct {
	mu  sync.RWMutex
	dir string
}

// CachePayload is everything lowering produced for one program.
type CachePayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	// IR snapshots, one per module, in module order
	Modules [][]byte

	// Diagnostics replayed on a hit
	Diagnostics []diag.Diagnostic
}

// OpenSnapshotCache initializes and returns a cache under
// $XDG_CACHE_HOME/<app>, falling back to ~/.cache.
func OpenSnapshotCache(app string) (*SnapshotCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	dir := filepath.Join(base, app)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &SnapshotCache{dir: dir}, nil
}

func (c *SnapshotCache) pathFor(key Digest) string {
	return filepath.Join(c.dir, "ir", hex.EncodeToString(key[:])+".mp")
}

// Put serializes and writes a payload to the cache. The file is replaced
// atomically so concurrent readers never see a partial entry.
func (c *SnapshotCache) Put(key Digest, payload *CachePayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = f.Close()
			_ = os.Remove(f.Name())
		}
	}()

	payload.Schema = cacheSchemaVersion
	if err := msgpack.NewEncoder(f).Encode(payload); err != nil {
		return fmt.Errorf("driver: encode cache entry: %w", err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads the payload stored under key. Entries written by another
// schema version are misses.
func (c *SnapshotCache) Get(key Digest, out *CachePayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	if err := msgpack.NewDecoder(f).Decode(out); err != nil {
		return false, fmt.Errorf("driver: decode cache entry: %w", err)
	}
	return out.Schema == cacheSchemaVersion, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *SnapshotCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}
