package driver

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"time"

	"ploy/internal/project"
)

// ErrStaleArtifact marks artifacts written by another schema version.
var ErrStaleArtifact = errors.New("stale artifact")

// DiskCache хранит артефакты по ключу CacheKey на диске.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// OpenDiskCache opens the cache under $XDG_CACHE_HOME/app (or ~/.cache/app).
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt opens a cache rooted at dir, creating it.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

func (c *DiskCache) pathFor(key project.Digest) string {
	// подкаталог "mods", чтобы DropAll не трогал чужие файлы
	return filepath.Join(c.dir, "mods", key.Hex()+".mp")
}

// Put writes a under key.
func (c *DiskCache) Put(key project.Digest, a *Artifact) error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return WriteArtifact(c.pathFor(key), a)
}

// Get reads the artifact stored under key. A missing entry is (nil, nil);
// an entry of another schema is ErrStaleArtifact.
func (c *DiskCache) Get(key project.Digest) (*Artifact, error) {
	if c == nil {
		return nil, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	a, err := ReadArtifact(c.pathFor(key))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	return a, err
}

// DropAll invalidates the cache.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// переименуем каталог, затем удалим
	mods := filepath.Join(c.dir, "mods")
	old := mods + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(mods, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	return os.RemoveAll(old)
}
