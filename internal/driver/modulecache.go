package driver

import (
	"sync"

	"ploy/internal/project"
)

type cached struct {
	key      project.Digest
	artifact *Artifact
}

// ModuleCache keeps the last artifact of every path in memory, optionally
// backed by a DiskCache. A nil *ModuleCache is a valid, always-missing cache.
type ModuleCache struct {
	mu     sync.RWMutex
	byPath map[string]cached
	disk   *DiskCache
}

// NewModuleCache creates a ModuleCache; disk may be nil.
func NewModuleCache(capHint int, disk *DiskCache) *ModuleCache {
	return &ModuleCache{byPath: make(map[string]cached, capHint), disk: disk}
}

// Get returns the artifact for path if it was stored under key. Disk
// errors count as misses.
func (c *ModuleCache) Get(path string, key project.Digest) (*Artifact, bool) {
	if c == nil {
		return nil, false
	}
	c.mu.RLock()
	rec, ok := c.byPath[path]
	c.mu.RUnlock()
	if ok && rec.key == key {
		return rec.artifact, true
	}
	a, err := c.disk.Get(key)
	if err != nil || a == nil {
		return nil, false
	}
	c.mu.Lock()
	c.byPath[path] = cached{key: key, artifact: a}
	c.mu.Unlock()
	return a, true
}

// Put stores a for path under key, replacing any older entry.
func (c *ModuleCache) Put(path string, key project.Digest, a *Artifact) {
	if c == nil || a == nil {
		return
	}
	c.mu.Lock()
	c.byPath[path] = cached{key: key, artifact: a}
	c.mu.Unlock()
	// ошибка диска не должна ломать проверку
	_ = c.disk.Put(key, a)
}

// Len is the number of paths held in memory.
func (c *ModuleCache) Len() int {
	if c == nil {
		return 0
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.byPath)
}
