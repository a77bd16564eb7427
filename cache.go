package main

import (
	"os"
	"sync"
	"time"
)

// CachedNote stores parsed tasks with modification time for cache validation
type CachedNote struct {
	ModTime time.Time
	Tasks   []*Task
}

// NoteCache provides thread-safe caching of parsed tasks per note file
type NoteCache struct {
	mu    sync.RWMutex
	notes map[string]*CachedNote
}

// NewNoteCache creates a new empty note cache
func NewNoteCache() *NoteCache {
	return &NoteCache{notes: make(map[string]*CachedNote)}
}

// Get returns cached tasks if the file hasn't been modified since caching
func (c *NoteCache) Get(path string) ([]*Task, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	cached, exists := c.notes[path]
	if !exists {
		return nil, false
	}

	info, err := os.Stat(path)
	if err != nil || info.ModTime().After(cached.ModTime) {
		return nil, false
	}

	return cached.Tasks, true
}

// Set stores tasks in the cache with the file's current modification time
func (c *NoteCache) Set(path string, tasks []*Task) {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(path)
	if err != nil {
		return
	}

	c.notes[path] = &CachedNote{ModTime: info.ModTime(), Tasks: tasks}
}

// Invalidate removes a note from the cache
func (c *NoteCache) Invalidate(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.notes, path)
}
