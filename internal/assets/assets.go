// Package assets loads mesh geometry text from the asset directory.
package assets

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Mesh roles with fixed file names. The primary obstacle is chosen from
// Primaries; the plane and projectile are always the same meshes.
const (
	PlaneMesh      = "plane"
	ProjectileMesh = "sphere"
)

// Primaries is the fixed set of selectable primary obstacle meshes.
var Primaries = []string{"cube", "pyramid", "diamond"}

// IsPrimary reports whether name is a selectable primary mesh.
func IsPrimary(name string) bool {
	for _, p := range Primaries {
		if p == name {
			return true
		}
	}
	return false
}

// FetchError reports a geometry file that could not be read.
type FetchError struct {
	Path string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetching %s: %v", e.Path, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Library reads mesh text files from a directory and caches them by name,
// so rebuilding a session with the same meshes skips the disk.
type Library struct {
	dir string

	mu    sync.RWMutex
	cache map[string]string
}

// NewLibrary creates a library rooted at dir.
func NewLibrary(dir string) *Library {
	return &Library{
		dir:   dir,
		cache: make(map[string]string),
	}
}

// Path returns the file path a mesh name maps to.
func (l *Library) Path(name string) string {
	return filepath.Join(l.dir, name+".obj")
}

// LoadText returns the geometry text for one mesh name.
func (l *Library) LoadText(name string) (string, error) {
	l.mu.RLock()
	text, ok := l.cache[name]
	l.mu.RUnlock()
	if ok {
		return text, nil
	}

	path := l.Path(name)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &FetchError{Path: path, Err: err}
	}

	l.mu.Lock()
	l.cache[name] = string(data)
	l.mu.Unlock()

	return string(data), nil
}

// LoadAll fetches several meshes concurrently and joins before returning.
// The result maps each requested name to its text; the first failure wins.
func (l *Library) LoadAll(names ...string) (map[string]string, error) {
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	texts := make(map[string]string, len(names))

	for _, name := range names {
		wg.Add(1)
		go func(name string) {
			defer wg.Done()
			text, err := l.LoadText(name)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			texts[name] = text
		}(name)
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return texts, nil
}
