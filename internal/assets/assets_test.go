package assets

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeMesh(t *testing.T, dir, name, text string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".obj"), []byte(text), 0644); err != nil {
		t.Fatalf("writing %s: %v", name, err)
	}
}

func TestLoadText(t *testing.T) {
	dir := t.TempDir()
	writeMesh(t, dir, "cube", "v 0 0 0\n")

	lib := NewLibrary(dir)
	text, err := lib.LoadText("cube")
	if err != nil {
		t.Fatalf("LoadText: %v", err)
	}
	if text != "v 0 0 0\n" {
		t.Errorf("LoadText: got %q", text)
	}
}

func TestLoadTextMissing(t *testing.T) {
	lib := NewLibrary(t.TempDir())

	_, err := lib.LoadText("nothing")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("want FetchError, got %v", err)
	}
	if fetchErr.Path == "" {
		t.Error("FetchError should carry the path")
	}
}

func TestLoadTextCached(t *testing.T) {
	dir := t.TempDir()
	writeMesh(t, dir, "plane", "v 1 1 1\n")

	lib := NewLibrary(dir)
	if _, err := lib.LoadText("plane"); err != nil {
		t.Fatalf("LoadText: %v", err)
	}

	// Remove the file: the cached copy must still serve.
	if err := os.Remove(filepath.Join(dir, "plane.obj")); err != nil {
		t.Fatal(err)
	}
	text, err := lib.LoadText("plane")
	if err != nil {
		t.Fatalf("cached LoadText: %v", err)
	}
	if text != "v 1 1 1\n" {
		t.Errorf("cached LoadText: got %q", text)
	}
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeMesh(t, dir, "plane", "v 0 0 0\n")
	writeMesh(t, dir, "sphere", "v 1 0 0\n")
	writeMesh(t, dir, "cube", "v 2 0 0\n")

	lib := NewLibrary(dir)
	texts, err := lib.LoadAll("plane", "sphere", "cube")
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(texts) != 3 {
		t.Fatalf("LoadAll: got %d texts, want 3", len(texts))
	}
	if texts["cube"] != "v 2 0 0\n" {
		t.Errorf("LoadAll cube: got %q", texts["cube"])
	}
}

func TestLoadAllPropagatesFailure(t *testing.T) {
	dir := t.TempDir()
	writeMesh(t, dir, "plane", "v 0 0 0\n")

	lib := NewLibrary(dir)
	_, err := lib.LoadAll("plane", "missing")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("want FetchError, got %v", err)
	}
}

func TestIsPrimary(t *testing.T) {
	for _, name := range Primaries {
		if !IsPrimary(name) {
			t.Errorf("IsPrimary(%q) should be true", name)
		}
	}
	if IsPrimary("sphere") {
		t.Error("the projectile mesh is not a primary")
	}
}
