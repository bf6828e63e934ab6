package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"TopicWatcher/internal/domain"
	"TopicWatcher/internal/seen"
)

func TestJSONStoreMissingFile(t *testing.T) {
	t.Parallel()

	store := NewJSONFileStore(filepath.Join(t.TempDir(), "previous-topics.json"), nil)
	set, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d keys", set.Len())
	}
}

func TestJSONStoreCorruptFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "previous-topics.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	set, err := NewJSONFileStore(path, nil).Load(context.Background())
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %d keys", set.Len())
	}
}

func TestJSONStoreRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "state", "previous-topics.json")
	store := NewJSONFileStore(path, nil)
	ctx := context.Background()

	want := seen.New("/topic/2/|B", "/topic/1/|A", "/topic/3/|C")
	if err := store.Save(ctx, want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got.Len() != want.Len() {
		t.Fatalf("expected %d keys, got %d", want.Len(), got.Len())
	}
	for _, key := range want.Keys() {
		if !got.Contains(key) {
			t.Fatalf("missing key after reload: %s", key)
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read snapshot: %v", err)
	}
	if !strings.HasPrefix(string(raw), "[\n  \"/topic/1/|A\"") {
		t.Fatalf("snapshot is not an indented sorted array: %s", raw)
	}

	leftovers, _ := filepath.Glob(filepath.Join(filepath.Dir(path), "*.tmp"))
	if len(leftovers) != 0 {
		t.Fatalf("temp files left behind: %v", leftovers)
	}
}

func TestJSONStoreSaveFailure(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}

	store := NewJSONFileStore(filepath.Join(blocker, "previous-topics.json"), nil)
	err := store.Save(context.Background(), seen.New("k"))
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected ErrPersistence, got %v", err)
	}
}
