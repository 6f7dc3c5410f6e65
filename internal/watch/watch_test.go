package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestFileReportsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fix.md")
	if err := os.WriteFile(path, []byte("one"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, err := File(ctx, path, 20*time.Millisecond)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "other.md"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("two"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for change notification")
	}
}

func TestFileClosesOnCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "fix.md")
	ctx, cancel := context.WithCancel(context.Background())
	changes, err := File(ctx, path, 0)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	cancel()
	select {
	case _, ok := <-changes:
		if ok {
			t.Fatalf("expected closed channel")
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("channel not closed after cancel")
	}
}

func TestFileMissingDirectory(t *testing.T) {
	if _, err := File(context.Background(), filepath.Join(t.TempDir(), "nope", "fix.md"), 0); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}

func TestDebouncerDropsUnreceivedTick(t *testing.T) {
	d := newDebouncer(50 * time.Millisecond)
	defer d.stop()
	d.arm()
	time.Sleep(150 * time.Millisecond)
	d.arm()
	select {
	case <-d.C():
		t.Fatalf("stale tick delivered right after re-arming")
	default:
	}
	select {
	case <-d.C():
	case <-time.After(5 * time.Second):
		t.Fatalf("re-armed debouncer never fired")
	}
	select {
	case <-d.C():
		t.Fatalf("burst produced a second tick")
	case <-time.After(150 * time.Millisecond):
	}
}
