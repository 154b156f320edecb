package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestWatcherFiresOnWrite(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(target, []byte("{}"), 0o644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan string, 1)
	w, err := New(func(path string) {
		select {
		case fired <- path:
		default:
		}
	}, []string{target}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(target, []byte(`{"text":"x"}`), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-fired:
		abs, _ := filepath.Abs(target)
		if path != abs {
			t.Errorf("fired with %q, want %q", path, abs)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not fire")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.json")
	other := filepath.Join(dir, "unrelated.txt")
	for _, p := range []string{target, other} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	var count atomic.Int32
	w, err := New(func(string) { count.Add(1) }, []string{target}, WithDebounce(20*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(other, []byte("y"), 0o644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(200 * time.Millisecond)
	if count.Load() != 0 {
		t.Errorf("fired %d times for an unrelated file", count.Load())
	}
}

func TestWatcherDebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	var count atomic.Int32
	w, err := New(func(string) { count.Add(1) }, []string{target}, WithDebounce(100*time.Millisecond))
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	defer w.Close()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(target, []byte{byte('a' + i)}, 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	time.Sleep(500 * time.Millisecond)

	if got := count.Load(); got != 1 {
		t.Errorf("fired %d times for one burst, want 1", got)
	}
}

func TestWatcherClose(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "bundle.json")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(func(string) {}, []string{target})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("Close error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close error: %v", err)
	}
}
