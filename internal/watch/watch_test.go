package watch

import (
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

func TestEventOp_String(t *testing.T) {
	tests := []struct {
		op   EventOp
		want string
	}{
		{OpCreate, "create"},
		{OpModify, "modify"},
		{OpDelete, "delete"},
		{EventOp(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("EventOp(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestConvertEvent(t *testing.T) {
	tests := []struct {
		name   string
		event  fsnotify.Event
		wantOp EventOp
		wantOK bool
	}{
		{"create md", fsnotify.Event{Name: "a.md", Op: fsnotify.Create}, OpCreate, true},
		{"write md", fsnotify.Event{Name: "a.md", Op: fsnotify.Write}, OpModify, true},
		{"remove md", fsnotify.Event{Name: "a.markdown", Op: fsnotify.Remove}, OpDelete, true},
		{"rename md", fsnotify.Event{Name: "a.md", Op: fsnotify.Rename}, OpDelete, true},
		{"chmod md", fsnotify.Event{Name: "a.md", Op: fsnotify.Chmod}, 0, false},
		{"write txt", fsnotify.Event{Name: "a.txt", Op: fsnotify.Write}, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fe, ok := convertEvent(tt.event)
			if ok != tt.wantOK {
				t.Fatalf("convertEvent() ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && fe.Op != tt.wantOp {
				t.Errorf("convertEvent() op = %v, want %v", fe.Op, tt.wantOp)
			}
		})
	}
}

func TestNew_MissingRoot(t *testing.T) {
	if _, err := New(Options{Roots: []string{filepath.Join(t.TempDir(), "nope")}}); err == nil {
		t.Error("New() expected error for a missing root")
	}
}

// waitBatch returns the next batch or fails after a timeout.
func waitBatch(t *testing.T, batches <-chan []FileEvent) []FileEvent {
	t.Helper()
	select {
	case b := <-batches:
		return b
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a batch")
		return nil
	}
}

func TestRun_BatchesMarkdownChanges(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, ".git"), 0755); err != nil {
		t.Fatalf("failed to create .git: %v", err)
	}

	w, err := New(Options{
		Roots:    []string{root},
		Debounce: 50 * time.Millisecond,
		Logger:   log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	batches := make(chan []FileEvent, 10)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(b []FileEvent) { batches <- b })
	}()

	mdPath := filepath.Join(root, "notes.md")
	if err := os.WriteFile(mdPath, []byte("q: x\n"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(root, ".git", "HEAD.md"), []byte("ignored"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	batch := waitBatch(t, batches)
	if len(batch) != 1 || batch[0].Path != mdPath || batch[0].Op != OpCreate {
		t.Errorf("first batch = %+v, want one create of %s", batch, mdPath)
	}

	// Files inside a new directory are reported even if written before the
	// directory watch is registered.
	sub := filepath.Join(root, "sub")
	if err := os.MkdirAll(sub, 0755); err != nil {
		t.Fatalf("failed to create sub: %v", err)
	}
	subMD := filepath.Join(sub, "deep.md")
	if err := os.WriteFile(subMD, []byte("q: y\n"), 0644); err != nil {
		t.Fatalf("failed to write: %v", err)
	}

	found := false
	deadline := time.After(5 * time.Second)
	for !found {
		select {
		case b := <-batches:
			for _, e := range b {
				if e.Path == subMD {
					found = true
				}
			}
		case <-deadline:
			t.Fatalf("no event for %s", subMD)
		}
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}
}
