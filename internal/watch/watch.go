// Package watch reports changes to markdown files under the corpus roots.
//
// Events are batched: a callback runs once the corpus has been quiet for the
// debounce interval, with every path that changed since the last callback.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/runlog"
)

// DefaultDebounce is how long the corpus must be quiet before a batch fires.
const DefaultDebounce = 300 * time.Millisecond

// EventOp is the kind of change seen for a file.
type EventOp int

const (
	// OpCreate indicates a new file was created.
	OpCreate EventOp = iota
	// OpModify indicates an existing file was modified.
	OpModify
	// OpDelete indicates a file was deleted or renamed away.
	OpDelete
)

// String returns a human-readable representation of the operation.
func (op EventOp) String() string {
	switch op {
	case OpCreate:
		return "create"
	case OpModify:
		return "modify"
	case OpDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// FileEvent is one changed markdown file.
type FileEvent struct {
	Path string
	Op   EventOp
}

// Options configures a Watcher.
type Options struct {
	Roots []string

	// ExcludeDirs are directory base names never watched (nil selects
	// fwiki.DefaultExcludeDirs).
	ExcludeDirs []string

	// Debounce is the quiet period before a batch fires (0 selects
	// DefaultDebounce).
	Debounce time.Duration

	// Logger receives watch errors. Nil uses a stderr logger.
	Logger *log.Logger
}

// Watcher watches corpus roots recursively.
type Watcher struct {
	watcher     *fsnotify.Watcher
	excludeDirs map[string]bool
	debounce    time.Duration
	logger      *log.Logger
}

// New creates a watcher with every directory under opts.Roots already
// registered, so changes made after New returns are observed.
func New(opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	excl := opts.ExcludeDirs
	if excl == nil {
		excl = fwiki.DefaultExcludeDirs
	}
	w := &Watcher{
		watcher:     fsw,
		excludeDirs: make(map[string]bool, len(excl)),
		debounce:    opts.Debounce,
		logger:      opts.Logger,
	}
	for _, name := range excl {
		w.excludeDirs[strings.ToLower(name)] = true
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = runlog.Default("watch")
	}

	for _, root := range opts.Roots {
		if _, err := w.addTree(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// addTree watches dir and every directory below it. It returns the markdown
// files already present, which matters for directories created while
// watching: files written into them before the watch was added would
// otherwise be missed.
func (w *Watcher) addTree(dir string) ([]string, error) {
	var existing []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != dir && w.excludeDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			if err := w.watcher.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}
			return nil
		}
		if fwiki.IsMarkdown(path) {
			existing = append(existing, path)
		}
		return nil
	})
	return existing, err
}

// Run delivers batches of changes to fn until ctx is done. fn runs on the
// calling goroutine, so a slow fn delays the next batch rather than
// overlapping it.
func (w *Watcher) Run(ctx context.Context, fn func([]FileEvent)) error {
	pending := make(map[string]EventOp)
	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	queue := func(path string, op EventOp) {
		if prev, ok := pending[path]; ok && prev == OpCreate && op == OpModify {
			op = OpCreate
		}
		pending[path] = op
		timer.Reset(w.debounce)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && w.isWatchableDir(event.Name) {
				files, err := w.addTree(event.Name)
				if err != nil {
					w.logger.Printf("Watcher error: %v", err)
				}
				for _, f := range files {
					queue(f, OpCreate)
				}
				continue
			}
			if fe, ok := convertEvent(event); ok {
				queue(fe.Path, fe.Op)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Printf("Watcher error: %v", err)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]FileEvent, 0, len(pending))
			for path, op := range pending {
				batch = append(batch, FileEvent{Path: path, Op: op})
			}
			sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
			pending = make(map[string]EventOp)
			fn(batch)
		}
	}
}

func (w *Watcher) isWatchableDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return false
	}
	return !w.excludeDirs[strings.ToLower(filepath.Base(path))]
}

// convertEvent maps an fsnotify event on a markdown file to a FileEvent.
func convertEvent(event fsnotify.Event) (FileEvent, bool) {
	if !fwiki.IsMarkdown(event.Name) {
		return FileEvent{}, false
	}

	var op EventOp
	switch {
	case event.Has(fsnotify.Create):
		op = OpCreate
	case event.Has(fsnotify.Write):
		op = OpModify
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpDelete
	default:
		return FileEvent{}, false
	}
	return FileEvent{Path: event.Name, Op: op}, true
}
