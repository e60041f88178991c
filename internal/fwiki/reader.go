package fwiki

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/debug"
	"github.com/mithrandir/fcon/internal/runlog"
)

// ErrRootNotFound is returned when a configured corpus root does not exist or
// is not a directory. Reading a partial corpus would make missing cards look
// deleted, so this is fatal.
var ErrRootNotFound = errors.New("corpus root not found")

// DefaultExcludeDirs are directory names never descended into.
var DefaultExcludeDirs = []string{".git", ".obsidian", ".trash"}

// Options configures a corpus Reader.
type Options struct {
	// Roots are the directories scanned recursively for markdown files.
	Roots []string

	// SkipTags exclude individual cards (nil selects DefaultSkipTags).
	SkipTags []string

	// FileSkipTag excludes a whole file when its content starts with it
	// (empty selects DefaultFileSkipTag).
	FileSkipTag string

	// ExcludeDirs are directory base names to skip (nil selects DefaultExcludeDirs).
	ExcludeDirs []string

	// Logger receives per-file progress. Nil uses a stderr logger.
	Logger *log.Logger
}

// Reader reads every card embedded in a wiki corpus.
type Reader struct {
	roots       []string
	parser      *Parser
	fileSkipTag string
	excludeDirs map[string]bool
	logger      *log.Logger
}

// NewReader creates a corpus reader.
func NewReader(opts Options) *Reader {
	logger := opts.Logger
	if logger == nil {
		logger = runlog.Default("fwiki")
	}
	fileSkip := opts.FileSkipTag
	if fileSkip == "" {
		fileSkip = DefaultFileSkipTag
	}
	excl := opts.ExcludeDirs
	if excl == nil {
		excl = DefaultExcludeDirs
	}
	excludeDirs := make(map[string]bool, len(excl))
	for _, name := range excl {
		if name != "" {
			excludeDirs[strings.ToLower(name)] = true
		}
	}
	return &Reader{
		roots:       opts.Roots,
		parser:      NewParser(opts.SkipTags),
		fileSkipTag: fileSkip,
		excludeDirs: excludeDirs,
		logger:      logger,
	}
}

// Parser returns the segment parser the reader uses.
func (r *Reader) Parser() *Parser {
	return r.parser
}

// ReadCorpus reads all roots and returns the cards with the rejection report.
// It fails on a missing root, an unreadable file, or a duplicate identifier.
func (r *Reader) ReadCorpus(ctx context.Context) (*card.Collection, *Diagnostics, error) {
	diag := NewDiagnostics()

	for _, root := range r.roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return nil, nil, fmt.Errorf("%w: %s", ErrRootNotFound, root)
		}
	}

	var cards []card.Card
	for _, root := range r.roots {
		found, err := r.readRoot(ctx, root, diag)
		if err != nil {
			return nil, nil, err
		}
		cards = append(cards, found...)
	}

	coll, err := card.NewCollection(cards)
	if err != nil {
		return nil, nil, err
	}
	return coll, diag, nil
}

// readRoot walks one root in lexical order.
func (r *Reader) readRoot(ctx context.Context, root string, diag *Diagnostics) ([]card.Card, error) {
	var cards []card.Card
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && r.excludeDirs[strings.ToLower(d.Name())] {
				return filepath.SkipDir
			}
			return nil
		}
		if !IsMarkdown(path) {
			return nil
		}

		found, err := r.ReadFile(path, diag)
		if err != nil {
			return err
		}
		cards = append(cards, found...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus root %s: %w", root, err)
	}
	return cards, nil
}

// ReadFile parses the cards of a single wiki file, recording rejections in
// diag. Files without a delimiter line or starting with the file skip tag
// yield no cards.
func (r *Reader) ReadFile(path string, diag *Diagnostics) ([]card.Card, error) {
	// #nosec G304 - path comes from walking configured roots
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	content := string(data)

	segments, found := SplitSegments(content)
	if !found {
		return nil, nil
	}
	if strings.HasPrefix(strings.TrimSpace(content), r.fileSkipTag) {
		r.logger.Printf("Skipping %s (%s)", path, r.fileSkipTag)
		return nil, nil
	}

	var cards []card.Card
	for _, seg := range segments {
		c, reason := r.parser.ParseSegment(seg.Text, path)
		if reason != "" {
			diag.Add(path, reason)
			debug.Logf("rejected segment at %s:%d: %s", path, seg.Offset, reason)
			continue
		}
		if c == nil {
			continue
		}
		cards = append(cards, *c)
	}

	if len(cards) > 0 {
		r.logger.Printf("Found %d cards in %s", len(cards), path)
	}
	return cards, nil
}

// IsMarkdown reports whether path has a markdown extension.
func IsMarkdown(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return true
	}
	return false
}
