package reconcile

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/debug"
	"github.com/mithrandir/fcon/internal/deck"
	"github.com/mithrandir/fcon/internal/fsutil"
	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/runlog"
)

// ErrSpanNotFound is returned when a card's recorded text is no longer
// present in its file.
var ErrSpanNotFound = errors.New("card span not found in file")

// DefaultMarkupThreshold is the number of tags an answer may carry before
// it is considered too heavily formatted to write back.
const DefaultMarkupThreshold = 10

var markupRe = regexp.MustCompile(`<[^<>]*>`)

// CorpusReader reads the wiki corpus.
type CorpusReader interface {
	ReadCorpus(ctx context.Context) (*card.Collection, *fwiki.Diagnostics, error)
}

// Options configures an Engine.
type Options struct {
	// MarkupThreshold is the largest allowed number of <...> pairs in an
	// answer (0 selects DefaultMarkupThreshold).
	MarkupThreshold int

	// DryRun computes the report without writing any file.
	DryRun bool

	// Parser decides whether a card survives being written and read back.
	// Nil uses a parser with the default skip tags.
	Parser *fwiki.Parser

	// Logger receives progress and warnings. Nil uses a stderr logger.
	Logger *log.Logger
}

// Engine applies deck edits to the wiki corpus.
type Engine struct {
	corpus    CorpusReader
	threshold int
	dryRun    bool
	parser    *fwiki.Parser
	logger    *log.Logger
}

// New creates a reconcile engine reading the corpus from corpus.
func New(corpus CorpusReader, opts Options) *Engine {
	threshold := opts.MarkupThreshold
	if threshold <= 0 {
		threshold = DefaultMarkupThreshold
	}
	parser := opts.Parser
	if parser == nil {
		parser = fwiki.NewParser(nil)
	}
	logger := opts.Logger
	if logger == nil {
		logger = runlog.Default("reconcile")
	}
	return &Engine{
		corpus:    corpus,
		threshold: threshold,
		dryRun:    opts.DryRun,
		parser:    parser,
		logger:    logger,
	}
}

// fileEdit is the planned new content of one file.
type fileEdit struct {
	path    string
	mode    os.FileMode
	content string
}

// Apply writes every changed deck card back into the file holding it.
//
// All affected files are read and edited in memory before any is written,
// so a missing span leaves the corpus untouched.
func (e *Engine) Apply(ctx context.Context, exported *card.Collection) (*Report, error) {
	corpus, diag, err := e.corpus.ReadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus: %w", err)
	}

	report := &Report{
		Existing:     corpus.Len(),
		Exported:     exported.Len(),
		Intersection: len(exported.Intersect(corpus)),
		Diagnostics:  diag,
	}
	e.logger.Printf("Corpus has %d cards, deck has %d, %d in common",
		report.Existing, report.Exported, report.Intersection)

	eligible, err := e.filter(exported, corpus, report)
	if err != nil {
		return nil, err
	}

	groups := Group(eligible, corpus)
	var edits []fileEdit
	for _, file := range sortedFiles(groups) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		edit, err := e.plan(file, groups[file])
		if err != nil {
			return nil, err
		}
		edits = append(edits, edit)
		report.Updated += len(groups[file])
		report.Files = append(report.Files, file)
	}

	if e.dryRun {
		for _, edit := range edits {
			e.logger.Printf("Would update %d cards in %s", len(groups[edit.path]), edit.path)
		}
		return report, nil
	}

	for _, edit := range edits {
		if err := fsutil.WriteFileAtomic(edit.path, []byte(edit.content), edit.mode); err != nil {
			return nil, fmt.Errorf("failed to write %s: %w", edit.path, err)
		}
		e.logger.Printf("Updated %d cards in %s", len(groups[edit.path]), edit.path)
	}
	return report, nil
}

// filter drops deck cards that must not be written back and records why.
func (e *Engine) filter(exported, corpus *card.Collection, report *Report) (*card.Collection, error) {
	var keep []card.Card
	for _, d := range exported.Cards() {
		c, ok := corpus.Get(d.Identifier)
		if !ok {
			e.logger.Printf("WARNING: card %s is not in the corpus", d.Identifier)
			report.Missing = append(report.Missing, d.Identifier)
			continue
		}
		if n := MarkupCount(d.Answer); n > e.threshold {
			e.logger.Printf("ERROR: card %s has %d markup tags (limit %d), skipping", d.Identifier, n, e.threshold)
			report.MarkupDense = append(report.MarkupDense, d.Identifier)
			continue
		}
		if unchanged(d, c) {
			report.Unchanged++
			continue
		}
		if !e.parser.RoundTrips(d) {
			e.logger.Printf("ERROR: card %s would not read back unchanged from %s, skipping", d.Identifier, c.OriginalFile)
			report.Unsafe = append(report.Unsafe, d.Identifier)
			continue
		}
		debug.Logf("card %s changed in %s\n", d.Identifier, c.OriginalFile)
		keep = append(keep, d)
	}
	return card.NewCollection(keep)
}

// unchanged reports whether deck card d still says what corpus card c says.
// The deck side has been through deck.Normalize, so c also matches in its
// normalized form.
func unchanged(d, c card.Card) bool {
	trimmed := card.Card{
		Question: strings.TrimSpace(d.Question),
		Answer:   strings.TrimSpace(d.Answer),
	}
	if trimmed.SameContent(&c) {
		return true
	}
	normalized := card.Card{
		Question: strings.TrimSpace(deck.Normalize(c.Question)),
		Answer:   strings.TrimSpace(deck.Normalize(c.Answer)),
	}
	return trimmed.SameContent(&normalized)
}

// plan reads file once and replaces each pair's span with its rendering.
func (e *Engine) plan(file string, pairs []Pair) (fileEdit, error) {
	info, err := os.Stat(file)
	if err != nil {
		return fileEdit{}, fmt.Errorf("failed to stat %s: %w", file, err)
	}
	// #nosec G304 - path comes from the corpus walk
	data, err := os.ReadFile(file)
	if err != nil {
		return fileEdit{}, fmt.Errorf("failed to read %s: %w", file, err)
	}

	content := string(data)
	eol := fwiki.LineEnding(content)
	for _, p := range pairs {
		if !strings.Contains(content, p.Corpus.OriginalText) {
			return fileEdit{}, fmt.Errorf("%w: card %s in %s", ErrSpanNotFound, p.Deck.Identifier, file)
		}
		content = strings.Replace(content, p.Corpus.OriginalText, fwiki.RenderLines(p.Deck, eol), 1)
	}

	return fileEdit{
		path:    file,
		mode:    info.Mode().Perm(),
		content: strings.TrimRight(content, " \t\r\n"),
	}, nil
}

// MarkupCount returns the number of <...> pairs in s.
func MarkupCount(s string) int {
	return len(markupRe.FindAllStringIndex(s, -1))
}
