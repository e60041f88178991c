package workflow

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/deck"
	"github.com/mithrandir/fcon/internal/fwiki"
	"github.com/mithrandir/fcon/internal/index"
	"github.com/mithrandir/fcon/internal/reconcile"
	"github.com/mithrandir/fcon/internal/runlog"
)

// ErrInvalidDirection is returned for a direction other than 2anki or 2fwiki.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction selects which way cards flow.
type Direction string

const (
	// ToAnki exports the wiki corpus as a deck import file.
	ToAnki Direction = "2anki"
	// ToFwiki reconciles a deck export back into the wiki corpus.
	ToFwiki Direction = "2fwiki"
)

// ParseDirection validates s.
func ParseDirection(s string) (Direction, error) {
	switch d := Direction(s); d {
	case ToAnki, ToFwiki:
		return d, nil
	}
	return "", fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidDirection, s, ToAnki, ToFwiki)
}

// Config is everything a run needs.
type Config struct {
	Direction Direction

	// Corpus
	WikiRoots   []string
	SkipTags    []string
	FileSkipTag string
	ExcludeDirs []string

	// Deck
	DeckOutputs []string // 2anki targets
	DeckInput   string   // 2fwiki source

	MarkupThreshold int
	DryRun          bool

	// IndexPath enables the card snapshot when set.
	IndexPath string

	// Logs supplies component loggers. Nil logs to stderr.
	Logs *runlog.Sink
}

// Summary is what a run did.
type Summary struct {
	Direction Direction `json:"direction"`
	DryRun    bool      `json:"dry_run"`

	CardsRead   int                `json:"cards_read"`
	Diagnostics *fwiki.Diagnostics `json:"-"`

	DeckRows  int      `json:"deck_rows,omitempty"`
	DeckPaths []string `json:"deck_paths,omitempty"`

	Reconcile *reconcile.Report `json:"reconcile,omitempty"`

	// Indexed is the number of cards recorded in the index (0 when disabled).
	Indexed int `json:"indexed,omitempty"`

	Elapsed time.Duration `json:"elapsed"`
}

// Workflow is one configured reader/writer pair.
type Workflow struct {
	direction Direction
	reader    Reader
	writer    Writer
	corpus    *fwiki.Reader
	indexPath string
	dryRun    bool
	logger    *log.Logger
}

// New builds the reader and writer for cfg.Direction.
func New(cfg Config) (*Workflow, error) {
	direction, err := ParseDirection(string(cfg.Direction))
	if err != nil {
		return nil, err
	}

	logger := componentLogger(cfg.Logs, "workflow")
	corpus := fwiki.NewReader(fwiki.Options{
		Roots:       cfg.WikiRoots,
		SkipTags:    cfg.SkipTags,
		FileSkipTag: cfg.FileSkipTag,
		ExcludeDirs: cfg.ExcludeDirs,
		Logger:      componentLogger(cfg.Logs, "fwiki"),
	})

	w := &Workflow{
		direction: direction,
		corpus:    corpus,
		indexPath: cfg.IndexPath,
		dryRun:    cfg.DryRun,
		logger:    logger,
	}

	switch direction {
	case ToAnki:
		if len(cfg.DeckOutputs) == 0 {
			return nil, deck.ErrNoOutputPaths
		}
		w.reader = NewFromWikiCorpus(corpus)
		w.writer = NewToDeckFile(deck.NewWriter(cfg.DeckOutputs), cfg.DryRun)
	case ToFwiki:
		if cfg.DeckInput == "" {
			return nil, fmt.Errorf("no deck input path configured for %s", ToFwiki)
		}
		w.reader = NewFromDeckFile(deck.NewReader(cfg.DeckInput))
		w.writer = NewToWikiCorpus(reconcile.New(corpus, reconcile.Options{
			MarkupThreshold: cfg.MarkupThreshold,
			DryRun:          cfg.DryRun,
			Parser:          corpus.Parser(),
			Logger:          componentLogger(cfg.Logs, "reconcile"),
		}))
	}
	return w, nil
}

// Direction returns the configured direction.
func (w *Workflow) Direction() Direction {
	return w.direction
}

// Run reads, writes, and (when configured) records the resulting corpus in
// the index.
func (w *Workflow) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{Direction: w.direction, DryRun: w.dryRun}
	w.logger.Printf("Direction=%s", w.direction)

	cards, err := w.reader.Read(ctx, summary)
	if err != nil {
		return nil, err
	}
	if err := w.writer.Write(ctx, cards, summary); err != nil {
		return nil, err
	}

	if w.indexPath != "" && !w.dryRun {
		n, err := w.record(ctx, cards)
		if err != nil {
			return nil, err
		}
		summary.Indexed = n
	}

	summary.Elapsed = time.Since(start)
	w.logger.Printf("Run complete in %v", summary.Elapsed.Round(time.Millisecond))
	return summary, nil
}

// record snapshots the corpus as it stands after the run. A reconcile run
// has just rewritten it, so the corpus is read again.
func (w *Workflow) record(ctx context.Context, cards *card.Collection) (int, error) {
	if w.direction == ToFwiki {
		fresh, _, err := w.corpus.ReadCorpus(ctx)
		if err != nil {
			return 0, fmt.Errorf("failed to re-read corpus for index: %w", err)
		}
		cards = fresh
	}

	db, err := index.Open(w.indexPath)
	if err != nil {
		return 0, err
	}
	defer db.Close()

	if err := db.InitSchema(ctx); err != nil {
		return 0, err
	}
	run, err := db.RecordRun(ctx, string(w.direction), cards)
	if err != nil {
		return 0, err
	}
	w.logger.Printf("Recorded %d cards in index %s (run %d)", run.CardCount, w.indexPath, run.ID)
	return run.CardCount, nil
}

func componentLogger(sink *runlog.Sink, component string) *log.Logger {
	if sink == nil {
		return runlog.Default(component)
	}
	return sink.Logger(component)
}
