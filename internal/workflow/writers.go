package workflow

import (
	"context"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/deck"
	"github.com/mithrandir/fcon/internal/reconcile"
)

// ToDeckFile writes the whole collection as a deck import file.
type ToDeckFile struct {
	writer *deck.Writer
	dryRun bool
}

// NewToDeckFile creates a deck Writer. On a dry run nothing is written.
func NewToDeckFile(writer *deck.Writer, dryRun bool) *ToDeckFile {
	return &ToDeckFile{writer: writer, dryRun: dryRun}
}

// Write implements Writer.
func (w *ToDeckFile) Write(ctx context.Context, cards *card.Collection, summary *Summary) error {
	summary.DeckPaths = w.writer.Paths()
	if w.dryRun {
		if len(w.writer.Paths()) == 0 {
			return deck.ErrNoOutputPaths
		}
		summary.DeckRows = cards.Len()
		return nil
	}
	n, err := w.writer.Write(ctx, cards)
	if err != nil {
		return err
	}
	summary.DeckRows = n
	return nil
}

// ToWikiCorpus writes deck edits back into the wiki files.
type ToWikiCorpus struct {
	engine *reconcile.Engine
}

// NewToWikiCorpus creates a reconcile-backed Writer.
func NewToWikiCorpus(engine *reconcile.Engine) *ToWikiCorpus {
	return &ToWikiCorpus{engine: engine}
}

// Write implements Writer.
func (w *ToWikiCorpus) Write(ctx context.Context, cards *card.Collection, summary *Summary) error {
	report, err := w.engine.Apply(ctx, cards)
	if err != nil {
		return err
	}
	summary.Reconcile = report
	summary.Diagnostics = report.Diagnostics
	return nil
}
