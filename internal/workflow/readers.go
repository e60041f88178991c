package workflow

import (
	"context"
	"fmt"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/deck"
	"github.com/mithrandir/fcon/internal/fwiki"
)

// FromWikiCorpus reads cards out of the wiki corpus.
type FromWikiCorpus struct {
	reader *fwiki.Reader
}

// NewFromWikiCorpus creates a corpus-backed Reader.
func NewFromWikiCorpus(reader *fwiki.Reader) *FromWikiCorpus {
	return &FromWikiCorpus{reader: reader}
}

// Read implements Reader.
func (r *FromWikiCorpus) Read(ctx context.Context, summary *Summary) (*card.Collection, error) {
	cards, diag, err := r.reader.ReadCorpus(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read wiki corpus: %w", err)
	}
	summary.CardsRead = cards.Len()
	summary.Diagnostics = diag
	return cards, nil
}

// FromDeckFile reads cards exported from the study tool.
type FromDeckFile struct {
	reader *deck.Reader
}

// NewFromDeckFile creates a deck-backed Reader.
func NewFromDeckFile(reader *deck.Reader) *FromDeckFile {
	return &FromDeckFile{reader: reader}
}

// Read implements Reader.
func (r *FromDeckFile) Read(ctx context.Context, summary *Summary) (*card.Collection, error) {
	cards, err := r.reader.Read(ctx)
	if err != nil {
		return nil, err
	}
	summary.CardsRead = cards.Len()
	summary.DeckPaths = []string{r.reader.Path()}
	return cards, nil
}
