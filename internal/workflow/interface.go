// Package workflow wires a card source to a card destination for one sync
// direction and runs the pass.
package workflow

import (
	"context"

	"github.com/mithrandir/fcon/internal/card"
)

// Reader produces the cards a run starts from.
//
// Implementations record what they saw (counts, diagnostics) in the summary.
type Reader interface {
	Read(ctx context.Context, summary *Summary) (*card.Collection, error)
}

// Writer delivers cards to their destination.
//
// Implementations record what they wrote in the summary.
type Writer interface {
	Write(ctx context.Context, cards *card.Collection, summary *Summary) error
}
