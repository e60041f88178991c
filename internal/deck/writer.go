package deck

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/mithrandir/fcon/internal/card"
	"github.com/mithrandir/fcon/internal/fsutil"
)

// ErrNoOutputPaths is returned when a writer has nowhere to write.
var ErrNoOutputPaths = errors.New("no deck output paths configured")

// Writer writes the whole deck to one or more files. Every path receives the
// same bytes.
type Writer struct {
	paths []string
}

// NewWriter creates a writer fanning out to paths.
func NewWriter(paths []string) *Writer {
	return &Writer{paths: paths}
}

// Paths returns the output paths.
func (w *Writer) Paths() []string {
	return w.paths
}

// Write serializes cards and writes them to every path. It returns the
// number of rows written per file.
func (w *Writer) Write(ctx context.Context, cards *card.Collection) (int, error) {
	if len(w.paths) == 0 {
		return 0, ErrNoOutputPaths
	}

	data, err := Encode(cards)
	if err != nil {
		return 0, err
	}

	for _, path := range w.paths {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		if err := fsutil.WriteFileAtomic(path, data, 0644); err != nil {
			return 0, fmt.Errorf("failed to write deck %s: %w", path, err)
		}
	}
	return cards.Len(), nil
}

// Encode renders cards as deck rows in collection order.
func Encode(cards *card.Collection) ([]byte, error) {
	var buf bytes.Buffer
	cw := csv.NewWriter(&buf)
	cw.Comma = '\t'

	for _, c := range cards.Cards() {
		if err := cw.Write([]string{c.Identifier, c.Question, c.Answer}); err != nil {
			return nil, fmt.Errorf("failed to encode card %s: %w", c.Identifier, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return nil, fmt.Errorf("failed to encode deck: %w", err)
	}
	return buf.Bytes(), nil
}
