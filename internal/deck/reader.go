package deck

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mithrandir/fcon/internal/card"
)

// Reader reads a deck file exported from the study tool.
type Reader struct {
	path string
}

// NewReader creates a reader for the deck at path.
func NewReader(path string) *Reader {
	return &Reader{path: path}
}

// Path returns the deck file path.
func (r *Reader) Path() string {
	return r.path
}

// Read parses the deck into a collection. Rows with the wrong column count
// and duplicate identifiers are errors.
func (r *Reader) Read(ctx context.Context) (*card.Collection, error) {
	// #nosec G304 - controlled path from configuration
	file, err := os.Open(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open deck file: %w", err)
	}
	defer file.Close()

	cards, err := Parse(ctx, file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse deck %s: %w", r.path, err)
	}

	coll, err := card.NewCollection(cards)
	if err != nil {
		return nil, fmt.Errorf("deck %s: %w", r.path, err)
	}
	return coll, nil
}

// Parse decodes deck rows from in, normalizing HTML in front and back.
func Parse(ctx context.Context, in io.Reader) ([]card.Card, error) {
	cr := csv.NewReader(in)
	cr.Comma = '\t'
	cr.Comment = '#'
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var cards []card.Card
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(record) != Columns {
			line, _ := cr.FieldPos(0)
			return nil, fmt.Errorf("line %d: expected %d columns, got %d", line, Columns, len(record))
		}

		cards = append(cards, card.Card{
			Identifier: record[0],
			Question:   Normalize(record[1]),
			Answer:     Normalize(record[2]),
		})
	}
	return cards, nil
}
