package card

import (
	"errors"
	"fmt"
	"sort"
)

// ErrDuplicateIdentifier is returned when two cards in one collection share
// an identifier. Reconciliation would be ambiguous, so this is always fatal.
var ErrDuplicateIdentifier = errors.New("duplicate card identifier")

// Collection is an immutable set of cards keyed by identifier.
//
// Lookups go through the map; positional access (At, Cards) follows a stable
// order sorted by identifier.
type Collection struct {
	byID  map[string]Card
	order []string
}

// NewCollection builds a collection from cards, failing on the first
// identifier collision.
func NewCollection(cards []Card) (*Collection, error) {
	c := &Collection{
		byID:  make(map[string]Card, len(cards)),
		order: make([]string, 0, len(cards)),
	}
	for _, card := range cards {
		if err := card.Validate(); err != nil {
			return nil, fmt.Errorf("invalid card: %w", err)
		}
		if prev, ok := c.byID[card.Identifier]; ok {
			return nil, duplicateError(prev, card)
		}
		c.byID[card.Identifier] = card
		c.order = append(c.order, card.Identifier)
	}
	sort.Strings(c.order)
	return c, nil
}

func duplicateError(prev, next Card) error {
	if prev.OriginalFile != "" || next.OriginalFile != "" {
		return fmt.Errorf("%w: %s (in %s and %s)", ErrDuplicateIdentifier,
			next.Identifier, prev.OriginalFile, next.OriginalFile)
	}
	return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, next.Identifier)
}

// Len returns the number of cards.
func (c *Collection) Len() int {
	if c == nil {
		return 0
	}
	return len(c.order)
}

// Get returns the card with the given identifier.
func (c *Collection) Get(id string) (Card, bool) {
	if c == nil {
		return Card{}, false
	}
	card, ok := c.byID[id]
	return card, ok
}

// Has reports whether a card with the given identifier exists.
func (c *Collection) Has(id string) bool {
	_, ok := c.Get(id)
	return ok
}

// At returns the i-th card in identifier order.
func (c *Collection) At(i int) Card {
	return c.byID[c.order[i]]
}

// IDs returns all identifiers in sorted order.
func (c *Collection) IDs() []string {
	if c == nil {
		return nil
	}
	ids := make([]string, len(c.order))
	copy(ids, c.order)
	return ids
}

// Cards returns a copy of all cards in identifier order.
func (c *Collection) Cards() []Card {
	if c == nil {
		return nil
	}
	cards := make([]Card, 0, len(c.order))
	for _, id := range c.order {
		cards = append(cards, c.byID[id])
	}
	return cards
}

// Intersect returns the sorted identifiers present in both collections.
func (c *Collection) Intersect(other *Collection) []string {
	var ids []string
	for _, id := range c.IDs() {
		if other.Has(id) {
			ids = append(ids, id)
		}
	}
	return ids
}
