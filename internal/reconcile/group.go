package reconcile

import (
	"sort"

	"github.com/mithrandir/fcon/internal/card"
)

// Pair is a deck card matched with the corpus card of the same identifier.
type Pair struct {
	Deck   card.Card
	Corpus card.Card
}

// Group matches deck cards to corpus cards by identifier and groups the
// pairs by the corpus card's file. Deck cards without a corpus counterpart
// are ignored. Members of each group are in identifier order.
func Group(deck, corpus *card.Collection) map[string][]Pair {
	groups := make(map[string][]Pair)
	for _, id := range deck.Intersect(corpus) {
		d, _ := deck.Get(id)
		c, _ := corpus.Get(id)
		groups[c.OriginalFile] = append(groups[c.OriginalFile], Pair{Deck: d, Corpus: c})
	}
	return groups
}

// sortedFiles returns the group keys in lexical order.
func sortedFiles(groups map[string][]Pair) []string {
	files := make([]string, 0, len(groups))
	for file := range groups {
		files = append(files, file)
	}
	sort.Strings(files)
	return files
}
