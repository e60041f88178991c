package reconcile

import "github.com/mithrandir/fcon/internal/fwiki"

// Report summarizes one reconcile run.
type Report struct {
	// Existing is the number of cards in the corpus.
	Existing int `json:"existing"`
	// Exported is the number of cards in the deck.
	Exported int `json:"exported"`
	// Intersection is the number of identifiers present in both.
	Intersection int `json:"intersection"`

	// Updated is the number of spans replaced (or that would be, on a dry run).
	Updated int `json:"updated"`
	// Unchanged is the number of deck cards identical to their corpus card.
	Unchanged int `json:"unchanged"`

	// Missing lists deck identifiers with no corpus card.
	Missing []string `json:"missing,omitempty"`
	// MarkupDense lists deck identifiers whose answer carries too much markup.
	MarkupDense []string `json:"markup_dense,omitempty"`
	// Unsafe lists deck identifiers whose text would not read back as the
	// same card once written into a wiki file.
	Unsafe []string `json:"unsafe,omitempty"`

	// Files lists the rewritten files (or the files a dry run would rewrite).
	Files []string `json:"files,omitempty"`

	// Diagnostics is the rejection report from reading the corpus.
	Diagnostics *fwiki.Diagnostics `json:"-"`
}

// Skipped returns the number of deck cards left out of the rewrite.
func (r *Report) Skipped() int {
	return len(r.Missing) + len(r.MarkupDense) + len(r.Unsafe)
}
