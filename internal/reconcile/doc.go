// Package reconcile writes edits made in the flashcard deck back into the
// wiki files the cards came from.
//
// The corpus is re-read at the start of every run so each card's recorded
// span is current. Each affected file is read once, every span belonging to
// it is replaced with the card's canonical rendering, and the file is written
// once. A span that can no longer be found verbatim means the file changed
// after it was read; the run stops rather than guess.
//
// Cards whose question and answer already match the corpus are left alone,
// so reconciling an unmodified deck writes nothing.
//
// Example:
//
//	reader := fwiki.NewReader(fwiki.Options{Roots: roots})
//	engine := reconcile.New(reader, reconcile.Options{Parser: reader.Parser()})
//	report, err := engine.Apply(ctx, deckCards)
//	if err != nil {
//	    return err
//	}
//	fmt.Printf("updated %d cards in %d files\n", report.Updated, len(report.Files))
package reconcile
