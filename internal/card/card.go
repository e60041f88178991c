// Package card provides the card record shared by the wiki corpus and the
// flashcard deck, and the identifier-keyed collection built from them.
package card

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Card is one question/answer study unit.
//
// Cards read from the wiki corpus carry provenance: OriginalText is the exact,
// untrimmed segment the card was parsed from and OriginalFile is the file that
// holds it. Cards read from a deck file leave both empty.
type Card struct {
	// ===== Identification =====
	Identifier string `json:"identifier"`

	// ===== Content =====
	Question string   `json:"question"`
	Answer   string   `json:"answer"`
	Tags     []string `json:"tags,omitempty"`

	// ===== Provenance (corpus cards only) =====
	OriginalText string `json:"original_text,omitempty"`
	OriginalFile string `json:"original_file,omitempty"`
}

// Validate checks the fields every card must have.
func (c *Card) Validate() error {
	if c.Identifier == "" {
		return fmt.Errorf("identifier is required")
	}
	if c.OriginalText != "" && c.OriginalFile == "" {
		return fmt.Errorf("card %s has original text but no original file", c.Identifier)
	}
	return nil
}

// FromCorpus reports whether the card was parsed from a wiki file.
func (c *Card) FromCorpus() bool {
	return c.OriginalFile != ""
}

// SameContent reports whether two cards carry the same question and answer.
// CRLF and LF line endings compare equal.
func (c *Card) SameContent(other *Card) bool {
	return unixLines(c.Question) == unixLines(other.Question) &&
		unixLines(c.Answer) == unixLines(other.Answer)
}

func unixLines(s string) string {
	return strings.ReplaceAll(s, "\r\n", "\n")
}

// Hash returns a stable digest of the identifier, question and answer.
// Provenance is not part of the hash, so a card keeps its hash when its
// surrounding file changes.
func (c *Card) Hash() string {
	h := sha256.New()
	for _, field := range []string{c.Identifier, c.Question, c.Answer} {
		h.Write([]byte(field))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}
