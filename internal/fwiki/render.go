package fwiki

import (
	"strings"

	"github.com/mithrandir/fcon/internal/card"
)

// Render returns the canonical wiki text for c:
//
//	q: <question>
//	<identifier>
//
//	<answer>
//
// wrapped in a leading and a trailing blank line. The result parses back to
// the same identifier, question and answer.
func Render(c card.Card) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("q: ")
	b.WriteString(strings.TrimSpace(c.Question))
	b.WriteString("\n")
	b.WriteString(c.Identifier)
	b.WriteString("\n\n")
	b.WriteString(strings.TrimSpace(c.Answer))
	b.WriteString("\n\n")
	return b.String()
}

// RenderLines is Render with every line ending written as eol.
func RenderLines(c card.Card, eol string) string {
	text := strings.ReplaceAll(Render(c), "\r\n", "\n")
	if eol == "\n" {
		return text
	}
	return strings.ReplaceAll(text, "\n", eol)
}

// LineEnding returns "\r\n" if content uses CRLF line endings and "\n"
// otherwise.
func LineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}
