package fwiki

import (
	"fmt"
	"regexp"
	"time"
)

// IdentifierPattern matches card identifiers such as /2022 Dec 21, 22:44 4158/.
const IdentifierPattern = `/\d{4} \w{3} \d\d, \d\d:\d\d \d{4}/`

var (
	identifierRe      = regexp.MustCompile(IdentifierPattern)
	exactIdentifierRe = regexp.MustCompile(`^` + IdentifierPattern + `$`)
)

// identifierLayout is the time part of an identifier.
const identifierLayout = "2006 Jan 02, 15:04"

// FindIdentifier returns the first identifier in text, or "" when none is
// present.
func FindIdentifier(text string) string {
	return identifierRe.FindString(text)
}

// IsIdentifier reports whether s is exactly one identifier.
func IsIdentifier(s string) bool {
	return exactIdentifierRe.MatchString(s)
}

// NewIdentifier formats an identifier for t. The suffix keeps cards created
// in the same minute apart; only its last four digits are used.
func NewIdentifier(t time.Time, suffix int) string {
	if suffix < 0 {
		suffix = -suffix
	}
	return fmt.Sprintf("/%s %04d/", t.Format(identifierLayout), suffix%10000)
}
