// Package deck reads and writes the tab-separated flashcard deck format.
//
// A deck row has three columns and no header:
//
//	identifier<TAB>front<TAB>back
//
// Fields that contain tabs, quotes or newlines are quoted the way Python's
// csv module quotes them, which is what the study tool's importer expects.
// Exports from the study tool may start with "#key:value" header lines;
// those are skipped on read.
package deck

import (
	"regexp"
	"strings"
)

// Columns is the number of fields in a deck row.
const Columns = 3

var lineBreakRe = regexp.MustCompile(`(?i)<br\s*/?>`)

var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&gt;", ">",
	"&lt;", "<",
	"&quot;", `"`,
	"&amp;", "&",
)

// Normalize converts the HTML the study tool stores into the plain text used
// in the wiki: line-break tags become newlines and the common entities become
// literal characters.
func Normalize(s string) string {
	s = lineBreakRe.ReplaceAllString(s, "\n")
	return entityReplacer.Replace(s)
}
