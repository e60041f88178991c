package fwiki

import (
	"regexp"
	"strings"

	"github.com/mithrandir/fcon/internal/card"
)

// QuestionMarkers are the recognized card prefixes, matched case-insensitively.
var QuestionMarkers = []string{
	"q:",
	"__q__:",
	"**q**:",
}

// markerWindow is how many leading characters are inspected for a marker.
const markerWindow = 10

// DefaultSkipTags exclude a card from sync when they appear in its text.
var DefaultSkipTags = []string{"#ankiskip", "#wip"}

// DefaultFileSkipTag excludes a whole file when its content starts with it.
const DefaultFileSkipTag = "#ankiskip"

var (
	hashtagRe = regexp.MustCompile(`(?:^|\s)(#[\p{L}\p{N}_/-]+)`)
	tagOnlyRe = regexp.MustCompile(`^#[\p{L}\p{N}_/-]+(?:\s+#[\p{L}\p{N}_/-]+)*$`)
)

// Parser turns segments of a wiki file into cards.
type Parser struct {
	skipTags []string
}

// NewParser returns a parser that rejects cards carrying any of skipTags.
// A nil slice selects DefaultSkipTags; an empty slice disables the filter.
func NewParser(skipTags []string) *Parser {
	if skipTags == nil {
		skipTags = DefaultSkipTags
	}
	return &Parser{skipTags: skipTags}
}

// Segment is a delimiter-free slice of a wiki file.
type Segment struct {
	// Text is the untrimmed segment, a literal substring of the file.
	Text string
	// Offset is the byte offset of Text in the file.
	Offset int
}

// SplitSegments splits content on delimiter lines (a line that is exactly
// "---", ignoring trailing blanks and a carriage return). The delimiter lines
// themselves belong to no segment. The second result reports whether any
// delimiter was found.
func SplitSegments(content string) ([]Segment, bool) {
	var (
		segments []Segment
		found    bool
		segStart int
		pos      int
	)
	for pos <= len(content) {
		lineEnd := strings.IndexByte(content[pos:], '\n')
		next := 0
		if lineEnd < 0 {
			lineEnd = len(content)
			next = len(content) + 1
		} else {
			lineEnd += pos
			next = lineEnd + 1
		}

		if isDelimiter(content[pos:lineEnd]) {
			found = true
			segments = append(segments, Segment{Text: content[segStart:pos], Offset: segStart})
			segStart = next
			if segStart > len(content) {
				segStart = len(content)
			}
		}
		pos = next
	}
	segments = append(segments, Segment{Text: content[segStart:], Offset: segStart})
	return segments, found
}

func isDelimiter(line string) bool {
	return strings.TrimRight(line, " \t\r") == "---"
}

// HasDelimiter reports whether content contains at least one delimiter line.
func HasDelimiter(content string) bool {
	_, found := SplitSegments(content)
	return found
}

// questionMarker returns the marker text starts with, or "".
func questionMarker(text string) string {
	head := text
	if r := []rune(text); len(r) > markerWindow {
		head = string(r[:markerWindow])
	}
	head = strings.ToLower(head)
	for _, marker := range QuestionMarkers {
		if strings.HasPrefix(head, marker) {
			return marker
		}
	}
	return ""
}

// ParseSegment parses one segment of file path.
//
// It returns the card on success. A nil card with an empty reason means the
// segment is prose and not a card at all; a nil card with a reason means the
// segment looked like a card but was rejected.
func (p *Parser) ParseSegment(segment, path string) (*card.Card, Reason) {
	text := strings.TrimSpace(segment)
	marker := questionMarker(text)
	if marker == "" {
		return nil, ""
	}
	text = strings.TrimSpace(text[len(marker):])

	identifier := FindIdentifier(text)
	if identifier == "" {
		return nil, ReasonNoIdentifier
	}
	question, answer, _ := strings.Cut(text, identifier)
	question = strings.TrimSpace(question)
	answer = strings.TrimSpace(answer)

	if reason := p.reject(question, answer); reason != "" {
		return nil, reason
	}

	return &card.Card{
		Identifier:   identifier,
		Question:     question,
		Answer:       answer,
		Tags:         Hashtags(question + "\n" + answer),
		OriginalText: segment,
		OriginalFile: path,
	}, ""
}

func (p *Parser) reject(question, answer string) Reason {
	switch {
	case answer == "":
		return ReasonEmptyAnswer
	case strings.EqualFold(answer, "#todo"), strings.EqualFold(answer, "todo"):
		return ReasonTodoAnswer
	case tagOnlyRe.MatchString(answer):
		return ReasonTagOnlyAnswer
	case p.hasSkipTag(question), p.hasSkipTag(answer):
		return ReasonExcludedTag
	}
	return ""
}

func (p *Parser) hasSkipTag(text string) bool {
	if len(p.skipTags) == 0 {
		return false
	}
	for _, token := range strings.Fields(text) {
		token = strings.TrimRight(token, ".,;:!?)]}\"'")
		for _, tag := range p.skipTags {
			if strings.EqualFold(token, tag) {
				return true
			}
		}
	}
	return false
}

// Hashtags returns the distinct hashtags in text in order of appearance.
func Hashtags(text string) []string {
	var tags []string
	seen := make(map[string]bool)
	for _, m := range hashtagRe.FindAllStringSubmatch(text, -1) {
		tag := m[1]
		if seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}

// RoundTrips reports whether the canonical rendering of c parses back to the
// same identifier, question and answer. Cards that do not round-trip must not
// be written into a wiki file.
func (p *Parser) RoundTrips(c card.Card) bool {
	rendered := Render(c)
	if HasDelimiter(rendered) {
		return false
	}
	parsed, _ := p.ParseSegment(rendered, "")
	if parsed == nil {
		return false
	}
	return parsed.Identifier == c.Identifier &&
		parsed.Question == strings.TrimSpace(c.Question) &&
		parsed.Answer == strings.TrimSpace(c.Answer)
}
