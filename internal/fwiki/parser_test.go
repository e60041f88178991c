package fwiki

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/mithrandir/fcon/internal/card"
)

const testID = "/2022 Dec 21, 22:44 4158/"

func TestSplitSegments(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		want      []string
		wantFound bool
	}{
		{
			name:    "no delimiter",
			content: "# Title\n\nsome prose\n",
			want:    []string{"# Title\n\nsome prose\n"},
		},
		{
			name:      "two segments",
			content:   "intro\n---\nq: a\n",
			want:      []string{"intro\n", "q: a\n"},
			wantFound: true,
		},
		{
			name:      "trailing delimiter without newline",
			content:   "intro\n---",
			want:      []string{"intro\n", ""},
			wantFound: true,
		},
		{
			name:      "crlf and trailing spaces",
			content:   "a\r\n--- \r\nb\r\n",
			want:      []string{"a\r\n", "b\r\n"},
			wantFound: true,
		},
		{
			name:    "inline dashes are not delimiters",
			content: "|---|---|\ntext --- more\n----\n",
			want:    []string{"|---|---|\ntext --- more\n----\n"},
		},
		{
			name:      "leading delimiter",
			content:   "---\nq: x\n---\n",
			want:      []string{"", "q: x\n", ""},
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segments, found := SplitSegments(tt.content)
			if found != tt.wantFound {
				t.Errorf("found = %v, want %v", found, tt.wantFound)
			}
			var got []string
			for _, seg := range segments {
				got = append(got, seg.Text)
				if tt.content[seg.Offset:seg.Offset+len(seg.Text)] != seg.Text {
					t.Errorf("segment %q is not at offset %d", seg.Text, seg.Offset)
				}
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("segments mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseSegment(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name         string
		segment      string
		wantQuestion string
		wantAnswer   string
		wantReason   Reason
		wantNil      bool
	}{
		{
			name:         "plain marker",
			segment:      "\nq: What is WAL?\n" + testID + "\n\nWrite-ahead log.\n",
			wantQuestion: "What is WAL?",
			wantAnswer:   "Write-ahead log.",
		},
		{
			name:         "bold marker upper case",
			segment:      "**Q**: Capital of France?\n" + testID + "\nParis",
			wantQuestion: "Capital of France?",
			wantAnswer:   "Paris",
		},
		{
			name:         "underscore marker",
			segment:      "__q__:   spaced   " + testID + " inline answer ",
			wantQuestion: "spaced",
			wantAnswer:   "inline answer",
		},
		{
			name:         "first identifier wins",
			segment:      "q: which?\n" + testID + "\nsee /2023 Jan 05, 14:24 2622/",
			wantQuestion: "which?",
			wantAnswer:   "see /2023 Jan 05, 14:24 2622/",
		},
		{
			name:    "prose is not a card",
			segment: "\nJust some notes about q: things\n",
			wantNil: true,
		},
		{
			name:    "marker beyond window",
			segment: "Question q: late marker " + testID + " a",
			wantNil: true,
		},
		{
			name:       "no identifier",
			segment:    "q: forgot the id\n\nanswer",
			wantReason: ReasonNoIdentifier,
			wantNil:    true,
		},
		{
			name:       "empty answer",
			segment:    "q: empty\n" + testID + "\n\n",
			wantReason: ReasonEmptyAnswer,
			wantNil:    true,
		},
		{
			name:       "todo answer",
			segment:    "q: later\n" + testID + "\n#todo",
			wantReason: ReasonTodoAnswer,
			wantNil:    true,
		},
		{
			name:       "tag only answer",
			segment:    "q: tags\n" + testID + "\n#ml #python",
			wantReason: ReasonTagOnlyAnswer,
			wantNil:    true,
		},
		{
			name:       "skip tag in answer",
			segment:    "q: draft\n" + testID + "\nnot ready #wip.",
			wantReason: ReasonExcludedTag,
			wantNil:    true,
		},
		{
			name:       "skip tag in question",
			segment:    "q: #ankiskip private\n" + testID + "\nanswer",
			wantReason: ReasonExcludedTag,
			wantNil:    true,
		},
		{
			name:         "tag prefix is not a skip tag",
			segment:      "q: wiper\n" + testID + "\n#wiper blades",
			wantQuestion: "wiper",
			wantAnswer:   "#wiper blades",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, reason := p.ParseSegment(tt.segment, "wiki/note.md")
			if reason != tt.wantReason {
				t.Errorf("reason = %q, want %q", reason, tt.wantReason)
			}
			if tt.wantNil {
				if c != nil {
					t.Fatalf("ParseSegment() = %+v, want nil", c)
				}
				return
			}
			if c == nil {
				t.Fatal("ParseSegment() returned nil card")
			}
			if c.Question != tt.wantQuestion {
				t.Errorf("Question = %q, want %q", c.Question, tt.wantQuestion)
			}
			if c.Answer != tt.wantAnswer {
				t.Errorf("Answer = %q, want %q", c.Answer, tt.wantAnswer)
			}
			if c.OriginalText != tt.segment {
				t.Errorf("OriginalText = %q, want untrimmed segment", c.OriginalText)
			}
			if c.OriginalFile != "wiki/note.md" {
				t.Errorf("OriginalFile = %q", c.OriginalFile)
			}
		})
	}
}

func TestParseSegment_CustomSkipTags(t *testing.T) {
	segment := "q: draft\n" + testID + "\nnot ready #wip"

	if c, _ := NewParser([]string{}).ParseSegment(segment, "a.md"); c == nil {
		t.Error("empty skip tag set should accept #wip cards")
	}
	if c, reason := NewParser([]string{"#private"}).ParseSegment("q: x\n"+testID+"\n#private y", "a.md"); c != nil || reason != ReasonExcludedTag {
		t.Errorf("custom skip tag not honored: %v %q", c, reason)
	}
}

func TestHashtags(t *testing.T) {
	got := Hashtags("# Heading\nsome #go text #ml and #go again\n#python")
	want := []string{"#go", "#ml", "#python"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Hashtags() mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RoundTrip(t *testing.T) {
	p := NewParser(nil)
	c := card.Card{Identifier: testID, Question: "  Multi\nline?  ", Answer: "first\n\nsecond  "}

	rendered := Render(c)
	want := "\nq: Multi\nline?\n" + testID + "\n\nfirst\n\nsecond\n\n"
	if rendered != want {
		t.Fatalf("Render() = %q, want %q", rendered, want)
	}

	parsed, reason := p.ParseSegment(rendered, "a.md")
	if parsed == nil {
		t.Fatalf("rendered card did not parse: %q", reason)
	}
	if parsed.Question != "Multi\nline?" || parsed.Answer != "first\n\nsecond" {
		t.Errorf("parsed = %q / %q", parsed.Question, parsed.Answer)
	}
	if !p.RoundTrips(c) {
		t.Error("RoundTrips() = false for a plain card")
	}
}

func TestRenderLines(t *testing.T) {
	c := card.Card{Identifier: testID, Question: "What is WAL?", Answer: "Write-ahead\r\nlogging"}

	tests := []struct {
		name string
		eol  string
		want string
	}{
		{"lf", "\n", "\nq: What is WAL?\n" + testID + "\n\nWrite-ahead\nlogging\n\n"},
		{"crlf", "\r\n", "\r\nq: What is WAL?\r\n" + testID + "\r\n\r\nWrite-ahead\r\nlogging\r\n\r\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, RenderLines(c, tt.eol)); diff != "" {
				t.Errorf("RenderLines() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLineEnding(t *testing.T) {
	if got := LineEnding("a\r\nb\r\n"); got != "\r\n" {
		t.Errorf("LineEnding(crlf) = %q", got)
	}
	if got := LineEnding("a\nb"); got != "\n" {
		t.Errorf("LineEnding(lf) = %q", got)
	}
	if got := LineEnding(""); got != "\n" {
		t.Errorf("LineEnding(empty) = %q", got)
	}
}

func TestRoundTrips_Unsafe(t *testing.T) {
	p := NewParser(nil)

	tests := []struct {
		name string
		card card.Card
	}{
		{"delimiter in answer", card.Card{Identifier: testID, Question: "q", Answer: "a\n---\nb"}},
		{"identifier in question", card.Card{Identifier: testID, Question: "see /2023 Jan 05, 14:24 2622/", Answer: "a"}},
		{"todo answer", card.Card{Identifier: testID, Question: "q", Answer: "#todo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if p.RoundTrips(tt.card) {
				t.Errorf("RoundTrips() = true, want false")
			}
		})
	}
}

func TestIdentifier(t *testing.T) {
	ts := time.Date(2022, time.December, 21, 22, 44, 0, 0, time.UTC)
	id := NewIdentifier(ts, 4158)
	if id != testID {
		t.Errorf("NewIdentifier() = %q, want %q", id, testID)
	}
	if got := NewIdentifier(ts, 7); !strings.HasSuffix(got, " 0007/") {
		t.Errorf("suffix not zero padded: %q", got)
	}
	if !IsIdentifier(id) {
		t.Error("IsIdentifier() rejected a generated identifier")
	}
	if IsIdentifier("x" + id) {
		t.Error("IsIdentifier() accepted surrounding text")
	}
	if FindIdentifier("before "+id+" after") != id {
		t.Error("FindIdentifier() did not find identifier")
	}
}

func TestFindIdentifier_MonthWordChars(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"see /2022 Dec 21, 22:44 4158/ here", "/2022 Dec 21, 22:44 4158/"},
		{"/2022 dec 21, 22:44 4158/", "/2022 dec 21, 22:44 4158/"},
		{"/2022 M_2 21, 22:44 4158/", "/2022 M_2 21, 22:44 4158/"},
		{"/2022 De- 21, 22:44 4158/", ""},
		{"/2022 Dece 21, 22:44 4158/", ""},
		{"/2022 Dec 21, 22:44 415/", ""},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := FindIdentifier(tt.text); got != tt.want {
				t.Errorf("FindIdentifier(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestDiagnostics(t *testing.T) {
	d := NewDiagnostics()
	d.Add("b.md", ReasonNoIdentifier)
	d.Add("a.md", ReasonNoIdentifier)
	d.Add("a.md", ReasonNoIdentifier)
	d.Add("a.md", ReasonTodoAnswer)

	if d.Total() != 4 {
		t.Errorf("Total() = %d, want 4", d.Total())
	}
	if d.Count("a.md", ReasonNoIdentifier) != 2 {
		t.Errorf("Count() = %d, want 2", d.Count("a.md", ReasonNoIdentifier))
	}

	want := []Entry{
		{File: "a.md", Reason: ReasonNoIdentifier, Count: 2},
		{File: "a.md", Reason: ReasonTodoAnswer, Count: 1},
		{File: "b.md", Reason: ReasonNoIdentifier, Count: 1},
	}
	if diff := cmp.Diff(want, d.Entries()); diff != "" {
		t.Errorf("Entries() mismatch (-want +got):\n%s", diff)
	}
}
