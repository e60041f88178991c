package fwiki

import "sort"

// Reason explains why a segment that looked like a card was rejected.
type Reason string

const (
	// ReasonNoIdentifier: the segment has a question marker but no identifier.
	ReasonNoIdentifier Reason = "no-identifier"
	// ReasonEmptyAnswer: nothing follows the identifier.
	ReasonEmptyAnswer Reason = "empty-answer"
	// ReasonTodoAnswer: the answer is a bare todo marker.
	ReasonTodoAnswer Reason = "todo-answer"
	// ReasonTagOnlyAnswer: the answer consists of hashtags only.
	ReasonTagOnlyAnswer Reason = "tag-only-answer"
	// ReasonExcludedTag: the question or answer carries a skip tag.
	ReasonExcludedTag Reason = "excluded-tag"
)

// Diagnostics counts segment rejections per file and reason.
// The zero value is not usable; call NewDiagnostics.
type Diagnostics struct {
	counts map[string]map[Reason]int
}

// NewDiagnostics returns an empty counter.
func NewDiagnostics() *Diagnostics {
	return &Diagnostics{counts: make(map[string]map[Reason]int)}
}

// Add records one rejection.
func (d *Diagnostics) Add(file string, reason Reason) {
	byReason, ok := d.counts[file]
	if !ok {
		byReason = make(map[Reason]int)
		d.counts[file] = byReason
	}
	byReason[reason]++
}

// Count returns the number of rejections for file and reason.
func (d *Diagnostics) Count(file string, reason Reason) int {
	if d == nil {
		return 0
	}
	return d.counts[file][reason]
}

// Total returns the number of rejections across all files.
func (d *Diagnostics) Total() int {
	if d == nil {
		return 0
	}
	total := 0
	for _, byReason := range d.counts {
		for _, n := range byReason {
			total += n
		}
	}
	return total
}

// Entry is one line of the diagnostics report.
type Entry struct {
	File   string
	Reason Reason
	Count  int
}

// Entries returns the report most common first, then by file and reason.
func (d *Diagnostics) Entries() []Entry {
	if d == nil {
		return nil
	}
	var entries []Entry
	for file, byReason := range d.counts {
		for reason, n := range byReason {
			entries = append(entries, Entry{File: file, Reason: reason, Count: n})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		if a.File != b.File {
			return a.File < b.File
		}
		return a.Reason < b.Reason
	})
	return entries
}
