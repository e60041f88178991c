// Package fwiki reads question/answer cards embedded in a markdown wiki.
//
// A wiki file is split into segments on lines consisting of "---". A segment
// whose trimmed text starts with a question marker (q:, __q__:, **q**:) is a
// card candidate:
//
//	---
//	q: What does WAL stand for?
//	/2022 Dec 21, 22:44 4158/
//
//	Write-ahead logging.
//	---
//
// The identifier splits the question from the answer. Each accepted card
// remembers its untrimmed segment and file so that the reconcile step can
// replace exactly that span later. Segments that look like cards but fail a
// rule are counted in Diagnostics; prose segments are ignored.
package fwiki
