// Package textutil provides the small text helpers shared by the classifier
// and the report views.
//
// The primary use cases are:
//   - Splitting biography text into case-folded whole words for pronoun counting
//   - Stripping "(feat. X)" / "[with X]" suffixes from song titles
//   - Title-casing short labels for display
package textutil
