// Package chart holds the canonical value types shared by every stage of a
// reconciliation run: artists, tracks, charts, and the appearance rows derived
// from them.
//
// Identity is defined by external ids only. Two Track values with the same
// song id are the same track even when their credits differ; the first one
// observed wins when a Chart is built. Values are immutable once constructed:
// callers derive new tracks with WithCredits instead of editing credits.
//
// The package also owns chart dates. ParseDate is the single validation entry
// point for caller-supplied dates and Clock supplies "today" explicitly so no
// component reads process-wide date state.
package chart
