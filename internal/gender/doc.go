// Package gender turns two independent biography texts into a single
// demographic label per artist.
//
// Each biography source is scored with a whole-word pronoun count; source
// failures collapse into sentinel labels instead of errors. Combine merges the
// two per-source labels with a fixed precedence (source A first), and
// Classifier runs both lookups concurrently. Nothing in this package returns
// an error for a failed lookup, so one uncooperative source never blocks
// chart ingestion.
package gender
