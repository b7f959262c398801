// Package reconcile brings the persisted chart for a date in line with the
// live playlist snapshot.
//
// A run fetches and normalizes the snapshot, diffs it against the stored
// chart, expands collectives on newly charted tracks, classifies artists the
// store has never seen, writes everything in one transaction, and then
// reloads the stored chart to prove the write landed. Runs never delete rows:
// tracks that left the playlist are reported, not removed. A file lock keeps
// runs from overlapping across the CLI and daemon.
package reconcile
