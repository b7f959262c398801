// Package store persists charts, artists, appearances, and group
// memberships in SQLite.
//
// Writes are additive: every insert is INSERT OR IGNORE against a UNIQUE
// constraint, so replays and overlapping runs never duplicate rows. Write
// applies a whole reconciliation batch in one transaction, which keeps a
// chart from ever being partially persisted. Queries rebuild canonical
// chart values and the aggregates used by reports.
package store
