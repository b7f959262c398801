// Package workflow runs reconciliation on a schedule.
//
// The Manager calls the engine once at start and then every poll interval
// until stopped. Runs never overlap: a tick that fires while a run is still
// in flight is skipped, and the engine's own run lock rejects runs started
// by other processes. Failures are logged and recorded in the status summary;
// the loop keeps going.
package workflow
