// Package daemon coordinates the long-running rcgd process.
//
// It wires configuration, the chart store, the scheduled reconciliation
// workflow, and the JSON API into a single lifecycle with flock-based locking
// to prevent multiple instances. Reconciliation itself lives in
// internal/reconcile; the daemon only starts, stops, and reports on it.
package daemon
