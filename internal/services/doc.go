// Package services builds the external integrations (playlist source,
// biography sources) and the reconciliation engine from configuration, so
// the CLI and the daemon wire them identically.
package services
