// Package logging assembles the structured slog loggers used across rcg.
//
// It owns the console and JSON handlers, level parsing, and output plumbing
// (stdout plus an optional log file), and exposes small helpers so components
// tag their lines with a component name and the reconciliation run id. A
// no-op logger is provided for tests and wiring code that cannot fail.
//
// Prefer these constructors over hand-rolled slog setup so every component
// emits lines with the same shape.
package logging
