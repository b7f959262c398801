// Package report builds read-only views over persisted charts: the chart
// with features, gender counts with percentages, per-artist tallies, and the
// daily today-versus-yesterday summary. Blank dates resolve to the most
// recent persisted chart.
package report
