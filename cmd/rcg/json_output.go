package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// writeJSON encodes v to the command's stdout. Output is indented on a
// terminal and compact otherwise so it pipes cleanly into line tools.
func writeJSON(cmd *cobra.Command, v any) error {
	out := cmd.OutOrStdout()
	enc := json.NewEncoder(out)
	if shouldColorize(out) {
		enc.SetIndent("", "  ")
	}
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
