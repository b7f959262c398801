package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rcg/internal/chart"
	"rcg/internal/reconcile"
)

func newUpdateCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Reconcile the stored chart with the live playlist",
		Long: `Fetch the live playlist, store any tracks missing from the chart for the
date (today in the configured timezone by default), and classify artists
seen for the first time. Tracks that left the playlist are reported but
never deleted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}
			result, err := engine.Reconcile(cmd.Context(), dateFlag)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			renderUpdate(cmd, result)
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Chart date (YYYY-MM-DD); defaults to today")
	return cmd
}

func renderUpdate(cmd *cobra.Command, result reconcile.Result) {
	out := cmd.OutOrStdout()
	colorize := shouldColorize(out)
	if result.Status == reconcile.StatusNoUpdate {
		fmt.Fprintf(out, "No update for %s: stored chart already matches the playlist\n", result.Date)
	} else {
		fmt.Fprintln(out, heading(fmt.Sprintf("Updated chart for %s", result.Date.Long()), colorize))
		fmt.Fprintf(out, "  %d track(s) added, %d new artist(s), %d row(s) written\n",
			len(result.Added), len(result.NewArtists), result.Written.Total())
		for _, track := range result.Added {
			fmt.Fprintf(out, "  + %s\n", describeTrack(track))
		}
		for _, artist := range result.NewArtists {
			fmt.Fprintf(out, "  * %s %s\n", artist.Name, genderLabel(artist.Gender, colorize))
		}
	}
	for _, track := range result.Removed {
		fmt.Fprintf(out, "  - %s (no longer on the playlist)\n", describeTrack(track))
	}
}

func describeTrack(track chart.Track) string {
	line := fmt.Sprintf("%s - %s", track.SongName(), track.Primary().Name)
	featured := track.Featured()
	if len(featured) == 0 {
		return line
	}
	names := make([]string, 0, len(featured))
	for _, artist := range featured {
		names = append(names, artist.Name)
	}
	return line + " (with " + strings.Join(names, ", ") + ")"
}
