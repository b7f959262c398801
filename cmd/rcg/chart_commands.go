package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"rcg/internal/chart"
	"rcg/internal/reconcile"
	"rcg/internal/report"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the stored chart with features",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := ctx.reports()
			if err != nil {
				return err
			}
			view, err := reports.Chart(cmd.Context(), dateFlag)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading("Chart for "+view.LongDate, shouldColorize(out)))
			fmt.Fprintln(out, renderChart(view.Songs))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Chart date (YYYY-MM-DD); defaults to the latest stored chart")
	return cmd
}

func renderChart(songs []report.Song) string {
	rows := make([][]string, 0, len(songs))
	for i, song := range songs {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			song.Title,
			song.PrimaryArtist,
			strings.Join(song.Features, ", "),
		})
	}
	return renderTable([]column{numeric("#"), {Title: "Song"}, {Title: "Artist"}, {Title: "Features"}}, rows, nil)
}

func newCountsCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "counts",
		Short: "Count chart appearances per gender",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := ctx.reports()
			if err != nil {
				return err
			}
			view, err := reports.Counts(cmd.Context(), dateFlag)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, heading(fmt.Sprintf("Appearances on %s", view.Date.Long()), shouldColorize(out)))
			fmt.Fprintln(out, renderCounts(view, shouldColorize(out)))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Chart date (YYYY-MM-DD); defaults to the latest stored chart")
	return cmd
}

func renderCounts(view report.CountsView, colorize bool) string {
	rows := make([][]string, 0, len(view.Rows))
	for _, row := range view.Rows {
		rows = append(rows, []string{
			genderLabel(string(row.Gender), colorize),
			strconv.Itoa(row.Count),
			fmt.Sprintf("%.2f%%", row.Percentage),
		})
	}
	return renderTable([]column{{Title: "Gender"}, numeric("Appearances"), numeric("Share")}, rows,
		[]string{"total", strconv.Itoa(view.Total), ""})
}

func newTallyCommand(ctx *commandContext) *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "tally",
		Short: "Count appearances per artist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := ctx.reports()
			if err != nil {
				return err
			}
			view, err := reports.Tally(cmd.Context(), dateFlag)
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			rows := make([][]string, 0, len(view.Rows))
			for _, row := range view.Rows {
				rows = append(rows, []string{row.ArtistName, genderLabel(row.Gender, colorize), strconv.Itoa(row.Appearances)})
			}
			fmt.Fprintln(out, heading(fmt.Sprintf("Artist tally for %s", view.Date.Long()), colorize))
			fmt.Fprintln(out, renderTable([]column{{Title: "Artist"}, {Title: "Gender"}, numeric("Appearances")}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "", "Chart date (YYYY-MM-DD); defaults to the latest stored chart")
	return cmd
}

func newDiffCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <from-date> <to-date>",
		Short: "Compare two stored charts",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			result, err := reconcile.Diff(cmd.Context(), st, args[0], args[1])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s: %d added, %d removed\n", result.From, result.To, len(result.Added), len(result.Removed))
			for _, track := range result.Added {
				fmt.Fprintf(out, "  + %s\n", describeTrack(track))
			}
			for _, track := range result.Removed {
				fmt.Fprintf(out, "  - %s\n", describeTrack(track))
			}
			return nil
		},
	}
}

func newReportCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Summarize today's chart against yesterday's",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reports, err := ctx.reports()
			if err != nil {
				return err
			}
			view, err := reports.Daily(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, view)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintln(out, heading(fmt.Sprintf("Daily report for %s", view.Today.Long()), colorize))
			fmt.Fprintf(out, "New since %s:\n", view.Yesterday)
			printSongs(cmd, view.Added)
			fmt.Fprintln(out, "Dropped:")
			printSongs(cmd, view.Removed)
			fmt.Fprintln(out, renderCounts(view.Counts, colorize))
			return nil
		},
	}
}

func printSongs(cmd *cobra.Command, songs []report.Song) {
	out := cmd.OutOrStdout()
	if len(songs) == 0 {
		fmt.Fprintln(out, "  (none)")
		return
	}
	for _, song := range songs {
		line := song.Title + " - " + song.PrimaryArtist
		if len(song.Features) > 0 {
			line += " (with " + strings.Join(song.Features, ", ") + ")"
		}
		fmt.Fprintf(out, "  %s\n", line)
	}
}

func newMaxDateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "max-date",
		Short: "Print the most recent stored chart date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			latest, err := st.LatestChartDate(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]string{"date": latest.String(), "long_date": latest.Long()})
			}
			fmt.Fprintln(cmd.OutOrStdout(), latest)
			return nil
		},
	}
}

func newDatesCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "dates",
		Short: "List every stored chart date, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			dates, err := st.ChartDates(cmd.Context())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				if dates == nil {
					dates = []chart.Date{}
				}
				return writeJSON(cmd, dates)
			}
			out := cmd.OutOrStdout()
			if len(dates) == 0 {
				fmt.Fprintln(out, "No charts stored yet; run rcg update")
				return nil
			}
			for _, date := range dates {
				fmt.Fprintln(out, date)
			}
			return nil
		},
	}
}
