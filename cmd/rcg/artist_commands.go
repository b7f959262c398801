package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"rcg/internal/chart"
	"rcg/internal/gender"
)

func newGenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "gender <artist name>",
		Short: "Classify an artist from their biographies without storing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier, err := ctx.classifier()
			if err != nil {
				return err
			}
			name := strings.Join(args, " ")
			result := classifier.Classify(cmd.Context(), name)
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "%s\n", heading(result.Artist, colorize))
			fmt.Fprintf(out, "  lastfm:    %s\n", genderLabel(string(result.SourceA), colorize))
			fmt.Fprintf(out, "  wikipedia: %s\n", genderLabel(string(result.SourceB), colorize))
			fmt.Fprintf(out, "  resolved:  %s\n", genderLabel(string(result.Gender), colorize))
			return nil
		},
	}
}

func newSetGenderCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set-gender <artist id or name> <label>",
		Short: "Override the stored gender label for an artist",
		Long: `Labels: m (male), f (female), n (non-binary), x (unknown), g (group).
Full words such as "female" are accepted too. The raw per-source labels are kept.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			label, err := gender.ParseLabel(args[1])
			if err != nil {
				return err
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			updated, err := st.SetArtistGender(cmd.Context(), args[0], label.String())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"artist": args[0], "gender": label, "updated": updated})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s to %s (%d row(s))\n", args[0],
				genderLabel(label.String(), shouldColorize(cmd.OutOrStdout())), updated)
			return nil
		},
	}
}

func newAddSongCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "add-song <spotify track id>",
		Short: "Store a track's artists without adding it to a chart",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine, err := ctx.engine(cmd.Context())
			if err != nil {
				return err
			}
			result, err := engine.AddSong(cmd.Context(), strings.TrimPrefix(args[0], "spotify:track:"))
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, result)
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			fmt.Fprintf(out, "Added %s: %d new artist(s)\n", describeTrack(result.Track), len(result.NewArtists))
			for _, artist := range result.NewArtists {
				fmt.Fprintf(out, "  * %s %s\n", artist.Name, genderLabel(artist.Gender, colorize))
			}
			return nil
		},
	}
}

func newGroupCommand(ctx *commandContext) *cobra.Command {
	groupCmd := &cobra.Command{
		Use:   "group",
		Short: "Maintain collective membership",
	}

	groupCmd.AddCommand(&cobra.Command{
		Use:   "add <group id> <member name> <member id>",
		Short: "Record a member of a collective",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			added, err := st.AddGroupMember(cmd.Context(), args[0], chart.Member{Name: args[1], ExternalID: args[2]})
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]any{"group": args[0], "member": args[2], "added": added})
			}
			if added {
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s to group %s\n", args[1], args[0])
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is already a member of group %s\n", args[1], args[0])
			}
			return nil
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "list <group id>",
		Short: "List a collective's members",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			members, err := st.Members(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, members)
			}
			rows := make([][]string, 0, len(members))
			for _, member := range members {
				rows = append(rows, []string{member.Name, member.ExternalID})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(columns("Member", "ID"), rows, nil))
			return nil
		},
	})

	groupCmd.AddCommand(&cobra.Command{
		Use:   "label",
		Short: "Label every stored collective as a group",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			updated, err := st.LabelCollectives(cmd.Context(), gender.Collective.String())
			if err != nil {
				return err
			}
			if ctx.jsonOutput() {
				return writeJSON(cmd, map[string]int64{"updated": updated})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Labelled %d collective(s) as groups\n", updated)
			return nil
		},
	})

	return groupCmd
}
