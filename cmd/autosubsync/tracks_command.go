package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"autosubsync/internal/host"
	"autosubsync/internal/logging"
	"autosubsync/internal/tracks"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List the audio and subtitle tracks of the running mpv",
		RunE: func(cmd *cobra.Command, args []string) error {
			session, err := ctx.dialPlayer(logging.NewNop())
			if err != nil {
				return err
			}
			defer session.Close()

			inspector := tracks.NewInspector(session)
			var rows [][]string
			for _, kind := range []host.TrackKind{host.TrackAudio, host.TrackSubtitle} {
				list, err := inspector.List(cmd.Context(), kind)
				if err != nil {
					return err
				}
				for _, track := range list {
					rows = append(rows, trackRow(track))
				}
			}

			out := cmd.OutOrStdout()
			if len(rows) == 0 {
				fmt.Fprintln(out, "No audio or subtitle tracks loaded")
				return nil
			}
			fmt.Fprintln(out, renderTable(trackColumns, rows))
			return nil
		},
	}
}

var trackColumns = []column{
	leftColumn("Kind"),
	rightColumn("ID"),
	rightColumn("Stream"),
	leftColumn("Source"),
	leftColumn("Label"),
	leftColumn("Active"),
	leftColumn("Path"),
}

func trackRow(track host.Track) []string {
	stream := "-"
	if track.FFIndex >= 0 {
		stream = strconv.Itoa(track.FFIndex)
	}
	source := "internal"
	if track.External {
		source = "external"
	}
	return []string{
		track.Kind.String(),
		strconv.Itoa(track.ID),
		stream,
		source,
		track.Label,
		yesNo(track.Active),
		track.ExternalPath,
	}
}
