package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autosubsync/internal/config"
	"autosubsync/internal/daemon"
	"autosubsync/internal/host"
	"autosubsync/internal/menu"
	"autosubsync/internal/subsync"
	"autosubsync/internal/tracks"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	var referenceFlag string
	var engineFlag string
	var trackID int

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Retime the active subtitle in mpv without the on-screen menu",
		Long: "Retime the active subtitle of the running mpv against its audio or another\n" +
			"subtitle track, load the result and (optionally) unload the old track.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			reference, err := menu.ParseReference(referenceFlag)
			if err != nil {
				return err
			}
			engine, err := resolveEngine(cfg, engineFlag)
			if err != nil {
				return err
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}
			session, err := ctx.dialPlayer(logger)
			if err != nil {
				return err
			}
			defer session.Close()

			choice := menu.Choice{Reference: reference, Engine: engine}
			if reference == menu.ReferenceSubtitle && trackID > 0 {
				track, err := findSubtitleTrack(cmd, tracks.NewInspector(session), trackID)
				if err != nil {
					return err
				}
				choice.Track = &track
			}

			machine, err := daemon.NewMachine(cfg, session, logger)
			if err != nil {
				return err
			}
			if err := machine.Run(cmd.Context(), choice); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Subtitle synced with %s\n", engine)
			return nil
		},
	}

	cmd.Flags().StringVarP(&referenceFlag, "reference", "r", "audio", "Sync against audio or subtitle")
	cmd.Flags().StringVarP(&engineFlag, "engine", "e", "", "Engine to run (ffsubsync or alass); defaults to sync.preferred_engine")
	cmd.Flags().IntVarP(&trackID, "track", "t", 0, "Reference subtitle track id (with --reference subtitle)")
	return cmd
}

// resolveEngine picks the flag value, then the configured preference, then
// ffsubsync.
func resolveEngine(cfg *config.Config, flag string) (subsync.Engine, error) {
	value := strings.TrimSpace(flag)
	if value == "" && !cfg.AskForEngine() {
		value = cfg.Sync.PreferredEngine
	}
	if value == "" {
		return subsync.FFSubsync, nil
	}
	return subsync.ParseEngine(value)
}

func findSubtitleTrack(cmd *cobra.Command, inspector *tracks.Inspector, id int) (host.Track, error) {
	subs, err := inspector.List(cmd.Context(), host.TrackSubtitle)
	if err != nil {
		return host.Track{}, err
	}
	for _, track := range subs {
		if track.ID == id {
			return track, nil
		}
	}
	return host.Track{}, fmt.Errorf("subtitle track #%d not found (see `autosubsync tracks`)", id)
}
