package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"autosubsync/internal/config"
	"autosubsync/internal/extract"
	"autosubsync/internal/fileutil"
)

func newExtractCommand(ctx *commandContext) *cobra.Command {
	var stream int
	var output string

	cmd := &cobra.Command{
		Use:   "extract <media>",
		Short: "Extract an embedded subtitle stream to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			target := strings.TrimSpace(output)
			if target == "" {
				return fmt.Errorf("--output is required")
			}
			target, err = config.ExpandPath(target)
			if err != nil {
				return fmt.Errorf("resolve output path: %w", err)
			}
			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			extraction, err := extract.NewInvoker(cfg, logger).Extract(cmd.Context(), args[0], stream)
			if err != nil {
				return err
			}
			defer extraction.Cleanup()

			if err := fileutil.CopyFile(extraction.Path, target); err != nil {
				return fmt.Errorf("write %s: %w", target, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", target)
			return nil
		},
	}

	cmd.Flags().IntVarP(&stream, "stream", "s", -1, "Container stream index to extract (default: ffmpeg's first subtitle stream)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination subtitle file")
	return cmd
}
