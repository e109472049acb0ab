package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"autosubsync/internal/deps"
	"autosubsync/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check external tools, directories and the mpv connection",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := newStatusReport(out)

			report.section("Configuration")
			configDetail := ctx.configPath
			if !ctx.configExists {
				configDetail += " (not found, using defaults)"
			}
			report.add("Config", statusInfo, configDetail)
			report.add("Preferred engine", statusInfo, cfg.Sync.PreferredEngine)

			report.section("Dependencies")
			missing := 0
			for _, status := range preflight.CheckSystemDeps(cfg) {
				kind, detail := dependencyStatus(status)
				if kind == statusError {
					missing++
				}
				report.add(status.Name, kind, detail)
			}

			report.section("Environment")
			for _, result := range preflight.RunAll(cmd.Context(), cfg) {
				kind := checkStatus(result)
				if kind == statusError {
					missing++
				}
				report.add(result.Name, kind, result.Detail)
			}

			report.writeTo(out)
			if missing > 0 {
				return fmt.Errorf("%d required checks failed", missing)
			}
			return nil
		},
	}
}

func dependencyStatus(status deps.Status) (statusKind, string) {
	if status.Available {
		return statusOK, status.Path
	}
	detail := status.Detail
	if status.Description != "" {
		detail = fmt.Sprintf("%s (%s)", detail, status.Description)
	}
	if status.Optional {
		return statusWarn, detail
	}
	return statusError, detail
}

func checkStatus(result preflight.Result) statusKind {
	switch {
	case result.Passed:
		return statusOK
	case result.Warning:
		return statusWarn
	default:
		return statusError
	}
}
