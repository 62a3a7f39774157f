package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"toolchain_config/internal/domain/entity"
	"toolchain_config/internal/infrastructure/render"
)

var preflightFormat = "table"

// errPreflightFailed is returned when at least one check failed.
var errPreflightFailed = errors.New("preflight failed")

func newPreflightCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preflight [network...]",
		Short: "Check the configured endpoints before running the toolchain",
		Long: `Contact every configured endpoint (or only the named networks) and check
that live networks report the configured chain id, that the fork source of the
simulated network has the pinned block, and that the verification settings
are usable. Exits non-zero if any check fails; warnings do not fail.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()

			report, err := app.Preflight.Run(cmd.Context(), args...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if preflightFormat == "table" {
				w := newTable(out)
				printTableHeader(w, "NETWORK", "CHECK", "STATUS", "MESSAGE")
				for _, r := range report.Results {
					network := r.Network
					if network == "" {
						network = "-"
					}
					_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", network, r.Check, statusLabel(r.Status), r.Message)
				}
				if err := w.Flush(); err != nil {
					return err
				}
			} else if err := render.Encode(out, preflightFormat, report); err != nil {
				return err
			}

			if report.Failed() {
				return fmt.Errorf("%w: %d of %d checks failed", errPreflightFailed, report.Count(entity.CheckFailed), len(report.Results))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&preflightFormat, "format", "f", "table", "output format: table, json or yaml")
	return cmd
}

func statusLabel(s entity.CheckStatus) string {
	switch s {
	case entity.CheckOK:
		return colorOK(string(s))
	case entity.CheckWarning:
		return colorWarn(string(s))
	case entity.CheckFailed:
		return colorFail(string(s))
	default:
		return colorDim(string(s))
	}
}
