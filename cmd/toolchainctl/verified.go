package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var verifiedNetwork string

func newVerifiedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verified --network NAME ADDRESS...",
		Short: "Ask the verification mirror whether contracts have verified sources",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()

			profile, ok := app.Config.GetNetworkProfileByName(verifiedNetwork)
			if !ok {
				return fmt.Errorf("unknown network %q", verifiedNetwork)
			}
			if !app.Config.GetConfig().Verification.MirrorEnabled {
				return fmt.Errorf("the verification mirror is disabled in the configuration")
			}

			matches, err := app.Mirror.CheckByAddresses(cmd.Context(), profile.ChainID, args)
			if err != nil {
				return err
			}

			w := newTable(cmd.OutOrStdout())
			printTableHeader(w, "ADDRESS", "MATCH")
			for _, m := range matches {
				label := colorFail("not verified")
				if m.Verified() {
					label = colorOK("verified (" + m.Status + ")")
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\n", m.Address, label)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVarP(&verifiedNetwork, "network", "n", "", "network profile whose chain id to query")
	_ = cmd.MarkFlagRequired("network")
	return cmd
}
