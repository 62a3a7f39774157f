package main

import (
	"github.com/spf13/cobra"

	"toolchain_config/internal/infrastructure/render"
)

var (
	showFormat = "yaml"
	showReveal bool
)

func newShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the loaded configuration",
		Long: `Load the configuration and print it as YAML or JSON.

Secret values are masked unless --reveal is given. Fails if a live network's
signing credential is missing from the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()
			return render.Config(cmd.OutOrStdout(), app.Config.GetConfig(), showFormat, showReveal)
		},
	}
	cmd.Flags().StringVarP(&showFormat, "format", "f", "yaml", "output format: yaml or json")
	cmd.Flags().BoolVar(&showReveal, "reveal", false, "print secret values instead of masking them")
	return cmd
}
