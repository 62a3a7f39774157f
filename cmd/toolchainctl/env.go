package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"toolchain_config/internal/app/bootstrap"
	"toolchain_config/internal/infrastructure/configloader"
	"toolchain_config/internal/infrastructure/envloader"
)

func newEnvCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "env",
		Short: "List the environment variables the configuration reads",
		Long: `List every environment variable referenced by the configuration and
whether it is currently set. Values are never printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			processEnv := envloader.OS()
			env, dotenv, err := bootstrap.Environment(settings.DotenvPath)
			if err != nil {
				return err
			}
			vars, err := configloader.RequiredVariables(configloader.DefaultsDocument())
			if err != nil {
				return err
			}

			names := make([]string, 0, len(vars))
			for name := range vars {
				names = append(names, name)
			}
			sort.Strings(names)

			w := newTable(cmd.OutOrStdout())
			printTableHeader(w, "VARIABLE", "STATUS", "SOURCE", "USED BY")
			for _, name := range names {
				status, source := colorFail("unset"), "-"
				if v, ok := env(name); ok && v != "" {
					status, source = colorOK("set"), dotenv.Path()
					if pv, inProcess := processEnv(name); inProcess && pv != "" {
						source = "environment"
					}
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", name, status, source, strings.Join(vars[name], ", "))
			}
			return w.Flush()
		},
	}
}
