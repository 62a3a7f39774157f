package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"toolchain_config/internal/domain/entity"
	networkdefinition "toolchain_config/internal/infrastructure/network/definition"
	"toolchain_config/internal/pkg/utils"
)

func newNetworksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "networks",
		Short: "List the configured network profiles",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp()
			if err != nil {
				return err
			}
			defer app.Close()

			known := networkdefinition.NewNetworkDefinitionProvider(app.Logger)
			cfg := app.Config.GetConfig()

			w := newTable(cmd.OutOrStdout())
			printTableHeader(w, "NAME", "KIND", "CHAIN ID", "CHAIN", "ENDPOINT", "CREDENTIALS", "GAS PRICE")
			for _, p := range app.Config.GetAllNetworkProfiles() {
				name := p.Name
				if p.Name == cfg.DefaultNetwork {
					name += " " + colorDim("(default)")
				}
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\t%s\t%s\n",
					name, kind(p), p.ChainID, chainName(known, p.ChainID), endpoint(p), credentials(p), gasPrice(p))
			}
			return w.Flush()
		},
	}
}

func kind(p entity.NetworkProfile) string {
	if p.Simulated {
		return "simulated"
	}
	return "live"
}

func chainName(known *networkdefinition.NetworkDefinitionProvider, chainID uint64) string {
	if def, ok := known.GetNetworkDefinitionByChainID(chainID); ok {
		return def.Name
	}
	return "-"
}

func endpoint(p entity.NetworkProfile) string {
	if p.Simulated {
		if p.Fork == nil || !p.Fork.Enabled {
			return "local"
		}
		at := "latest"
		if p.Fork.BlockNumber != nil {
			at = "#" + strconv.FormatUint(*p.Fork.BlockNumber, 10)
		}
		return fmt.Sprintf("fork %s @ %s", p.Fork.URL, at)
	}
	return p.RPCURL
}

func credentials(p entity.NetworkProfile) string {
	if len(p.CredentialRefs) == 0 {
		return "-"
	}
	if p.HasCredentials() {
		return colorOK(fmt.Sprintf("%d set", len(p.CredentialRefs)))
	}
	return colorFail("missing")
}

func gasPrice(p entity.NetworkProfile) string {
	if p.GasPrice == nil {
		return "auto"
	}
	return utils.FormatGasPrice(*p.GasPrice)
}
