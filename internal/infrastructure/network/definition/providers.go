package networkdefinition

import (
	"fmt"
	"net/url"
	"strings"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/domain/entity"
)

// NetworkDefinitionProvider looks up the real identity of known networks.
type NetworkDefinitionProvider struct {
	logger      port.Logger
	definitions map[string]entity.NetworkDefinition
	byHost      map[string]entity.NetworkDefinition
}

// Predefined network definitions
var ( //nolint:gochecknoglobals // Global for definitions
	Avalanche = entity.NetworkDefinition{
		ChainID:          43114,
		Name:             "Avalanche C-Chain",
		Identifier:       "avalanche",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		RPCHosts:         []string{"api.avax.network", "avalanche.public-rpc.com", "avalanche-c-chain-rpc.publicnode.com"},
		BlockExplorerURL: "https://snowtrace.io",
	}
	Fuji = entity.NetworkDefinition{
		ChainID:          43113,
		Name:             "Avalanche Fuji Testnet",
		Identifier:       "fuji",
		NativeSymbol:     "AVAX",
		Decimals:         18,
		RPCHosts:         []string{"api.avax-test.network", "avalanche-fuji-c-chain-rpc.publicnode.com"},
		BlockExplorerURL: "https://testnet.snowtrace.io",
		Testnet:          true,
	}
	Ethereum = entity.NetworkDefinition{
		ChainID:          1,
		Name:             "Ethereum Mainnet",
		Identifier:       "ethereum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		RPCHosts:         []string{"ethereum-rpc.publicnode.com", "eth.llamarpc.com"},
		BlockExplorerURL: "https://etherscan.io",
	}
	Sepolia = entity.NetworkDefinition{
		ChainID:          11155111,
		Name:             "Sepolia Testnet",
		Identifier:       "sepolia",
		NativeSymbol:     "ETH",
		Decimals:         18,
		RPCHosts:         []string{"rpc.sepolia.org", "ethereum-sepolia-rpc.publicnode.com"},
		BlockExplorerURL: "https://sepolia.etherscan.io",
		Testnet:          true,
	}
	BSC = entity.NetworkDefinition{
		ChainID:          56,
		Name:             "BNB Smart Chain",
		Identifier:       "bsc",
		NativeSymbol:     "BNB",
		Decimals:         18,
		RPCHosts:         []string{"bsc-dataseed.binance.org", "bsc.publicnode.com"},
		BlockExplorerURL: "https://bscscan.com",
	}
	Polygon = entity.NetworkDefinition{
		ChainID:          137,
		Name:             "Polygon PoS",
		Identifier:       "polygon",
		NativeSymbol:     "POL",
		Decimals:         18,
		RPCHosts:         []string{"polygon-rpc.com", "polygon.publicnode.com"},
		BlockExplorerURL: "https://polygonscan.com",
	}
	Arbitrum = entity.NetworkDefinition{
		ChainID:          42161,
		Name:             "Arbitrum One",
		Identifier:       "arbitrum",
		NativeSymbol:     "ETH",
		Decimals:         18,
		RPCHosts:         []string{"arb1.arbitrum.io", "arbitrum.publicnode.com"},
		BlockExplorerURL: "https://arbiscan.io",
	}
)

// allKnownDefinitions is a helper to quickly access all hardcoded definitions.
var allKnownDefinitions = map[string]entity.NetworkDefinition{
	Avalanche.Identifier: Avalanche,
	Fuji.Identifier:      Fuji,
	Ethereum.Identifier:  Ethereum,
	Sepolia.Identifier:   Sepolia,
	BSC.Identifier:       BSC,
	Polygon.Identifier:   Polygon,
	Arbitrum.Identifier:  Arbitrum,
}

// NewNetworkDefinitionProvider creates a provider over the hardcoded definitions.
func NewNetworkDefinitionProvider(log port.Logger) *NetworkDefinitionProvider {
	p := &NetworkDefinitionProvider{
		logger:      log,
		definitions: allKnownDefinitions,
		byHost:      make(map[string]entity.NetworkDefinition),
	}
	for _, def := range p.definitions {
		for _, host := range def.RPCHosts {
			if existing, dup := p.byHost[host]; dup {
				p.warn(fmt.Sprintf("RPC host %s is claimed by both %s and %s, keeping the first", host, existing.Identifier, def.Identifier))
				continue
			}
			p.byHost[host] = def
		}
	}
	return p
}

func (p *NetworkDefinitionProvider) warn(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Warn(msg, args...)
	}
}

// GetAllNetworkDefinitions returns a copy of every known definition.
func (p *NetworkDefinitionProvider) GetAllNetworkDefinitions() []entity.NetworkDefinition {
	if p == nil {
		return []entity.NetworkDefinition{}
	}
	defs := make([]entity.NetworkDefinition, 0, len(p.definitions))
	for _, def := range p.definitions {
		defs = append(defs, def)
	}
	return defs
}

// GetNetworkDefinitionByName returns a specific network definition by its identifier.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.definitions[strings.ToLower(identifier)]
	return def, ok
}

// GetNetworkDefinitionByChainID returns a specific network definition by its chain ID.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool) {
	if p == nil {
		return entity.NetworkDefinition{}, false
	}
	for _, def := range p.definitions {
		if def.ChainID == chainID {
			return def, true
		}
	}
	return entity.NetworkDefinition{}, false
}

// GetNetworkDefinitionByRPCURL returns the definition whose known RPC hosts include the URL's host.
func (p *NetworkDefinitionProvider) GetNetworkDefinitionByRPCURL(rpcURL string) (entity.NetworkDefinition, bool) {
	if p == nil || rpcURL == "" {
		return entity.NetworkDefinition{}, false
	}
	u, err := url.Parse(rpcURL)
	if err != nil || u.Host == "" {
		return entity.NetworkDefinition{}, false
	}
	def, ok := p.byHost[strings.ToLower(u.Hostname())]
	return def, ok
}
