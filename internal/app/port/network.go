package port

import (
	"context"

	"toolchain_config/internal/domain/entity"
)

// NetworkProfileProvider gives read access to configured network profiles.
type NetworkProfileProvider interface {
	// GetAllNetworkProfiles returns every profile ordered by name.
	GetAllNetworkProfiles() []entity.NetworkProfile

	// GetNetworkProfileByName returns the named profile and true, or false if not configured.
	GetNetworkProfileByName(name string) (entity.NetworkProfile, bool)
}

// NetworkDefinitionProvider defines the interface for looking up known chain identities.
type NetworkDefinitionProvider interface {
	// GetNetworkDefinitionByName returns a known network by its identifier.
	GetNetworkDefinitionByName(identifier string) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByChainID returns a known network by its chain ID.
	GetNetworkDefinitionByChainID(chainID uint64) (entity.NetworkDefinition, bool)

	// GetNetworkDefinitionByRPCURL returns the known network served by the host of rpcURL.
	GetNetworkDefinitionByRPCURL(rpcURL string) (entity.NetworkDefinition, bool)
}

// ChainClient reads identity and height from a JSON-RPC endpoint.
type ChainClient interface {
	ChainID(ctx context.Context) (uint64, error)
	BlockNumber(ctx context.Context) (uint64, error)
	Close()
}

// ChainClientProvider hands out chain clients keyed by endpoint URL.
type ChainClientProvider interface {
	GetClient(ctx context.Context, rpcURL string) (ChainClient, error)
}

// VerificationMirrorClient talks to the source-verification mirror.
type VerificationMirrorClient interface {
	Health(ctx context.Context) error
}

// PreflightService runs explicit, opt-in checks against the configured endpoints.
type PreflightService interface {
	Run(ctx context.Context, networks ...string) (entity.PreflightReport, error)
}
