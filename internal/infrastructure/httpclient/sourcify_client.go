package httpclient

import (
	"context"

	"toolchain_config/internal/entity"
)

// SourcifyClient defines the interface for interacting with the Sourcify verification mirror.
type SourcifyClient interface {
	Health(ctx context.Context) error
	CheckByAddresses(ctx context.Context, chainID uint64, addresses []string) ([]entity.SourcifyMatch, error)
}
