package client

import (
	"context"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"

	"toolchain_config/internal/app/port"
)

// EVMClient implements port.ChainClient for EVM-compatible JSON-RPC endpoints.
type EVMClient struct {
	ethClient      *ethclient.Client
	rpcURL         string
	rpcCallTimeout time.Duration
}

// NewEVMClient dials rpcURL, bounded by connectionTimeout.
func NewEVMClient(ctx context.Context, rpcURL string, connectionTimeout, rpcCallTimeout time.Duration) (port.ChainClient, error) {
	dialCtx, cancel := context.WithTimeout(ctx, connectionTimeout)
	defer cancel()

	c, err := ethclient.DialContext(dialCtx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC %s: %w", rpcURL, err)
	}
	return &EVMClient{ethClient: c, rpcURL: rpcURL, rpcCallTimeout: rpcCallTimeout}, nil
}

// ChainID reads eth_chainId.
func (c *EVMClient) ChainID(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	id, err := c.ethClient.ChainID(callCtx)
	if err != nil {
		return 0, fmt.Errorf("eth_chainId failed for %s: %w", c.rpcURL, err)
	}
	if !id.IsUint64() {
		return 0, fmt.Errorf("chain id %s from %s does not fit in uint64", id.String(), c.rpcURL)
	}
	return id.Uint64(), nil
}

// BlockNumber reads eth_blockNumber.
func (c *EVMClient) BlockNumber(ctx context.Context) (uint64, error) {
	callCtx, cancel := context.WithTimeout(ctx, c.rpcCallTimeout)
	defer cancel()

	n, err := c.ethClient.BlockNumber(callCtx)
	if err != nil {
		return 0, fmt.Errorf("eth_blockNumber failed for %s: %w", c.rpcURL, err)
	}
	return n, nil
}

// Close releases the underlying RPC connection.
func (c *EVMClient) Close() {
	c.ethClient.Close()
}
