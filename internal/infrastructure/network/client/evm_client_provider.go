package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"toolchain_config/internal/app/port"
)

const (
	defaultProviderConnectionTimeout = 10 * time.Second
	defaultRPCCallTimeout            = 10 * time.Second
)

// DialFunc opens a chain client; tests replace it with a fake.
type DialFunc func(ctx context.Context, rpcURL string, connectionTimeout, rpcCallTimeout time.Duration) (port.ChainClient, error)

// EVMClientProvider implements the port.ChainClientProvider interface.
type EVMClientProvider struct {
	clients           map[string]port.ChainClient
	mu                sync.Mutex
	logger            port.Logger
	dial              DialFunc
	connectionTimeout time.Duration
	rpcCallTimeout    time.Duration
}

// NewEVMClientProvider creates a provider that caches one client per RPC URL.
// Zero timeouts fall back to 10s.
func NewEVMClientProvider(logger port.Logger, connectionTimeout, rpcCallTimeout time.Duration) *EVMClientProvider {
	return NewEVMClientProviderWithDialer(logger, connectionTimeout, rpcCallTimeout, NewEVMClient)
}

// NewEVMClientProviderWithDialer is NewEVMClientProvider with a custom dialer.
func NewEVMClientProviderWithDialer(logger port.Logger, connectionTimeout, rpcCallTimeout time.Duration, dial DialFunc) *EVMClientProvider {
	if connectionTimeout <= 0 {
		connectionTimeout = defaultProviderConnectionTimeout
	}
	if rpcCallTimeout <= 0 {
		rpcCallTimeout = defaultRPCCallTimeout
	}
	return &EVMClientProvider{
		clients:           make(map[string]port.ChainClient),
		logger:            logger,
		dial:              dial,
		connectionTimeout: connectionTimeout,
		rpcCallTimeout:    rpcCallTimeout,
	}
}

// GetClient returns the cached client for rpcURL, dialing on first use.
func (p *EVMClientProvider) GetClient(ctx context.Context, rpcURL string) (port.ChainClient, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, exists := p.clients[rpcURL]; exists {
		p.logger.Debug("Returning cached EVM client", "rpc", rpcURL)
		return c, nil
	}

	p.logger.Debug("Creating new EVM client", "rpc", rpcURL)
	c, err := p.dial(ctx, rpcURL, p.connectionTimeout, p.rpcCallTimeout)
	if err != nil {
		p.logger.Error("Failed to create EVM client", "rpc", rpcURL, "error", err)
		return nil, fmt.Errorf("failed to create EVM client for %s: %w", rpcURL, err)
	}

	p.clients[rpcURL] = c
	return c, nil
}

// Close closes every cached client.
func (p *EVMClientProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	for url, c := range p.clients {
		c.Close()
		delete(p.clients, url)
	}
}
