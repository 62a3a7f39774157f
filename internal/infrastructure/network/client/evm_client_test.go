package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/pkg/logger"
)

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

func newRPCServer(t *testing.T, results map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		result, ok := results[req.Method]
		if !ok {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"jsonrpc": "2.0", "id": req.ID,
				"error": map[string]any{"code": -32601, "message": "method not found"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"jsonrpc": "2.0", "id": req.ID, "result": result})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestEVMClientChainIDAndBlockNumber(t *testing.T) {
	srv := newRPCServer(t, map[string]string{
		"eth_chainId":     "0xa869", // 43113
		"eth_blockNumber": "0x2d6812",
	})

	c, err := NewEVMClient(context.Background(), srv.URL, time.Second, time.Second)
	require.NoError(t, err)
	defer c.Close()

	id, err := c.ChainID(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(43113), id)

	n, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uint64(0x2d6812), n)
}

func TestEVMClientRPCError(t *testing.T) {
	srv := newRPCServer(t, map[string]string{})

	c, err := NewEVMClient(context.Background(), srv.URL, time.Second, time.Second)
	require.NoError(t, err)
	defer c.Close()

	_, err = c.ChainID(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "eth_chainId failed")
}

type fakeChainClient struct{ closed atomic.Bool }

func (f *fakeChainClient) ChainID(context.Context) (uint64, error)     { return 1, nil }
func (f *fakeChainClient) BlockNumber(context.Context) (uint64, error) { return 1, nil }
func (f *fakeChainClient) Close()                                      { f.closed.Store(true) }

func TestProviderCachesClientsPerURL(t *testing.T) {
	var dials atomic.Int32
	fake := &fakeChainClient{}
	p := NewEVMClientProviderWithDialer(logger.Nop(), 0, 0, func(_ context.Context, _ string, conn, call time.Duration) (port.ChainClient, error) {
		dials.Add(1)
		assert.Equal(t, defaultProviderConnectionTimeout, conn)
		assert.Equal(t, defaultRPCCallTimeout, call)
		return fake, nil
	})

	a, err := p.GetClient(context.Background(), "https://a.example")
	require.NoError(t, err)
	b, err := p.GetClient(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Same(t, a, b)
	assert.EqualValues(t, 1, dials.Load())

	_, err = p.GetClient(context.Background(), "https://b.example")
	require.NoError(t, err)
	assert.EqualValues(t, 2, dials.Load())

	p.Close()
	assert.True(t, fake.closed.Load())
}

func TestProviderDialError(t *testing.T) {
	p := NewEVMClientProviderWithDialer(logger.Nop(), time.Second, time.Second, func(context.Context, string, time.Duration, time.Duration) (port.ChainClient, error) {
		return nil, errors.New("refused")
	})
	_, err := p.GetClient(context.Background(), "https://down.example")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refused")
}
