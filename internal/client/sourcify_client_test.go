package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourcifyHealth(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr bool
	}{
		{name: "plain text alive", status: http.StatusOK, body: "Alive and kicking!"},
		{name: "json ok", status: http.StatusOK, body: `{"status":"ok"}`},
		{name: "json degraded", status: http.StatusOK, body: `{"status":"degraded"}`, wantErr: true},
		{name: "server error", status: http.StatusServiceUnavailable, body: "down", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/server/health", r.URL.Path)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewSourcifyClient(srv.URL+"/server/", time.Second, nil)
			err := c.Health(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSourcifyCheckByAddresses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/check-by-addresses", r.URL.Path)
		assert.Equal(t, "43114", r.URL.Query().Get("chainIds"))
		assert.Equal(t, "0x01,0x02", r.URL.Query().Get("addresses"))
		_, _ = w.Write([]byte(`[{"address":"0x01","status":"perfect"},{"address":"0x02","status":"false"}]`))
	}))
	defer srv.Close()

	c := NewSourcifyClient(srv.URL, time.Second, nil)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	matches, err := c.CheckByAddresses(ctx, 43114, []string{"0x01", "0x02"})
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.True(t, matches[0].Verified())
	assert.False(t, matches[1].Verified())
}

func TestSourcifyCheckByAddressesRejectsEmptyInput(t *testing.T) {
	c := NewSourcifyClient("http://127.0.0.1:1", time.Second, nil)
	_, err := c.CheckByAddresses(context.Background(), 1, nil)
	require.Error(t, err)
}

func TestSourcifyCheckByAddressesBatches(t *testing.T) {
	var requests int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		addrs := strings.Split(r.URL.Query().Get("addresses"), ",")
		assert.LessOrEqual(t, len(addrs), maxAddressesPerRequest)
		out := make([]string, len(addrs))
		for i, a := range addrs {
			out[i] = fmt.Sprintf(`{"address":%q,"status":"perfect"}`, a)
		}
		_, _ = w.Write([]byte("[" + strings.Join(out, ",") + "]"))
	}))
	defer srv.Close()

	addresses := make([]string, maxAddressesPerRequest+5)
	for i := range addresses {
		addresses[i] = fmt.Sprintf("0x%040x", i)
	}

	c := NewSourcifyClient(srv.URL, time.Second, nil)
	matches, err := c.CheckByAddresses(context.Background(), 43113, addresses)
	require.NoError(t, err)
	assert.Len(t, matches, len(addresses))
	assert.Equal(t, 2, requests)
}

func TestSourcifyCancelledContextSendsNothing(t *testing.T) {
	var requests atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	c := NewSourcifyClient(srv.URL, time.Second, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := c.Health(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.CheckByAddresses(ctx, 43114, []string{"0x01"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int32(0), requests.Load())
}

func TestSourcifyUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewSourcifyClient(url, 200*time.Millisecond, nil)
	require.Error(t, c.Health(context.Background()))
}
