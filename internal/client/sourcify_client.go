package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"toolchain_config/internal/entity"
	"toolchain_config/internal/infrastructure/httpclient"
	"toolchain_config/internal/pkg/utils"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultSourcifyBaseURL is the public Sourcify server.
const DefaultSourcifyBaseURL = "https://sourcify.dev/server"

// maxAddressesPerRequest bounds the check-by-addresses query string.
const maxAddressesPerRequest = 100

// sourcifyClientImpl is the implementation of httpclient.SourcifyClient.
type sourcifyClientImpl struct {
	client  *fasthttp.Client
	baseURL string
	timeout time.Duration
	logger  *zap.Logger
}

// NewSourcifyClient creates a new Sourcify client.
func NewSourcifyClient(baseURL string, timeout time.Duration, logger *zap.Logger) httpclient.SourcifyClient {
	if baseURL == "" {
		baseURL = DefaultSourcifyBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &sourcifyClientImpl{
		client:  &fasthttp.Client{},
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		logger:  logger.Named("SourcifyClient"),
	}
}

// Health checks that the mirror answers its health endpoint with 200.
func (c *sourcifyClientImpl) Health(ctx context.Context) error {
	requestURL := c.baseURL + "/health"
	status, body, err := c.get(ctx, requestURL)
	if err != nil {
		return err
	}
	if status != fasthttp.StatusOK {
		c.logger.Warn("Sourcify health check failed", zap.String("url", requestURL), zap.Int("statusCode", status))
		return fmt.Errorf("sourcify health check at %s failed with status %d: %s", requestURL, status, string(body))
	}
	// Older servers answer a plain "Alive and kicking!" text, newer ones JSON.
	var health entity.SourcifyHealth
	if err := json.Unmarshal(body, &health); err == nil && health.Status != "" && !strings.EqualFold(health.Status, "ok") {
		return fmt.Errorf("sourcify reports status %q", health.Status)
	}
	return nil
}

// CheckByAddresses asks which of the addresses have verified sources on chainID.
// Long address lists are split into several requests.
func (c *sourcifyClientImpl) CheckByAddresses(ctx context.Context, chainID uint64, addresses []string) ([]entity.SourcifyMatch, error) {
	if len(addresses) == 0 {
		return nil, fmt.Errorf("addresses cannot be empty")
	}

	matches := make([]entity.SourcifyMatch, 0, len(addresses))
	for _, batch := range utils.BatchStrings(addresses, maxAddressesPerRequest) {
		batchMatches, err := c.checkBatch(ctx, chainID, batch)
		if err != nil {
			return nil, err
		}
		matches = append(matches, batchMatches...)
	}
	c.logger.Debug("Sourcify check completed", zap.Uint64("chainID", chainID), zap.Int("matches", len(matches)))
	return matches, nil
}

func (c *sourcifyClientImpl) checkBatch(ctx context.Context, chainID uint64, addresses []string) ([]entity.SourcifyMatch, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.Set("addresses", strings.Join(addresses, ","))
	args.Set("chainIds", strconv.FormatUint(chainID, 10))
	requestURL := c.baseURL + "/check-by-addresses?" + args.String()

	status, body, err := c.get(ctx, requestURL)
	if err != nil {
		return nil, err
	}
	if status != fasthttp.StatusOK {
		c.logger.Error("Sourcify request failed",
			zap.String("url", requestURL),
			zap.Int("statusCode", status),
			zap.ByteString("responseBody", body),
		)
		return nil, fmt.Errorf("sourcify request to %s failed with status %d: %s", requestURL, status, string(body))
	}

	var matches []entity.SourcifyMatch
	if err := json.Unmarshal(body, &matches); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sourcify response from %s: %w", requestURL, err)
	}
	return matches, nil
}

// get performs one GET request. fasthttp takes no context: a deadline on ctx
// bounds the request, while cancellation is only observed before it is sent.
func (c *sourcifyClientImpl) get(ctx context.Context, requestURL string) (int, []byte, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, fmt.Errorf("request to %s not sent: %w", requestURL, err)
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	req.SetRequestURI(requestURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	c.logger.Debug("Requesting Sourcify", zap.String("url", requestURL))

	var err error
	if deadline, ok := ctx.Deadline(); ok {
		err = c.client.DoDeadline(req, resp, deadline)
	} else {
		err = c.client.DoTimeout(req, resp, c.timeout)
	}
	if err != nil {
		c.logger.Error("Failed to execute request to Sourcify", zap.String("url", requestURL), zap.Error(err))
		return 0, nil, fmt.Errorf("failed to execute request to %s: %w", requestURL, err)
	}

	// resp is released on return; copy the body out.
	body := append([]byte(nil), resp.Body()...)
	return resp.StatusCode(), body, nil
}
