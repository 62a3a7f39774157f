package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"toolchain_config/internal/app/port"
	"toolchain_config/internal/domain/entity"
	"toolchain_config/internal/pkg/metrics"
)

const (
	CheckChainID      = "chain_id"
	CheckForkHeight   = "fork_height"
	CheckAPIKey       = "verification_key"
	CheckMirrorHealth = "verification_mirror"

	mirrorCacheKey = "verification:mirror"
)

// PreflightOptions tunes concurrency, pacing and caching of preflight runs.
// Zero values fall back to the defaults below.
type PreflightOptions struct {
	Timeout           time.Duration
	Concurrency       int
	RequestsPerSecond float64
	Burst             int
	CacheTTL          time.Duration // negative disables caching
	Metrics           *metrics.Preflight
}

const (
	defaultPreflightTimeout     = 30 * time.Second
	defaultPreflightConcurrency = 4
	defaultPreflightRPS         = 5
	defaultPreflightCacheTTL    = time.Minute
)

// PreflightServiceImpl implements port.PreflightService.
type PreflightServiceImpl struct {
	config   port.ConfigProvider
	profiles port.NetworkProfileProvider
	clients  port.ChainClientProvider
	mirror   port.VerificationMirrorClient
	logger   port.Logger
	limiter  *rate.Limiter
	results  *cache.Cache
	metrics  *metrics.Preflight
	opts     PreflightOptions
}

// NewPreflightService creates the preflight service. mirror may be nil, in
// which case the mirror check is reported as skipped.
func NewPreflightService(
	cfg port.ConfigProvider,
	profiles port.NetworkProfileProvider,
	clients port.ChainClientProvider,
	mirror port.VerificationMirrorClient,
	l port.Logger,
	opts PreflightOptions,
) *PreflightServiceImpl {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultPreflightTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = defaultPreflightConcurrency
	}
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = defaultPreflightRPS
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.Concurrency
	}
	if opts.CacheTTL == 0 {
		opts.CacheTTL = defaultPreflightCacheTTL
	}

	s := &PreflightServiceImpl{
		config:   cfg,
		profiles: profiles,
		clients:  clients,
		mirror:   mirror,
		logger:   l,
		limiter:  rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst),
		metrics:  opts.Metrics,
		opts:     opts,
	}
	if opts.CacheTTL > 0 {
		s.results = cache.New(opts.CacheTTL, 2*opts.CacheTTL)
	}
	return s
}

// Run checks the named networks, or every configured network when none are
// named, plus the verification settings. A check that cannot pass is reported
// in the returned report; the error is reserved for unknown network names and
// a cancelled context.
func (s *PreflightServiceImpl) Run(ctx context.Context, networks ...string) (entity.PreflightReport, error) {
	report := entity.PreflightReport{StartedAt: time.Now().UTC()}
	if s.metrics != nil {
		s.metrics.Runs.Inc()
	}

	targets, err := s.selectProfiles(networks)
	if err != nil {
		return report, err
	}
	s.logger.Info("Starting preflight", "networks", len(targets))

	runCtx, cancel := context.WithTimeout(ctx, s.opts.Timeout)
	defer cancel()

	perNetwork := make([][]entity.CheckResult, len(targets))
	var mirrorResults []entity.CheckResult

	var g errgroup.Group
	g.SetLimit(s.opts.Concurrency)
	for i, profile := range targets {
		i, profile := i, profile
		g.Go(func() error {
			perNetwork[i] = s.checkNetwork(runCtx, profile)
			return nil
		})
	}
	g.Go(func() error {
		mirrorResults = s.checkMirror(runCtx)
		return nil
	})
	_ = g.Wait()

	for _, res := range perNetwork {
		report.Results = append(report.Results, res...)
	}
	report.Results = append(report.Results, s.checkAPIKey())
	report.Results = append(report.Results, mirrorResults...)

	if err := ctx.Err(); err != nil {
		return report, fmt.Errorf("preflight interrupted: %w", err)
	}

	s.logger.Info("Preflight finished",
		"ok", report.Count(entity.CheckOK),
		"warnings", report.Count(entity.CheckWarning),
		"failed", report.Count(entity.CheckFailed),
		"skipped", report.Count(entity.CheckSkipped))
	return report, nil
}

// InvalidateCache drops every cached result.
func (s *PreflightServiceImpl) InvalidateCache() {
	if s.results != nil {
		s.results.Flush()
	}
}

func (s *PreflightServiceImpl) selectProfiles(names []string) ([]entity.NetworkProfile, error) {
	if len(names) == 0 {
		return s.profiles.GetAllNetworkProfiles(), nil
	}

	seen := make(map[string]struct{}, len(names))
	var (
		out  []entity.NetworkProfile
		errs error
	)
	for _, name := range names {
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		p, ok := s.profiles.GetNetworkProfileByName(name)
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("unknown network %q", name))
			continue
		}
		out = append(out, p)
	}
	if errs != nil {
		return nil, errs
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *PreflightServiceImpl) checkNetwork(ctx context.Context, p entity.NetworkProfile) []entity.CheckResult {
	key := "network:" + p.Name
	if cached, ok := s.cached(key); ok {
		return cached
	}

	var results []entity.CheckResult
	if p.Simulated {
		results = s.checkSimulated(ctx, p)
	} else {
		results = []entity.CheckResult{s.checkLiveChainID(ctx, p)}
	}
	s.store(key, results)
	return results
}

func (s *PreflightServiceImpl) checkLiveChainID(ctx context.Context, p entity.NetworkProfile) entity.CheckResult {
	return s.timed(p.Name, CheckChainID, func() (entity.CheckStatus, string) {
		reported, err := s.readChainID(ctx, p.RPCURL)
		if err != nil {
			return entity.CheckFailed, err.Error()
		}
		if reported != p.ChainID {
			mismatch := &entity.ChainIDMismatchError{Network: p.Name, Configured: p.ChainID, Reported: reported, Source: "rpc"}
			return entity.CheckFailed, mismatch.Error()
		}
		return entity.CheckOK, fmt.Sprintf("chain id %d confirmed", reported)
	})
}

// checkSimulated verifies the fork source: it must serve the profile's chain
// id and already have the pinned block.
func (s *PreflightServiceImpl) checkSimulated(ctx context.Context, p entity.NetworkProfile) []entity.CheckResult {
	if p.Fork == nil || !p.Fork.Enabled {
		return []entity.CheckResult{
			{Network: p.Name, Check: CheckChainID, Status: entity.CheckSkipped, Message: "forking disabled"},
			{Network: p.Name, Check: CheckForkHeight, Status: entity.CheckSkipped, Message: "forking disabled"},
		}
	}

	chainID := s.timed(p.Name, CheckChainID, func() (entity.CheckStatus, string) {
		reported, err := s.readChainID(ctx, p.Fork.URL)
		if err != nil {
			return entity.CheckFailed, err.Error()
		}
		if reported != p.ChainID {
			mismatch := &entity.ChainIDMismatchError{Network: p.Name, Configured: p.ChainID, Reported: reported, Source: "fork source"}
			return entity.CheckFailed, mismatch.Error()
		}
		return entity.CheckOK, fmt.Sprintf("fork source serves chain id %d", reported)
	})

	height := s.timed(p.Name, CheckForkHeight, func() (entity.CheckStatus, string) {
		if p.Fork.BlockNumber == nil {
			return entity.CheckSkipped, "no fork block pinned, the node forks from the latest block"
		}
		latest, err := s.readBlockNumber(ctx, p.Fork.URL)
		if err != nil {
			return entity.CheckFailed, err.Error()
		}
		pinned := *p.Fork.BlockNumber
		if pinned > latest {
			return entity.CheckFailed, fmt.Sprintf("fork block %d is above the source chain height %d", pinned, latest)
		}
		return entity.CheckOK, fmt.Sprintf("fork block %d is available (source height %d)", pinned, latest)
	})

	return []entity.CheckResult{chainID, height}
}

func (s *PreflightServiceImpl) checkAPIKey() entity.CheckResult {
	return s.timed("", CheckAPIKey, func() (entity.CheckStatus, string) {
		v := s.config.GetConfig().Verification
		if v.HasAPIKey() {
			return entity.CheckOK, fmt.Sprintf("%s is set", v.APIKeyRef)
		}
		return entity.CheckWarning, fmt.Sprintf("%s is not set, contract verification will fail", v.APIKeyRef)
	})
}

func (s *PreflightServiceImpl) checkMirror(ctx context.Context) []entity.CheckResult {
	if !s.config.GetConfig().Verification.MirrorEnabled {
		return []entity.CheckResult{{Check: CheckMirrorHealth, Status: entity.CheckSkipped, Message: "verification mirror disabled"}}
	}
	if s.mirror == nil {
		return []entity.CheckResult{{Check: CheckMirrorHealth, Status: entity.CheckSkipped, Message: "no mirror client configured"}}
	}
	if cached, ok := s.cached(mirrorCacheKey); ok {
		return cached
	}

	res := s.timed("", CheckMirrorHealth, func() (entity.CheckStatus, string) {
		if err := s.limiter.Wait(ctx); err != nil {
			return entity.CheckFailed, fmt.Sprintf("rate limiter: %v", err)
		}
		if err := s.mirror.Health(ctx); err != nil {
			return entity.CheckFailed, err.Error()
		}
		return entity.CheckOK, "verification mirror is healthy"
	})
	results := []entity.CheckResult{res}
	s.store(mirrorCacheKey, results)
	return results
}

func (s *PreflightServiceImpl) readChainID(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	return client.ChainID(ctx)
}

func (s *PreflightServiceImpl) readBlockNumber(ctx context.Context, rpcURL string) (uint64, error) {
	client, err := s.client(ctx, rpcURL)
	if err != nil {
		return 0, err
	}
	return client.BlockNumber(ctx)
}

func (s *PreflightServiceImpl) client(ctx context.Context, rpcURL string) (port.ChainClient, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}
	c, err := s.clients.GetClient(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("endpoint unreachable: %w", err)
	}
	return c, nil
}

func (s *PreflightServiceImpl) timed(network, check string, fn func() (entity.CheckStatus, string)) entity.CheckResult {
	start := time.Now()
	status, msg := fn()
	elapsed := time.Since(start)
	s.metrics.Observe(check, string(status), elapsed)

	if status == entity.CheckFailed {
		s.logger.Warn("Preflight check failed", "network", network, "check", check, "reason", msg)
	} else {
		s.logger.Debug("Preflight check finished", "network", network, "check", check, "status", status)
	}
	return entity.CheckResult{Network: network, Check: check, Status: status, Message: msg, Duration: elapsed}
}

// cached returns a copy of the stored results with FromCache set.
func (s *PreflightServiceImpl) cached(key string) ([]entity.CheckResult, bool) {
	if s.results == nil {
		return nil, false
	}
	v, found := s.results.Get(key)
	if !found {
		return nil, false
	}
	stored, ok := v.([]entity.CheckResult)
	if !ok {
		s.logger.Warn("Unexpected value in preflight cache", "key", key)
		return nil, false
	}
	out := make([]entity.CheckResult, len(stored))
	for i, r := range stored {
		r.FromCache = true
		out[i] = r
	}
	if s.metrics != nil {
		s.metrics.CacheHits.Inc()
	}
	return out, true
}

// store keeps results only when nothing failed, so a transient outage is
// re-checked on the next run.
func (s *PreflightServiceImpl) store(key string, results []entity.CheckResult) {
	if s.results == nil {
		return
	}
	for _, r := range results {
		if r.Status == entity.CheckFailed {
			return
		}
	}
	s.results.Set(key, append([]entity.CheckResult(nil), results...), cache.DefaultExpiration)
}
