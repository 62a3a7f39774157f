package provider

import (
	"toolchain_config/internal/app/port"
	"toolchain_config/internal/domain/entity"
)

type configProviderImpl struct {
	cfg    *entity.Config
	logger port.Logger
}

// ConfigProvider is both the config and the network profile view over one loaded Config.
type ConfigProvider interface {
	port.ConfigProvider
	port.NetworkProfileProvider
}

// NewConfigProvider wraps an already loaded config. The config is copied, so
// later changes to cfg are not visible through the provider.
func NewConfigProvider(cfg *entity.Config, logger port.Logger) ConfigProvider {
	p := &configProviderImpl{cfg: cfg.Clone(), logger: logger}
	if logger != nil {
		logger.Debug("Config provider initialized", "networks", len(p.cfg.Networks), "default_network", p.cfg.DefaultNetwork)
	}
	return p
}

// GetConfig returns a deep copy of the configuration.
func (p *configProviderImpl) GetConfig() *entity.Config {
	return p.cfg.Clone()
}

// GetRedactedConfig returns a deep copy with secrets removed.
func (p *configProviderImpl) GetRedactedConfig() *entity.Config {
	return p.cfg.Redacted()
}

// GetAllNetworkProfiles returns every profile ordered by name.
func (p *configProviderImpl) GetAllNetworkProfiles() []entity.NetworkProfile {
	names := p.cfg.NetworkNames()
	profiles := make([]entity.NetworkProfile, 0, len(names))
	for _, name := range names {
		profile, _ := p.cfg.Network(name)
		profiles = append(profiles, profile)
	}
	return profiles
}

// GetNetworkProfileByName returns a copy of the named profile.
func (p *configProviderImpl) GetNetworkProfileByName(name string) (entity.NetworkProfile, bool) {
	profile, ok := p.cfg.Network(name)
	if !ok && p.logger != nil {
		p.logger.Debug("Network profile not found", "network", name)
	}
	return profile, ok
}
