// Package render serializes a loaded configuration for external tools and humans.
package render

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"gopkg.in/yaml.v3"

	"toolchain_config/internal/domain/entity"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"

	// Mask replaces every secret value unless the caller asks to reveal it.
	Mask = "********"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// NetworkView is a profile as rendered, with credential slots made explicit.
type NetworkView struct {
	entity.NetworkProfile `yaml:",inline"`
	Credentials           []string `json:"credentials,omitempty" yaml:"credentials,omitempty"`
}

// VerificationView exposes the verification key slot.
type VerificationView struct {
	entity.VerificationSettings `yaml:",inline"`
	APIKey                      string `json:"apiKey,omitempty" yaml:"apiKey,omitempty"`
}

// View is the rendered shape of an entity.Config. Networks are ordered by name.
type View struct {
	Compiler       entity.CompilerSettings `json:"compiler" yaml:"compiler"`
	DefaultNetwork string                  `json:"defaultNetwork" yaml:"defaultNetwork"`
	Networks       []NetworkView           `json:"networks" yaml:"networks"`
	Bindings       entity.BindingSettings  `json:"bindings" yaml:"bindings"`
	Verification   VerificationView        `json:"verification" yaml:"verification"`
}

// NewView builds the rendered shape of cfg. Secrets are masked unless reveal is set.
func NewView(cfg *entity.Config, reveal bool) View {
	v := View{
		Compiler:       cfg.Compiler,
		DefaultNetwork: cfg.DefaultNetwork,
		Networks:       make([]NetworkView, 0, len(cfg.Networks)),
		Bindings:       cfg.Bindings,
		Verification:   VerificationView{VerificationSettings: cfg.Verification},
	}
	for _, name := range cfg.NetworkNames() {
		p, _ := cfg.Network(name)
		nv := NetworkView{NetworkProfile: p}
		for _, c := range p.Credentials {
			nv.Credentials = append(nv.Credentials, secret(c, reveal))
		}
		v.Networks = append(v.Networks, nv)
	}
	v.Verification.APIKey = secret(cfg.Verification.APIKey, reveal)
	return v
}

func secret(value string, reveal bool) string {
	if value == "" || reveal {
		return value
	}
	return Mask
}

// Config writes cfg to w in the given format.
func Config(w io.Writer, cfg *entity.Config, format string, reveal bool) error {
	if cfg == nil {
		return fmt.Errorf("nothing to render: config is nil")
	}
	return Encode(w, format, NewView(cfg, reveal))
}

// Encode writes v to w as indented JSON or YAML.
func Encode(w io.Writer, format string, v any) error {
	switch strings.ToLower(format) {
	case "", FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return fmt.Errorf("failed to flush yaml: %w", err)
		}
	default:
		return fmt.Errorf("unsupported output format %q (want %s or %s)", format, FormatJSON, FormatYAML)
	}
	return nil
}
