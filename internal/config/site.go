package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration is a time.Duration read from YAML as a string like "45s".
// A bare integer is read as seconds.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("%w: line %d", ErrInvalidDuration, node.Line)
	}

	if node.ShortTag() == "!!int" {
		var seconds int64
		if err := node.Decode(&seconds); err != nil {
			return fmt.Errorf("%w: line %d", ErrInvalidDuration, node.Line)
		}
		*d = Duration(time.Duration(seconds) * time.Second)
		return nil
	}

	parsed, err := time.ParseDuration(node.Value)
	if err != nil {
		return fmt.Errorf("%w: %q on line %d", ErrInvalidDuration, node.Value, node.Line)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// SiteConfig holds settings for a single site host.
type SiteConfig struct {
	// Origin overrides the link origin for this site.
	Origin string `yaml:"origin,omitempty"`

	// Timeout overrides the request timeout for this site.
	// A pointer so that an explicit "0s" (no timeout) is distinguishable
	// from an unset value.
	Timeout *Duration `yaml:"timeout,omitempty"`
}

// File represents the structure of the .sitescope configuration file.
type File struct {
	// Sites maps site hosts (e.g. "example.org") to their settings.
	Sites map[string]SiteConfig `yaml:"sites,omitempty"`

	// Defaults applies to every site unless a site entry overrides it.
	Defaults SiteConfig `yaml:"defaults,omitempty"`
}

// GetSiteConfig returns the configuration for host, merging the site entry
// over the defaults.
func (cf *File) GetSiteConfig(host string) SiteConfig {
	result := cf.Defaults

	if siteConfig, ok := cf.Sites[host]; ok {
		if siteConfig.Origin != "" {
			result.Origin = siteConfig.Origin
		}
		if siteConfig.Timeout != nil {
			result.Timeout = siteConfig.Timeout
		}
	}

	return result
}

// Validate checks every origin in the file.
func (cf *File) Validate() error {
	if err := ValidateOrigin(cf.Defaults.Origin); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	for host, site := range cf.Sites {
		if err := ValidateOrigin(site.Origin); err != nil {
			return fmt.Errorf("sites.%s: %w", host, err)
		}
		if site.Timeout != nil && *site.Timeout < 0 {
			return fmt.Errorf("sites.%s: %w", host, ErrInvalidTimeout)
		}
	}
	if cf.Defaults.Timeout != nil && *cf.Defaults.Timeout < 0 {
		return fmt.Errorf("defaults: %w", ErrInvalidTimeout)
	}
	return nil
}
