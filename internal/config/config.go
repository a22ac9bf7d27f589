package config

import (
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// DefaultTimeout bounds one manifest request. A hung server would
	// otherwise leave the fetch in Loading forever. Zero disables the bound.
	DefaultTimeout = 30 * time.Second

	// DefaultScheme is used to request URLs typed without a scheme,
	// e.g. "example.org/site.json".
	DefaultScheme = "https"

	// DefaultOrigin is the host used to resolve relative asset paths and to
	// build item page and source links.
	DefaultOrigin = "https://haxtheweb.org"

	// DefaultBatchSize of 4 concurrent fetches keeps a --batch run polite
	// toward the hosts being queried.
	DefaultBatchSize = 4

	// AppName is the application name used for XDG directory paths.
	AppName = "sitescope"

	// DefaultUserAgent identifies SiteScope in HTTP requests.
	DefaultUserAgent = "SiteScope/1.0 (+https://github.com/nao1215/sitescope)"

	// DefaultMaxBodySize limits the manifest body read into memory.
	// Real site.json files are well under a megabyte.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap when --tor is given.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds all configuration options for SiteScope.
// It is populated from CLI flags and the optional config file and passed
// through the application rather than kept in global state.
//
// Design decision: We use a single flat struct. The option count is small and
// every command reads only a handful of fields.
type Config struct {
	// Targets are the raw user inputs to fetch, in order.
	// An empty string is a valid target; it fails with the empty input error.
	Targets []string

	// Timeout bounds each manifest request. Zero means no timeout.
	Timeout time.Duration

	// Origin resolves relative asset paths and builds item links.
	Origin string

	// BatchSize is the number of concurrent fetches with --batch.
	BatchSize int

	// Batch enables concurrent fetching of multiple targets.
	// Without it targets are fetched one after another.
	Batch bool

	// Verbose enables debug logging.
	Verbose bool

	// LogJSON switches log output to JSON.
	LogJSON bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, .sitescope is searched in the current directory and then
	// in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds per-host settings loaded from the config file.
	SiteConfigs *File

	// JSONReport selects JSON output.
	JSONReport bool

	// MarkdownReport selects Markdown output.
	MarkdownReport bool

	// RawReport prints the fetched manifest itself, pretty-printed.
	RawReport bool

	// ReportFile is the output file path. Empty means stdout.
	ReportFile string

	// ProxyAddress routes requests through a SOCKS5 proxy ("host:port").
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes requests through it.
	UseTor bool

	// TorStartupTimeout bounds the embedded Tor bootstrap.
	TorStartupTimeout time.Duration

	// SaveToDB records every fetch outcome in the history database.
	SaveToDB bool

	// DBDir is the directory holding the history database.
	// Defaults to the XDG data directory.
	DBDir string

	// UserAgent is the User-Agent header sent with manifest requests.
	UserAgent string

	// MaxBodySize is the largest manifest body accepted, in bytes.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on zero
// values because several defaults are non-zero. It also documents them.
func NewConfig() *Config {
	return &Config{
		Timeout:           DefaultTimeout,
		Origin:            DefaultOrigin,
		BatchSize:         DefaultBatchSize,
		TorStartupTimeout: DefaultTorStartupTimeout,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		DBDir:             XDGDataDir(),
	}
}

// XDGDataDir returns the XDG data directory for SiteScope.
// On Linux: ~/.local/share/sitescope
// On macOS: ~/Library/Application Support/sitescope
// On Windows: %LOCALAPPDATA%\sitescope
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SiteScope.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if len(c.Targets) == 0 {
		return ErrNoTarget
	}
	return c.ValidateSettings()
}

// ValidateSettings checks everything Validate does except the targets.
// Commands that read their targets interactively use it on its own.
func (c *Config) ValidateSettings() error {
	// Zero is allowed and means unbounded
	if c.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	formats := 0
	for _, on := range []bool{c.JSONReport, c.MarkdownReport, c.RawReport} {
		if on {
			formats++
		}
	}
	if formats > 1 {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingTransports
	}

	if err := ValidateOrigin(c.Origin); err != nil {
		return err
	}

	return nil
}

// ValidateOrigin checks that origin is an absolute http or https URL.
// An empty origin is accepted and means DefaultOrigin.
func ValidateOrigin(origin string) error {
	if origin == "" {
		return nil
	}
	u, err := url.Parse(origin)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ErrInvalidOrigin
	}
	return nil
}

// ForTarget returns the origin and timeout to use for target, applying the
// config file defaults and the per-site overrides on top of c.
func (c *Config) ForTarget(target string) (origin string, timeout time.Duration) {
	origin, timeout = c.Origin, c.Timeout
	if c.SiteConfigs == nil {
		return origin, timeout
	}

	site := c.SiteConfigs.GetSiteConfig(SiteKey(target))
	if site.Origin != "" {
		origin = site.Origin
	}
	if site.Timeout != nil {
		timeout = time.Duration(*site.Timeout)
	}
	return origin, timeout
}

// SiteKey reduces a target to the host used as a key in the config file:
// the scheme, userinfo, path, and surrounding space are dropped and the host
// is lowercased.
func SiteKey(target string) string {
	s := strings.TrimSpace(target)
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	if i := strings.IndexAny(s, "/?#"); i >= 0 {
		s = s[:i]
	}
	if i := strings.LastIndex(s, "@"); i >= 0 {
		s = s[i+1:]
	}
	return strings.ToLower(s)
}
