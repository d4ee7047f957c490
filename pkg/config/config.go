package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Hard server-side ceilings for caller-supplied crawl options. Requests asking
// for more are clamped, not rejected.
const (
	MaxPagesCeiling       = 60
	PerDomainLimitCeiling = 15
	MaxDepthCeiling       = 3
)

// CrawlConfig holds the frontier crawler's default budgets and timeouts
type CrawlConfig struct {
	MaxPages        int           `yaml:"max_pages"`
	PerDomainLimit  int           `yaml:"per_domain_limit"`
	MaxDepth        int           `yaml:"max_depth"`
	PolitenessDelay time.Duration `yaml:"politeness_delay"`
	FetchTimeout    time.Duration `yaml:"fetch_timeout"`
	RobotsTimeout   time.Duration `yaml:"robots_timeout"`
	MaxPageBytes    int64         `yaml:"max_page_bytes"`
}

// SearchConfig holds web-search provider credentials and endpoints.
// Keys come from the environment, never from the YAML file.
type SearchConfig struct {
	BraveAPIKey   string `yaml:"-"`
	SerpAPIKey    string `yaml:"-"`
	BraveEndpoint string `yaml:"brave_endpoint,omitempty"`
	SerpEndpoint  string `yaml:"serp_endpoint,omitempty"`
}

// AIConfig holds generative-extraction settings. Extraction is disabled when
// the key is absent.
type AIConfig struct {
	APIKey       string `yaml:"-"`
	Model        string `yaml:"model,omitempty"`
	MaxHTMLChars int    `yaml:"max_html_chars,omitempty"`
}

// ProxyConfig holds the third-party scraping-proxy credential and endpoint
type ProxyConfig struct {
	APIKey   string `yaml:"-"`
	Endpoint string `yaml:"endpoint,omitempty"`
}

// HTTPClientConfig holds settings for the shared HTTP client
type HTTPClientConfig struct {
	Timeout               time.Duration `yaml:"timeout,omitempty"`
	MaxIdleConns          int           `yaml:"max_idle_conns,omitempty"`
	MaxIdleConnsPerHost   int           `yaml:"max_idle_conns_per_host,omitempty"`
	IdleConnTimeout       time.Duration `yaml:"idle_conn_timeout,omitempty"`
	TLSHandshakeTimeout   time.Duration `yaml:"tls_handshake_timeout,omitempty"`
	ExpectContinueTimeout time.Duration `yaml:"expect_continue_timeout,omitempty"`
	DialerTimeout         time.Duration `yaml:"dialer_timeout,omitempty"`
	DialerKeepAlive       time.Duration `yaml:"dialer_keep_alive,omitempty"`
}

// AppConfig holds the global application configuration
type AppConfig struct {
	ListenAddr         string           `yaml:"listen_addr"`
	UserAgent          string           `yaml:"user_agent,omitempty"`
	AcceptLanguage     string           `yaml:"accept_language,omitempty"`
	Crawl              CrawlConfig      `yaml:"crawl"`
	Search             SearchConfig     `yaml:"search,omitempty"`
	AI                 AIConfig         `yaml:"ai,omitempty"`
	Proxy              ProxyConfig      `yaml:"proxy,omitempty"`
	HTTPClientSettings HTTPClientConfig `yaml:"http_client_settings,omitempty"`
}

// Load reads an AppConfig from a YAML file, overlays credentials from the
// environment, and applies validation defaults. A missing file is not an
// error: the built-in defaults are used.
func Load(path string) (*AppConfig, []string, error) {
	var cfg AppConfig
	data, err := os.ReadFile(path)
	if err == nil {
		if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
			return nil, nil, unmarshalErr
		}
	} else if !os.IsNotExist(err) {
		return nil, nil, err
	}

	cfg.LoadKeysFromEnv()
	warnings, err := cfg.Validate()
	if err != nil {
		return nil, warnings, err
	}
	return &cfg, warnings, nil
}

// LoadKeysFromEnv overlays API credentials from the environment. All are
// optional; absent keys degrade the corresponding feature gracefully.
func (c *AppConfig) LoadKeysFromEnv() {
	c.Search.BraveAPIKey = GetEnv("BRAVE_API_KEY", c.Search.BraveAPIKey)
	c.Search.SerpAPIKey = GetEnv("SERP_API_KEY", c.Search.SerpAPIKey)
	c.AI.APIKey = GetEnv("OPENAI_API_KEY", c.AI.APIKey)
	c.Proxy.APIKey = GetEnv("SCRAPER_API_KEY", c.Proxy.APIKey)
}

// GetEnv returns the environment variable value or a default when unset/empty
func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
