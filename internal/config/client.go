package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Endpoint is one backend candidate the client probes, in priority order.
type Endpoint struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type ClientConfig struct {
	// BaseURL pins a single backend and skips the LAN/emulator/localhost list.
	BaseURL         string        `yaml:"base_url" env:"STOREFRONT_BASE_URL" env-default:""`
	Endpoints       []Endpoint    `yaml:"endpoints"`
	ProbePath       string        `yaml:"probe_path" env:"STOREFRONT_PROBE_PATH" env-default:"/api/v1/product/get-all-products"`
	ProbeTimeout    time.Duration `yaml:"probe_timeout" env:"STOREFRONT_PROBE_TIMEOUT" env-default:"5s"`
	RetryMaxElapsed time.Duration `yaml:"retry_max_elapsed" env:"STOREFRONT_RETRY_MAX_ELAPSED" env-default:"30s"`
	RequestTimeout  time.Duration `yaml:"request_timeout" env:"STOREFRONT_REQUEST_TIMEOUT" env-default:"10s"`
	SessionPath     string        `yaml:"session_path" env:"STOREFRONT_SESSION_PATH" env-default:""`
	DeliveryFee     float64       `yaml:"delivery_fee" env:"STOREFRONT_DELIVERY_FEE" env-default:"10"`
	Currency        string        `yaml:"currency" env:"STOREFRONT_CURRENCY" env-default:"$"`
}

// DefaultEndpoints is the development fallback chain: the LAN address of the
// dev machine, the Android emulator host alias, then localhost.
func DefaultEndpoints() []Endpoint {
	return []Endpoint{
		{URL: "http://192.168.151.101:5000", Timeout: 5 * time.Second},
		{URL: "http://10.0.2.2:5000", Timeout: 2 * time.Second},
		{URL: "http://localhost:5000", Timeout: 2 * time.Second},
	}
}

// LoadClientConfig reads the client config from path, or from the environment
// alone when path is empty.
func LoadClientConfig(path string) (*ClientConfig, error) {

	var cfg ClientConfig

	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read client config %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read client config from env: %w", err)
	}

	cfg.applyDefaults()

	return &cfg, nil
}

// Candidates returns the endpoints to probe, honouring a pinned BaseURL.
func (c *ClientConfig) Candidates() []Endpoint {
	if c.BaseURL != "" {
		return []Endpoint{{URL: c.BaseURL, Timeout: c.ProbeTimeout}}
	}

	return c.Endpoints
}

func (c *ClientConfig) applyDefaults() {

	if len(c.Endpoints) == 0 {
		c.Endpoints = DefaultEndpoints()
	}

	for i := range c.Endpoints {
		if c.Endpoints[i].Timeout <= 0 {
			c.Endpoints[i].Timeout = c.ProbeTimeout
		}
	}

	if c.SessionPath == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			dir = os.TempDir()
		}
		c.SessionPath = filepath.Join(dir, "storefront", "session.json")
	}
}
