package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// RendererNimble renders pages through the hosted Nimble Web API;
// RendererBrowser drives a local headless Chrome instead.
const (
	RendererNimble  = "nimble"
	RendererBrowser = "browser"
)

type Config struct {
	SearchURL         string `yaml:"search_url"`
	MaxPages          int    `yaml:"max_pages"`
	PageDelaySeconds  int    `yaml:"page_delay_seconds"`
	RequestTimeoutSec int    `yaml:"request_timeout_seconds"`
	RenderWaitSeconds int    `yaml:"render_wait_seconds"`
	Renderer          string `yaml:"renderer"`
	Country           string `yaml:"country"`
	Headless          bool   `yaml:"headless"`
	OutputDir         string `yaml:"output_dir"`
	OutputPrefix      string `yaml:"output_prefix"`
	NimbleAPIURL      string `yaml:"nimble_api_url"`

	// Credential comes from the environment (.env), never from the YAML file.
	NimbleToken string `yaml:"-"`
}

func DefaultConfig() *Config {
	return &Config{
		SearchURL:         "https://www.zillow.com/denver-co/rentals/",
		MaxPages:          10,
		PageDelaySeconds:  5,
		RequestTimeoutSec: 120,
		RenderWaitSeconds: 5,
		Renderer:          RendererNimble,
		Country:           "US",
		Headless:          true,
		OutputDir:         "output",
		OutputPrefix:      "zillow_rentals",
		NimbleAPIURL:      "https://api.webit.live/api/v1/realtime/web",
	}
}

// Load reads the YAML config at path on top of the defaults, then picks up
// NIMBLE_API_TOKEN from the environment (a .env file is honoured when
// present). A missing config file is not an error — defaults apply.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		if err := yaml.NewDecoder(f).Decode(cfg); err != nil {
			return nil, fmt.Errorf("could not parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("could not open config %s: %w", path, err)
	}

	// Best effort: running without a .env file is fine.
	_ = godotenv.Load()
	cfg.NimbleToken = os.Getenv("NIMBLE_API_TOKEN")

	if cfg.MaxPages < 1 {
		return nil, fmt.Errorf("max_pages must be at least 1, got %d", cfg.MaxPages)
	}
	if cfg.SearchURL == "" {
		return nil, fmt.Errorf("search_url must not be empty")
	}

	return cfg, nil
}

func (c *Config) PageDelay() time.Duration {
	return time.Duration(c.PageDelaySeconds) * time.Second
}

func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSec) * time.Second
}

func (c *Config) RenderWait() time.Duration {
	return time.Duration(c.RenderWaitSeconds) * time.Second
}
