package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	BackendMemory = "memory"
	BackendRedis  = "redis"
)

type Config struct {
	Server struct {
		Port            int           `yaml:"port"`
		Gzip            bool          `yaml:"gzip"`
		ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
		// TrustedProxies may set X-Forwarded-For. Empty means the client IP
		// is always the connection peer.
		TrustedProxies []string `yaml:"trustedProxies"`
	} `yaml:"server"`

	CORS struct {
		AllowOrigins []string `yaml:"allowOrigins"`
	} `yaml:"cors"`

	Upstream Upstream `yaml:"upstream"`

	RateLimit RateLimit `yaml:"rateLimit"`
}

// Upstream selects and configures the language model provider.
type Upstream struct {
	Provider        string        `yaml:"provider"`
	Timeout         time.Duration `yaml:"timeout"`
	StripCodeFences bool          `yaml:"stripCodeFences"`

	OpenAI struct {
		APIKey             string `yaml:"apiKey"`
		Model              string `yaml:"model"`
		BaseURL            string `yaml:"baseURL"`
		HTTPTimeoutSeconds int    `yaml:"httpTimeoutSeconds"`
	} `yaml:"openai"`

	Gemini struct {
		APIKey string `yaml:"apiKey"`
		Model  string `yaml:"model"`
	} `yaml:"gemini"`
}

type RateLimit struct {
	Max     int           `yaml:"max"`
	Window  time.Duration `yaml:"window"`
	Backend string        `yaml:"backend"`

	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
}

// Default returns the configuration used when no file or environment overrides it.
func Default() *Config {
	cfg := &Config{}
	cfg.Server.Port = 5000
	cfg.Server.Gzip = true
	cfg.Server.ShutdownTimeout = 10 * time.Second
	cfg.CORS.AllowOrigins = []string{"https://validea-sigma.vercel.app"}
	cfg.Upstream.Provider = ProviderOpenAI
	cfg.Upstream.OpenAI.Model = "gpt-3.5-turbo"
	cfg.Upstream.OpenAI.BaseURL = "https://api.openai.com/v1"
	cfg.Upstream.Gemini.Model = "gemini-2.5-flash"
	cfg.RateLimit.Max = 5
	cfg.RateLimit.Window = time.Minute
	cfg.RateLimit.Backend = BackendMemory
	cfg.RateLimit.Redis.Addr = "localhost:6379"
	cfg.RateLimit.Redis.Prefix = "validea:ratelimit"
	return cfg
}

// LoadConfig reads .env (if present), the YAML file at path (skipped when path is
// empty), then applies environment overrides and validates the result.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := strings.TrimSpace(os.Getenv("PORT")); v != "" {
		p, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		c.Server.Port = p
	}
	if v := strings.TrimSpace(os.Getenv("OPENAI_API_KEY")); v != "" {
		c.Upstream.OpenAI.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("GEMINI_API_KEY")); v != "" {
		c.Upstream.Gemini.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("UPSTREAM_PROVIDER")); v != "" {
		c.Upstream.Provider = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("UPSTREAM_MODEL")); v != "" {
		if c.Upstream.Provider == ProviderGemini {
			c.Upstream.Gemini.Model = v
		} else {
			c.Upstream.OpenAI.Model = v
		}
	}
	if v := strings.TrimSpace(os.Getenv("CORS_ORIGIN")); v != "" {
		c.CORS.AllowOrigins = []string{strings.TrimRight(v, "/")}
	}
	if v := strings.TrimSpace(os.Getenv("TRUSTED_PROXIES")); v != "" {
		c.Server.TrustedProxies = nil
		for _, p := range strings.Split(v, ",") {
			if p = strings.TrimSpace(p); p != "" {
				c.Server.TrustedProxies = append(c.Server.TrustedProxies, p)
			}
		}
	}
	if v := strings.TrimSpace(os.Getenv("REDIS_ADDR")); v != "" {
		c.RateLimit.Backend = BackendRedis
		c.RateLimit.Redis.Addr = v
	}
	return nil
}

// Validate checks the settings the server cannot start without.
func (c *Config) Validate() error {
	switch c.Upstream.Provider {
	case ProviderOpenAI:
		if c.Upstream.OpenAI.APIKey == "" {
			return errors.New("missing required env OPENAI_API_KEY")
		}
	case ProviderGemini:
		if c.Upstream.Gemini.APIKey == "" {
			return errors.New("missing required env GEMINI_API_KEY")
		}
	default:
		return fmt.Errorf("unknown upstream provider %q", c.Upstream.Provider)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	for _, p := range c.Server.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("invalid trusted proxy %q", p)
		}
	}
	if len(c.CORS.AllowOrigins) == 0 {
		return errors.New("cors.allowOrigins must not be empty")
	}
	if c.RateLimit.Max <= 0 {
		return fmt.Errorf("rateLimit.max must be positive, got %d", c.RateLimit.Max)
	}
	if c.RateLimit.Window <= 0 {
		return fmt.Errorf("rateLimit.window must be positive, got %s", c.RateLimit.Window)
	}
	switch c.RateLimit.Backend {
	case BackendMemory, BackendRedis:
	default:
		return fmt.Errorf("unknown rateLimit.backend %q", c.RateLimit.Backend)
	}
	return nil
}

// APIKeyLoaded reports whether the selected provider has a credential.
func (c *Config) APIKeyLoaded() bool {
	if c.Upstream.Provider == ProviderGemini {
		return c.Upstream.Gemini.APIKey != ""
	}
	return c.Upstream.OpenAI.APIKey != ""
}
