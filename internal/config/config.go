package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"

	"shop-dashboard/internal/observability"
	"shop-dashboard/internal/shopify"
)

type Config struct {
	Server   ServerConfig               `mapstructure:"server"`
	Shop     shopify.Config             `mapstructure:"shop"`
	Logger   observability.LoggerConfig `mapstructure:"logger"`
	Security SecurityConfig             `mapstructure:"security"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	ReportTimeout   time.Duration `mapstructure:"report_timeout"`
}

type SecurityConfig struct {
	EnableRateLimit bool     `mapstructure:"rate_limit_enabled"`
	RateLimitRPS    int      `mapstructure:"rate_limit_rps"`
	RateLimitBurst  int      `mapstructure:"rate_limit_burst"`
	AllowedOrigins  []string `mapstructure:"allowed_origins"`
	TrustedProxies  []string `mapstructure:"trusted_proxies"`
}

var defaults = map[string]any{
	"server.host":             "localhost",
	"server.port":             8084,
	"server.read_timeout":     10 * time.Second,
	"server.write_timeout":    60 * time.Second,
	"server.idle_timeout":     60 * time.Second,
	"server.shutdown_timeout": 30 * time.Second,
	"server.report_timeout":   45 * time.Second,

	"shop.api_key":             "",
	"shop.password":            "",
	"shop.name":                "",
	"shop.api_version":         "2024-01",
	"shop.base_url":            "",
	"shop.timeout":             20 * time.Second,
	"shop.page_size":           250,
	"shop.window_days":         31,
	"shop.max_workers":         2,
	"shop.requests_per_second": 2.0,
	"shop.burst":               4,

	"logger.level":  "info",
	"logger.format": "json",

	"security.rate_limit_enabled": true,
	"security.rate_limit_rps":     20,
	"security.rate_limit_burst":   10,
	"security.allowed_origins":    []string{"http://localhost:8084"},
	"security.trusted_proxies":    []string{"127.0.0.1"},
}

// Load reads defaults, then the optional config file, then the environment.
// Environment keys are the upper-cased config keys with dots replaced by
// underscores (SERVER_PORT, SHOP_API_KEY). The shop credentials also accept
// SHP_KEY, SHP_PWD and SHP_NAME, the logger LOG_LEVEL and LOG_FORMAT.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindEnv(v); err != nil {
		return nil, err
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func bindEnv(v *viper.Viper) error {
	bindings := [][]string{
		{"shop.api_key", "SHOP_API_KEY", "SHP_KEY"},
		{"shop.password", "SHOP_PASSWORD", "SHP_PWD"},
		{"shop.name", "SHOP_NAME", "SHP_NAME"},
		{"logger.level", "LOGGER_LEVEL", "LOG_LEVEL"},
		{"logger.format", "LOGGER_FORMAT", "LOG_FORMAT"},
	}
	for _, b := range bindings {
		if err := v.BindEnv(b...); err != nil {
			return fmt.Errorf("bind env %s: %w", b[0], err)
		}
	}
	return nil
}

func (c *Config) validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("server read timeout must be positive")
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("server write timeout must be positive")
	}
	if c.Server.ReportTimeout <= 0 {
		return fmt.Errorf("report timeout must be positive")
	}

	if c.Shop.ShopName == "" && c.Shop.BaseURL == "" {
		return fmt.Errorf("shop name is required (SHP_NAME)")
	}
	if c.Shop.APIKey == "" || c.Shop.Password == "" {
		return fmt.Errorf("shop credentials are required (SHP_KEY, SHP_PWD)")
	}
	if c.Shop.PageSize < 1 || c.Shop.PageSize > 250 {
		return fmt.Errorf("shop page size must be between 1 and 250, got %d", c.Shop.PageSize)
	}
	if c.Shop.RequestsPerSecond <= 0 {
		return fmt.Errorf("shop requests per second must be positive")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !slices.Contains(validLogLevels, c.Logger.Level) {
		return fmt.Errorf("invalid log level %q, must be one of: %s", c.Logger.Level, strings.Join(validLogLevels, ", "))
	}
	validLogFormats := []string{"json", "text"}
	if !slices.Contains(validLogFormats, c.Logger.Format) {
		return fmt.Errorf("invalid log format %q, must be one of: %s", c.Logger.Format, strings.Join(validLogFormats, ", "))
	}

	if c.Security.RateLimitRPS <= 0 {
		return fmt.Errorf("rate limit RPS must be positive")
	}
	if c.Security.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit burst must be positive")
	}
	return nil
}

func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// LogValue hides the shop credentials when the config is logged.
func (c Config) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("addr", c.Address()),
		slog.String("shop", c.Shop.ShopName),
		slog.String("api_version", c.Shop.APIVersion),
		slog.Int("window_days", c.Shop.WindowDays),
		slog.String("log_level", c.Logger.Level),
		slog.Bool("rate_limit", c.Security.EnableRateLimit),
	)
}
