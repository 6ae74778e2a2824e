package lingsite

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds the server settings. Site content lives in the site data
// file, not here.
type Config struct {
	Addr      string `mapstructure:"addr"`       // listen address (default ":3000")
	DataFile  string `mapstructure:"data_file"`  // site data YAML; empty uses the embedded copy
	StaticDir string `mapstructure:"static_dir"` // served under /public (default "public")
	Script    string `mapstructure:"script"`     // client bundle path (default "/public/app.js")

	AnalyticsEnabled   bool          `mapstructure:"analytics_enabled"`
	DatabasePath       string        `mapstructure:"database_path"`
	AnalyticsRetention time.Duration `mapstructure:"analytics_retention"`
	StatsCacheTTL      time.Duration `mapstructure:"stats_cache_ttl"`

	SessionSecret string `mapstructure:"session_secret"` // required for serve
	CookieSecure  bool   `mapstructure:"cookie_secure"`

	NavigateLimit  int           `mapstructure:"navigate_limit"`  // navigations per IP per window
	NavigateWindow time.Duration `mapstructure:"navigate_window"`

	LogLevel string `mapstructure:"log_level"`
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.StaticDir == "" {
		c.StaticDir = "public"
	}
	if c.Script == "" {
		c.Script = "/public/app.js"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/analytics.db"
	}
	if c.AnalyticsRetention == 0 {
		c.AnalyticsRetention = 365 * 24 * time.Hour
	}
	if c.StatsCacheTTL == 0 {
		c.StatsCacheTTL = time.Minute
	}
	if c.NavigateLimit == 0 {
		c.NavigateLimit = 120
	}
	if c.NavigateWindow == 0 {
		c.NavigateWindow = time.Minute
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c Config) validate() error {
	if c.SessionSecret == "" {
		return errors.New("lingsite: session_secret is required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("lingsite: session_secret must be at least 16 bytes")
	}
	if _, err := zap.ParseAtomicLevel(c.LogLevel); err != nil {
		return fmt.Errorf("lingsite: log_level: %w", err)
	}
	return nil
}

// LoadConfig reads configuration from path (or ./lingsite.yaml when path is
// empty and the file exists) and from LINGSITE_* environment variables.
func LoadConfig(path string) (Config, error) {
	v := viper.New()

	v.SetDefault("addr", ":3000")
	v.SetDefault("data_file", "")
	v.SetDefault("static_dir", "public")
	v.SetDefault("script", "/public/app.js")
	v.SetDefault("analytics_enabled", true)
	v.SetDefault("database_path", "data/analytics.db")
	v.SetDefault("analytics_retention", "8760h")
	v.SetDefault("stats_cache_ttl", "1m")
	v.SetDefault("session_secret", "")
	v.SetDefault("cookie_secure", false)
	v.SetDefault("navigate_limit", 120)
	v.SetDefault("navigate_window", "1m")
	v.SetDefault("log_level", "info")

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	} else {
		v.SetConfigName("lingsite")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config: %w", err)
			}
		}
	}

	v.SetEnvPrefix("LINGSITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.setDefaults()
	return cfg, nil
}
