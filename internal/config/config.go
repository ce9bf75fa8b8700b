package config

import (
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultUserAgent identifies this application to the JSON catalog APIs.
const DefaultUserAgent = "subgrab/2.0"

// DefaultBrowserUserAgent is sent to the scraped catalog, which rejects
// clients that do not look like a regular browser.
const DefaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:147.0) Gecko/20100101 Firefox/147.0"

// SubDLConfig configures the token-authenticated catalog.
type SubDLConfig struct {
	Enabled         bool   `mapstructure:"enabled"`
	APIKey          string `mapstructure:"api_key"`
	APIHost         string `mapstructure:"api_host"`
	DownloadHost    string `mapstructure:"download_host"`
	SubsPerPage     int    `mapstructure:"subs_per_page"`
	IncludeComments bool   `mapstructure:"include_comments"`
	IncludeReleases bool   `mapstructure:"include_releases"`
	FullSeason      bool   `mapstructure:"full_season"`
	HearingImpaired bool   `mapstructure:"hearing_impaired"`
}

// OpenSubtitlesConfig configures the key-authenticated catalog.
type OpenSubtitlesConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	APIKey  string `mapstructure:"api_key"`
	APIHost string `mapstructure:"api_host"`
}

// TitloviConfig configures the scraped catalog.
type TitloviConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	BaseURL string `mapstructure:"base_url"`
}

type Config struct {
	ProxyConnectionString string `mapstructure:"proxy_connection_string"`
	UserAgent             string `mapstructure:"user_agent"`
	BrowserUserAgent      string `mapstructure:"browser_user_agent"`
	LogLevel              string `mapstructure:"log_level"`

	Languages  []string `mapstructure:"languages"`
	SavePath   string   `mapstructure:"save_path"`
	MaxResults int      `mapstructure:"max_results"`

	// Go duration strings like "12s", "30s".
	SearchTimeout   string `mapstructure:"search_timeout"`
	DownloadTimeout string `mapstructure:"download_timeout"`

	CredentialsDir string `mapstructure:"credentials_dir"`

	Services struct {
		SubDL         SubDLConfig         `mapstructure:"subdl"`
		OpenSubtitles OpenSubtitlesConfig `mapstructure:"opensubtitles"`
		Titlovi       TitloviConfig       `mapstructure:"titlovi"`
	} `mapstructure:"services"`

	Server struct {
		Port    int    `mapstructure:"port"`
		Address string `mapstructure:"address"`
	} `mapstructure:"server"`

	Metrics struct {
		Enabled bool `mapstructure:"enabled"`
		Port    int  `mapstructure:"port"`
	} `mapstructure:"metrics"`

	Cache struct {
		Provider string `mapstructure:"provider"`
		Size     int    `mapstructure:"size"`
		TTL      string `mapstructure:"ttl"`
		Redis    struct {
			Address  string `mapstructure:"address"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"cache"`

	SentryDSN string `mapstructure:"sentry_dsn"`
}

var (
	globalConfig *Config
	logger       zerolog.Logger
)

func init() {
	// Initialize zerolog with console writer for human-readable output
	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: false,
	}).With().Timestamp().Logger()

	config, err := LoadConfig()
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to load config")
	}

	// Parse and set log level from config
	level := zerolog.InfoLevel // default
	if config.LogLevel != "" {
		if parsedLevel, err := zerolog.ParseLevel(config.LogLevel); err == nil {
			level = parsedLevel
		} else {
			logger.Warn().Str("invalid_level", config.LogLevel).Msg("Invalid log level, using default 'info'")
		}
	}

	zerolog.SetGlobalLevel(level)
	logger = logger.Level(level)

	globalConfig = config
}

func LoadConfig() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Environment variable support
	viper.AutomaticEnv()
	viper.SetEnvPrefix("APP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	_ = viper.BindEnv("log_level", "LOG_LEVEL")

	viper.SetDefault("languages", []string{"en"})
	viper.SetDefault("save_path", "./subtitles")
	viper.SetDefault("max_results", 50)
	viper.SetDefault("search_timeout", "12s")
	viper.SetDefault("download_timeout", "30s")
	viper.SetDefault("credentials_dir", "./credentials")

	viper.SetDefault("services.subdl.enabled", true)
	viper.SetDefault("services.subdl.api_host", "https://api.subdl.com/api/v1/subtitles")
	viper.SetDefault("services.subdl.download_host", "https://dl.subdl.com")
	viper.SetDefault("services.subdl.subs_per_page", 30)
	viper.SetDefault("services.subdl.include_comments", true)
	viper.SetDefault("services.subdl.include_releases", true)
	viper.SetDefault("services.opensubtitles.enabled", true)
	viper.SetDefault("services.opensubtitles.api_host", "https://api.opensubtitles.com/api/v1")
	viper.SetDefault("services.titlovi.enabled", true)
	viper.SetDefault("services.titlovi.base_url", "https://titlovi.com")

	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.address", "localhost")
	viper.SetDefault("metrics.enabled", false)
	viper.SetDefault("metrics.port", 9090)

	viper.SetDefault("cache.provider", "memory")
	viper.SetDefault("cache.size", 100)
	viper.SetDefault("cache.ttl", "1h")

	// Read config file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.BrowserUserAgent == "" {
		config.BrowserUserAgent = DefaultBrowserUserAgent
	}

	return &config, nil
}

func GetConfig() *Config {
	return globalConfig
}

func GetUserAgent() string {
	if globalConfig != nil && globalConfig.UserAgent != "" {
		return globalConfig.UserAgent
	}

	return DefaultUserAgent
}

func GetBrowserUserAgent() string {
	if globalConfig != nil && globalConfig.BrowserUserAgent != "" {
		return globalConfig.BrowserUserAgent
	}

	return DefaultBrowserUserAgent
}

func GetLogger() zerolog.Logger {
	return logger
}

// SearchTimeoutDuration returns the parsed search timeout, falling back to
// 12 seconds when the configured value is missing or invalid.
func (c *Config) SearchTimeoutDuration() time.Duration {
	return parseDurationOr(c.SearchTimeout, 12*time.Second)
}

// DownloadTimeoutDuration returns the parsed download timeout, falling back
// to 30 seconds when the configured value is missing or invalid.
func (c *Config) DownloadTimeoutDuration() time.Duration {
	return parseDurationOr(c.DownloadTimeout, 30*time.Second)
}

// CacheTTLDuration returns the parsed cache TTL, falling back to one hour.
func (c *Config) CacheTTLDuration() time.Duration {
	return parseDurationOr(c.Cache.TTL, time.Hour)
}

func parseDurationOr(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		logger.Warn().Err(err).Str("duration", value).Msg("Invalid duration, using default")
		return fallback
	}
	return parsed
}
