package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Telegram struct {
	Token string `mapstructure:"token"`
}

type News struct {
	APIKey   string `mapstructure:"api_key"`
	Endpoint string `mapstructure:"endpoint"`
	Language string `mapstructure:"language"`
	PageSize int    `mapstructure:"page_size"`
}

type Binance struct {
	APIKey    string `mapstructure:"api_key"`
	APISecret string `mapstructure:"api_secret"`
	Endpoint  string `mapstructure:"endpoint"`
}

type Yahoo struct {
	Endpoint string `mapstructure:"endpoint"`
}

type HTTP struct {
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type Poller struct {
	Interval time.Duration `mapstructure:"interval"`
}

type Alerts struct {
	// Store is "memory" or "redis".
	Store      string `mapstructure:"store"`
	MaxWatches int    `mapstructure:"max_watches"`
}

type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// Quotes configures the provider decorators. Zero values disable them.
type Quotes struct {
	RatePerSec float64       `mapstructure:"rate_per_sec"`
	Burst      int           `mapstructure:"burst"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	CacheSize  int           `mapstructure:"cache_size"`
}

type Ops struct {
	Addr string `mapstructure:"addr"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type Symbols struct {
	Crypto []string `mapstructure:"crypto"`
	// Forex lists base currencies priced against TRY.
	Forex []string `mapstructure:"forex"`
}

type Config struct {
	Telegram Telegram `mapstructure:"telegram"`
	News     News     `mapstructure:"news"`
	Binance  Binance  `mapstructure:"binance"`
	Yahoo    Yahoo    `mapstructure:"yahoo"`
	HTTP     HTTP     `mapstructure:"http"`
	Poller   Poller   `mapstructure:"poller"`
	Alerts   Alerts   `mapstructure:"alerts"`
	Redis    Redis    `mapstructure:"redis"`
	Quotes   Quotes   `mapstructure:"quotes"`
	Ops      Ops      `mapstructure:"ops"`
	Log      Log      `mapstructure:"log"`
	Symbols  Symbols  `mapstructure:"symbols"`
}

// required keys have no usable default; each is also read from the
// environment, e.g. telegram.token from TELEGRAM_TOKEN.
var required = []string{"telegram.token", "news.api_key", "binance.api_key", "binance.api_secret"}

func setDefaults(v *viper.Viper) {
	for _, k := range required {
		v.SetDefault(k, "")
	}
	v.SetDefault("news.endpoint", "")
	v.SetDefault("news.language", "tr")
	v.SetDefault("news.page_size", 10)
	v.SetDefault("binance.endpoint", "")
	v.SetDefault("yahoo.endpoint", "")
	v.SetDefault("http.request_timeout", 15*time.Second)
	v.SetDefault("poller.interval", 5*time.Minute)
	v.SetDefault("alerts.store", "memory")
	v.SetDefault("alerts.max_watches", 10000)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "marketbot:watches")
	v.SetDefault("quotes.rate_per_sec", 0)
	v.SetDefault("quotes.burst", 1)
	v.SetDefault("quotes.cache_ttl", time.Duration(0))
	v.SetDefault("quotes.cache_size", 256)
	v.SetDefault("ops.addr", ":8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
	v.SetDefault("symbols.crypto", []string{})
	v.SetDefault("symbols.forex", []string{})
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// Load reads the configuration and validates it. Use it for the bot process.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read reads an optional config file (JSON or YAML) at path, then a .env file
// if present, then the environment, where poller.interval is POLLER_INTERVAL.
// Nothing is validated, so tools that need only part of the settings can use it.
func Read(path string) (Config, error) {
	_ = godotenv.Load() // .env is optional

	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// Validate reports every missing secret and out-of-range setting at once.
func (c Config) Validate() error {
	var errs []error
	var missing []string
	values := []string{c.Telegram.Token, c.News.APIKey, c.Binance.APIKey, c.Binance.APISecret}
	for i, k := range required {
		if strings.TrimSpace(values[i]) == "" {
			missing = append(missing, envName(k))
		}
	}
	if len(missing) > 0 {
		errs = append(errs, fmt.Errorf("missing required settings: %s", strings.Join(missing, ", ")))
	}
	if c.HTTP.RequestTimeout <= 0 {
		errs = append(errs, errors.New("http.request_timeout must be positive"))
	}
	if c.Poller.Interval <= 0 {
		errs = append(errs, errors.New("poller.interval must be positive"))
	}
	switch c.Alerts.Store {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("alerts.store must be memory or redis, got %q", c.Alerts.Store))
	}
	if c.Quotes.RatePerSec < 0 {
		errs = append(errs, errors.New("quotes.rate_per_sec must not be negative"))
	}
	return errors.Join(errs...)
}
