package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

type Config struct {
	App struct {
		Env      string
		Timezone string
	} `mapstructure:"app"`

	HTTP struct {
		Addr           string
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"http"`

	Store struct {
		Driver string // memory | xlsx | postgres
		Path   string
		Seed   bool
	} `mapstructure:"store"`

	Postgres struct {
		DSN string
	} `mapstructure:"postgres"`

	Metrics struct {
		Enabled bool
	} `mapstructure:"metrics"`

	Telegram struct {
		Token       string
		AdminChatID int64 `mapstructure:"admin_chat_id"`
	} `mapstructure:"telegram"`

	Proxy struct {
		Addr       string
		BackendURL string        `mapstructure:"backend_url"`
		Timeout    time.Duration `mapstructure:"timeout"`
	} `mapstructure:"proxy"`

	Client struct {
		Endpoint  string
		Timeout   time.Duration
		RedisAddr string        `mapstructure:"redis_addr"`
		CacheTTL  time.Duration `mapstructure:"cache_ttl"`
	} `mapstructure:"client"`
}

func defaults(v *viper.Viper) {
	v.SetDefault("app.env", "prod")
	v.SetDefault("app.timezone", "America/Sao_Paulo")
	v.SetDefault("http.addr", ":8080")
	v.SetDefault("http.allowed_origins", []string{"*"})
	v.SetDefault("store.driver", "xlsx")
	v.SetDefault("store.path", "data/estoque.xlsx")
	v.SetDefault("store.seed", true)
	v.SetDefault("postgres.dsn", "")
	v.SetDefault("metrics.enabled", true)
	// keys without a default are invisible to AutomaticEnv on Unmarshal
	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.admin_chat_id", 0)
	v.SetDefault("proxy.addr", ":3000")
	v.SetDefault("proxy.backend_url", "")
	v.SetDefault("proxy.timeout", 30*time.Second)
	v.SetDefault("client.endpoint", "http://localhost:3000/api")
	v.SetDefault("client.timeout", 15*time.Second)
	v.SetDefault("client.redis_addr", "")
	v.SetDefault("client.cache_ttl", 0)
}

// New returns a viper instance with defaults and APP_* env overrides
// (APP_STORE_DRIVER -> store.driver). An optional .env file is loaded first.
func New() *viper.Viper {
	_ = gotenv.Load()

	v := viper.New()
	defaults(v)
	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads the YAML file at path (if it exists) on top of the defaults.
func Load(path string) (Config, error) {
	return LoadWith(New(), path)
}

func LoadWith(v *viper.Viper, path string) (Config, error) {
	var c Config
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return c, err
		}
	}
	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}
	return c, nil
}

// Location resolves app.timezone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
