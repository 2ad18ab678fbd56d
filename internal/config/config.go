package config

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/env"
)

const envPrefix = "GATEWAY_"

// listKeys are split on commas when read from the environment.
var listKeys = map[string]bool{
	"webhook.allowed_resources": true,
	"callback.allowed_hosts":    true,
	"kafka.brokers":             true,
}

type Config struct {
	Primary  Primary        `koanf:"primary"`
	Server   ServerConfig   `koanf:"server"`
	Client   ClientConfig   `koanf:"client"`
	Webhook  WebhookConfig  `koanf:"webhook"`
	Callback CallbackConfig `koanf:"callback"`
	Database DatabaseConfig `koanf:"database"`
	Kafka    KafkaConfig    `koanf:"kafka"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

type ServerConfig struct {
	Port         string        `koanf:"port" validate:"required"`
	ReadTimeout  time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout  time.Duration `koanf:"idle_timeout" validate:"required"`
}

// ClientConfig configures the upstream payment API client. Timeouts are in seconds.
type ClientConfig struct {
	SecretKey       string  `koanf:"secret_key" validate:"required"`
	BaseURL         string  `koanf:"base_url" validate:"omitempty,url"`
	DefaultCurrency string  `koanf:"default_currency" validate:"omitempty,len=3"`
	Timeout         float64 `koanf:"timeout" validate:"gte=0"`
	ConnectTimeout  float64 `koanf:"connect_timeout" validate:"gte=0"`
}

func (c ClientConfig) TimeoutDuration() time.Duration {
	return seconds(c.Timeout)
}

func (c ClientConfig) ConnectTimeoutDuration() time.Duration {
	return seconds(c.ConnectTimeout)
}

// WebhookConfig controls webhook dispatch. An empty AllowedResources disables
// resource-specific events; an empty Secret disables signature checks.
type WebhookConfig struct {
	AllowedResources []string `koanf:"allowed_resources"`
	Secret           string   `koanf:"secret"`
	Tolerance        float64  `koanf:"tolerance" validate:"gte=0"`
}

func (c WebhookConfig) ToleranceDuration() time.Duration {
	return seconds(c.Tolerance)
}

// CallbackConfig lists hosts, besides the request host, that redirect URLs may point to.
type CallbackConfig struct {
	AllowedHosts []string `koanf:"allowed_hosts"`
}

type DatabaseConfig struct {
	Enabled         bool          `koanf:"enabled"`
	Host            string        `koanf:"host" validate:"required_with=Enabled"`
	Port            int           `koanf:"port"`
	User            string        `koanf:"user"`
	Password        string        `koanf:"password"`
	Name            string        `koanf:"name"`
	SSLMode         string        `koanf:"ssl_mode"`
	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `koanf:"conn_max_idle_time"`
}

type KafkaConfig struct {
	Brokers []string `koanf:"brokers"`
	Topic   string   `koanf:"topic"`
}

type LoggerConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	err := k.Load(env.ProviderWithValue(envPrefix, ".", envValue), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	validate := validator.New()

	err = validate.Struct(mainConfig)
	if err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// envValue maps GATEWAY_CLIENT__SECRET_KEY to client.secret_key and splits list values.
func envValue(s, v string) (string, interface{}) {
	key := strings.ReplaceAll(
		strings.ToLower(strings.TrimPrefix(s, envPrefix)),
		"__",
		".",
	)

	if !listKeys[key] {
		return key, v
	}

	var items []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return key, items
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}
