package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"go.temporal.io/sdk/client"

	deliveryapp "github.com/ventasve/ventasve-api/internal/domains/delivery/application"
	platformobservability "github.com/ventasve/ventasve-api/internal/platform/observability"
)

// Config carries environment-driven settings shared by the API, worker and purger processes.
type Config struct {
	Port        string
	Environment string
	LogLevel    string
	PostgresDSN string

	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	KafkaBrokers  string
	KafkaTopic    string

	OTLPEndpoint string
	OTLPInsecure bool

	Delivery       deliveryapp.Policy
	IdempotencyTTL time.Duration
}

// LoadConfig reads environment variables, falling back to an optional YAML file named by
// CONFIG_FILE, applies defaults and validates basic constraints.
func LoadConfig() (Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if path := strings.TrimSpace(v.GetString("CONFIG_FILE")); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", path, err)
		}
	}
	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "local")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("TEMPORAL_ADDRESS", client.DefaultHostPort)
	v.SetDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace)
	v.SetDefault("TEMPORAL_DISABLED", false)
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("KAFKA_TOPIC", "ventasve.order-events")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", true)
	v.SetDefault("DELIVERY_STRICT_AVAILABILITY", false)
	v.SetDefault("DELIVERY_REQUIRE_PREPARING", false)
	v.SetDefault("DELIVERY_OTP_MAX_ATTEMPTS", 5)
	v.SetDefault("DELIVERY_OTP_TTL", "0s")
	v.SetDefault("IDEMPOTENCY_TTL_HOURS", 24)
}

func fromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:              strings.TrimSpace(v.GetString("PORT")),
		Environment:       v.GetString("ENVIRONMENT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		PostgresDSN:       strings.TrimSpace(v.GetString("POSTGRES_DSN")),
		TemporalAddress:   v.GetString("TEMPORAL_ADDRESS"),
		TemporalNamespace: v.GetString("TEMPORAL_NAMESPACE"),
		TemporalDisabled:  v.GetBool("TEMPORAL_DISABLED"),
		RedisAddr:         strings.TrimSpace(v.GetString("REDIS_ADDR")),
		RedisPassword:     v.GetString("REDIS_PASSWORD"),
		RedisDB:           v.GetInt("REDIS_DB"),
		KafkaBrokers:      strings.TrimSpace(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
		OTLPEndpoint:      strings.TrimSpace(v.GetString("OTEL_EXPORTER_OTLP_ENDPOINT")),
		OTLPInsecure:      v.GetBool("OTEL_EXPORTER_OTLP_INSECURE"),
		Delivery: deliveryapp.Policy{
			StrictAvailability: v.GetBool("DELIVERY_STRICT_AVAILABILITY"),
			RequirePreparing:   v.GetBool("DELIVERY_REQUIRE_PREPARING"),
			MaxOTPAttempts:     v.GetInt("DELIVERY_OTP_MAX_ATTEMPTS"),
			OTPTTL:             v.GetDuration("DELIVERY_OTP_TTL"),
		},
	}
	if cfg.Port == "" {
		return Config{}, fmt.Errorf("PORT must not be empty")
	}
	if cfg.Delivery.MaxOTPAttempts < 0 {
		return Config{}, fmt.Errorf("DELIVERY_OTP_MAX_ATTEMPTS must not be negative")
	}
	if cfg.Delivery.OTPTTL < 0 {
		return Config{}, fmt.Errorf("DELIVERY_OTP_TTL must not be negative")
	}
	hours := v.GetInt("IDEMPOTENCY_TTL_HOURS")
	if hours <= 0 {
		return Config{}, fmt.Errorf("IDEMPOTENCY_TTL_HOURS must be a positive integer")
	}
	cfg.IdempotencyTTL = time.Duration(hours) * time.Hour
	return cfg, nil
}

// Observability returns the exporter settings for serviceName.
func (c Config) Observability(serviceName string) platformobservability.Options {
	return platformobservability.Options{
		ServiceName:  serviceName,
		Environment:  c.Environment,
		LogLevel:     c.LogLevel,
		OTLPEndpoint: c.OTLPEndpoint,
		OTLPInsecure: c.OTLPInsecure,
	}
}
