package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

type App struct {
	Config
	SMSGatewayConfig
	ShortenerConfig
	LinkConfig
	PollConfig
	GeocodingConfig
	EventsConfig
	RateLimitConfig
}

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port            int           `env:"SERVER_PORT, default=8080"`
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT, default=10s"`
	AllowedOrigins  []string      `env:"SERVER_ALLOWED_ORIGINS, default=*"`
	TrustedProxies  []string      `env:"SERVER_TRUSTED_PROXIES"`
}

type DatabaseConfig struct {
	Host     string `env:"DB_HOST,required"`
	Port     int    `env:"DB_PORT,required"`
	User     string `env:"DB_USER,required"`
	Password string `env:"DB_PASSWORD,required"`
	Name     string `env:"DB_NAME,required"`

	MaxConns          int32         `env:"DB_MAX_CONNS, default=10"`
	MinConns          int32         `env:"DB_MIN_CONNS, default=2"`
	MaxConnLifetime   time.Duration `env:"DB_MAX_CONN_LIFETIME, default=30m"`
	MaxConnIdleTime   time.Duration `env:"DB_MAX_CONN_IDLE_TIME, default=10m"`
	HealthCheckPeriod time.Duration `env:"DB_HEALTH_CHECK_PERIOD, default=2m"`
	ConnectTimeout    time.Duration `env:"DB_CONNECT_TIMEOUT, default=5s"`
}

// RedisConfig is optional; an empty host disables the transcript cache.
type RedisConfig struct {
	Host     string        `env:"REDIS_HOST"`
	Port     int           `env:"REDIS_PORT, default=6379"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB, default=0"`
	CacheTTL time.Duration `env:"TRANSCRIPT_CACHE_TTL, default=2s"`
}

func (r RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", r.Host, r.Port)
}

type SMSGatewayConfig struct {
	GatewayURL      string        `env:"SMS_GATEWAY_URL, default=https://api.sms-gate.app/3rdparty/v1/message"`
	GatewayUsername string        `env:"SMS_GATEWAY_USERNAME"`
	GatewayPassword string        `env:"SMS_GATEWAY_PASSWORD"`
	GatewayTimeout  time.Duration `env:"SMS_GATEWAY_TIMEOUT, default=10s"`
	CountryCode     string        `env:"SMS_COUNTRY_CODE, default=55"`
}

type ShortenerConfig struct {
	ShortenerURL     string        `env:"SHORTENER_URL"`
	ShortenerTimeout time.Duration `env:"SHORTENER_TIMEOUT, default=3s"`
}

type LinkConfig struct {
	PublicBaseURL string        `env:"PUBLIC_BASE_URL, default=http://localhost:8080"`
	LinkTTL       time.Duration `env:"LINK_TTL, default=2h"`
}

type PollConfig struct {
	MessagePollInterval time.Duration `env:"MESSAGE_POLL_INTERVAL, default=3s"`
	StatusPollInterval  time.Duration `env:"STATUS_POLL_INTERVAL, default=10s"`
}

// GeocodingConfig enables reverse geocoding of submitted coordinates when a key is set.
type GeocodingConfig struct {
	MapsAPIKey       string        `env:"GOOGLE_MAPS_API_KEY"`
	GeocodingTimeout time.Duration `env:"GEOCODING_TIMEOUT, default=5s"`
	GeocodingLang    string        `env:"GEOCODING_LANGUAGE, default=pt-BR"`
}

// EventsConfig enables publishing lifecycle events to SQS when a queue URL is set.
type EventsConfig struct {
	EventsQueueURL string `env:"EVENTS_QUEUE_URL"`
	AWSRegion      string `env:"AWS_REGION, default=us-east-1"`
}

type RateLimitConfig struct {
	PublicRatePerSecond float64 `env:"PUBLIC_RATE_PER_SECOND, default=1"`
	PublicBurst         int     `env:"PUBLIC_BURST, default=5"`
}

// Load reads an optional .env file and then the process environment.
func Load(ctx context.Context) (*App, error) {
	_ = godotenv.Load()

	var cfg App
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return nil, fmt.Errorf("processing environment variables: %w", err)
	}
	return &cfg, nil
}
