package config

import (
	"log"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type key string

const (
	KeyUUID    key = "uuid"
	KeyLogger  key = "logger"
	KeyMetrics key = "metrics"
)

type Config struct {
	Service    Service
	Postgres   Postgres
	Logger     Logger
	Metrics    Metrics
	Kafka      Kafka
	Centrifuge Centrifuge
	Storage    Storage
	Platform   Platform
}

type Service struct {
	Port string `env:"MESSENGER_SERVICE_PORT" env-default:"8080"`
	Name string `env:"MESSENGER_SERVICE_NAME" env-default:"messenger-service"`
}

type Postgres struct {
	User     string `env:"MESSENGER_SERVICE_POSTGRES_USER"`
	Password string `env:"MESSENGER_SERVICE_POSTGRES_PASSWORD"`
	Database string `env:"MESSENGER_SERVICE_POSTGRES_DB"`
	Host     string `env:"MESSENGER_SERVICE_POSTGRES_HOST"`
	Port     string `env:"MESSENGER_SERVICE_POSTGRES_PORT" env-default:"5432"`
}

type Logger struct {
	Host string `env:"LOGGER_SERVICE_HOST"`
	Port string `env:"LOGGER_SERVICE_PORT"`
}

type Metrics struct {
	Host string `env:"GRAFANA_HOST"`
	Port int    `env:"GRAFANA_PORT"`
}

type Kafka struct {
	Host      string `env:"KAFKA_HOST"`
	Port      string `env:"KAFKA_PORT"`
	UserTopic string `env:"KAFKA_USER_TOPIC" env-default:"user_updates"`
}

type Centrifuge struct {
	BaseURL   string        `env:"CENTRIFUGO_BASE_URL"`
	APIKey    string        `env:"CENTRIFUGO_API_KEY"`
	JWTSecret string        `env:"CENTRIFUGO_JWT_SECRET"`
	Timeout   time.Duration `env:"CENTRIFUGO_TIMEOUT" env-default:"5s"`
}

type Storage struct {
	BaseURL      string        `env:"OBJECT_STORAGE_BASE_URL"`
	APIKey       string        `env:"OBJECT_STORAGE_API_KEY"`
	Timeout      time.Duration `env:"OBJECT_STORAGE_TIMEOUT" env-default:"5s"`
	SignedURLTTL time.Duration `env:"OBJECT_STORAGE_SIGNED_URL_TTL" env-default:"15m"`
}

type Platform struct {
	Env string `env:"ENV" env-default:"dev"`
}

func MustLoad() *Config {
	cfg := &Config{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		log.Fatalf("failed to read config: %v", err)
	}
	return cfg
}
