// Package config предоставляет структуры и функцию для парсинга и загрузки конфига.
package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config общая структура для хранения настроек.
type Config struct {
	Env                     string `yaml:"env" env:"ENV" env-default:"local"`
	StorageConnectionString string `yaml:"storage_connection_string" env:"STORAGE_CONNECTION_STRING" env-required:"true"`
	// StoreTimeout ограничивает сверху обращение к базе при вычислении прав:
	// зависший коннект превращается в отказ зависимости, а не в вечное ожидание.
	StoreTimeout   time.Duration `yaml:"store_timeout" env-default:"5s"`
	MigrationsPath string        `yaml:"migrations_path" env-default:"./migrations"`
	RedisConnection         `yaml:"redis_connection"`
	HTTPServer              `yaml:"http_server"`
	JWTToken                `yaml:"jwttoken"`
	Billing                 `yaml:"billing"`
	RateLimit               `yaml:"rate_limit"`
}

// HTTPServer структура для настройки сервера.
type HTTPServer struct {
	AddressHTTP string        `yaml:"addresshttp" env-default:":8080"`
	TimeoutHTTP time.Duration `yaml:"timeouthttp" env-default:"10s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

// RedisConnection структура для настройки подключения к redis.
type RedisConnection struct {
	AddressRedis string        `yaml:"addressredis" env:"REDIS_ADDRESS" env-default:"localhost:6379"`
	Password     string        `yaml:"password" env:"REDIS_PASSWORD"`
	User         string        `yaml:"user"`
	DB           int           `yaml:"db"`
	MaxRetries   int           `yaml:"max_retries" env-default:"3"`
	DialTimeout  time.Duration `yaml:"dial_timeout" env-default:"5s"`
	TimeoutRedis time.Duration `yaml:"timeoutredis" env-default:"5s"`
}

// JWTToken структура для работы с jwt-токеном.
type JWTToken struct {
	JWTSecretKey string        `yaml:"jwt_secret_key" env:"JWT_SECRET_KEY" env-required:"true"`
	TokenTTL     time.Duration `yaml:"token_ttl" env-default:"24h"`
}

// Billing хранит прайс-лист, промокоды и параметры платёжного провайдера.
// Таблицы загружаются из конфига, а не зашиваются в код, чтобы цены можно
// было менять и тестировать без пересборки.
type Billing struct {
	Currency string `yaml:"currency" env-default:"USD"`
	Provider string `yaml:"provider" env-default:"nowpayments"`
	// Plans: план -> вариант длительности -> базовая цена.
	Plans map[string]map[string]float64 `yaml:"plans"`
	// PromoCodes: код -> скидка в процентах.
	PromoCodes    map[string]float64 `yaml:"promo_codes"`
	CheckoutURL   string             `yaml:"checkout_url" env-default:"https://nowpayments.io/payment"`
	WebhookSecret string             `yaml:"webhook_secret" env:"WEBHOOK_SECRET" env-required:"true"`
}

// RateLimit параметры фиксированного окна для генерации предсказаний.
type RateLimit struct {
	PredictionLimit  int           `yaml:"prediction_limit" env-default:"10"`
	PredictionWindow time.Duration `yaml:"prediction_window" env-default:"60s"`
}

// MustLoad загружает конфиг по пути из CONFIG_PATH и завершает процесс,
// если файл отсутствует, не парсится или не заданы обязательные секреты.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		log.Fatal("CONFIG_PATH is not set")
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("file: %s - does not exist", configPath)
	}
	var cfg Config

	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}
	if len(cfg.Plans) == 0 {
		log.Fatal("billing.plans is empty: pricing table is required")
	}
	return &cfg
}
