package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Storefront Service
// Витрина не хранит данные сама: вся конфигурация - это HTTP сервер,
// адрес backend gateway, кеш запросов и источник событий каталога
type Config struct {
	Server  ServerConfig
	Gateway GatewayConfig
	Cache   CacheConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	JWT     JWTConfig
	CORS    CORSConfig
	Log     LogConfig
}

type ServerConfig struct {
	Host string
	Port string
}

// GatewayConfig - адрес и таймаут backend gateway (единственный удалённый источник данных)
type GatewayConfig struct {
	BaseURL string        // Базовый URL gateway (например http://localhost:8090)
	Timeout time.Duration // Таймаут одного RPC вызова
}

// CacheConfig - настройки кеша запросов
type CacheConfig struct {
	Backend       string        // memory или redis
	TTL           time.Duration // TTL записи кеша по умолчанию
	SweepSchedule string        // cron-расписание вычистки истёкших записей (memory backend)
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// KafkaConfig - consumer событий каталога для фоновой инвалидации кеша
// Backend публикует события изменения товаров в этот топик
type KafkaConfig struct {
	Enabled bool
	Brokers []string
	Topic   string
	GroupID string
}

// JWTConfig - проверка токенов identity provider
// Секрет должен совпадать с identity provider'ом
type JWTConfig struct {
	Secret string
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB value: %w", err)
	}

	gatewayTimeout, err := time.ParseDuration(getEnv("GATEWAY_TIMEOUT", "10s"))
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_TIMEOUT value: %w", err)
	}

	cacheTTL, err := time.ParseDuration(getEnv("CACHE_TTL", "5m"))
	if err != nil {
		return nil, fmt.Errorf("invalid CACHE_TTL value: %w", err)
	}

	kafkaEnabled, err := strconv.ParseBool(getEnv("KAFKA_ENABLED", "false"))
	if err != nil {
		return nil, fmt.Errorf("invalid KAFKA_ENABLED value: %w", err)
	}

	return &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		Gateway: GatewayConfig{
			BaseURL: getEnv("GATEWAY_URL", "http://localhost:8090"),
			Timeout: gatewayTimeout,
		},
		Cache: CacheConfig{
			Backend:       getEnv("CACHE_BACKEND", "memory"),
			TTL:           cacheTTL,
			SweepSchedule: getEnv("CACHE_SWEEP_SCHEDULE", "@every 1m"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		Kafka: KafkaConfig{
			Enabled: kafkaEnabled,
			Brokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:   getEnv("KAFKA_TOPIC", "product_events"),
			GroupID: getEnv("KAFKA_GROUP_ID", "storefront-service"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", "your-secret-key-change-this-in-production"),
		},
		CORS: CORSConfig{
			AllowedOrigins: strings.Split(getEnv("CORS_ALLOWED_ORIGINS", "*"), ","),
		},
		Log: LogConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

// Address возвращает адрес сервера в формате host:port
func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// Address возвращает адрес Redis в формате host:port
func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
