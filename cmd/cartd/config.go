package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fjod/rocketshoes-cart/internal/persistence"
	"github.com/fjod/rocketshoes-cart/internal/poller"
	"github.com/fjod/rocketshoes-cart/internal/store"
)

type Config struct {
	HTTPPort           string
	CatalogURL         string
	CatalogTimeout     time.Duration
	Storage            string
	StorageKey         string
	SQLitePath         string
	RedisAddr          string
	RedisPassword      string
	MongoURI           string
	MongoDBName        string
	Postgres           persistence.Credentials
	KafkaBrokers       []string
	CheckoutTopic      string
	OwnerID            string
	Locale             string
	SerializeMutations bool
	LogLevel           string
	RequestTimeout     time.Duration
	ShutdownTimeout    time.Duration
	MaxRequestBodySize int64
}

func loadConfig() (*Config, error) {
	catalogTimeout, err := time.ParseDuration(getEnv("CATALOG_TIMEOUT", "5s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CATALOG_TIMEOUT: %w", err)
	}
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}
	serialize, err := strconv.ParseBool(getEnv("CART_SERIALIZE_MUTATIONS", "true"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_SERIALIZE_MUTATIONS: %w", err)
	}

	cfg := &Config{
		HTTPPort:           getEnv("HTTP_PORT", "8080"),
		CatalogURL:         getEnv("CATALOG_URL", "http://localhost:3333"),
		CatalogTimeout:     catalogTimeout,
		Storage:            strings.ToLower(getEnv("CART_STORAGE", "sqlite")),
		StorageKey:         getEnv("CART_STORAGE_KEY", store.DefaultStorageKey),
		SQLitePath:         getEnv("SQLITE_PATH", "cart.db"),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:      getEnv("REDIS_PASSWORD", ""),
		MongoURI:           getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:        getEnv("MONGO_DB_NAME", "cartdb"),
		KafkaBrokers:       splitList(getEnv("KAFKA_BROKERS", "")),
		CheckoutTopic:      getEnv("CHECKOUT_TOPIC", poller.DefaultTopic),
		OwnerID:            getEnv("CART_OWNER_ID", "1"),
		Locale:             getEnv("CART_LOCALE", "en"),
		SerializeMutations: serialize,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		RequestTimeout:     30 * time.Second,
		ShutdownTimeout:    10 * time.Second,
		MaxRequestBodySize: 1 << 20, // 1MB
		Postgres: persistence.Credentials{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "cartdb"),
		},
	}

	switch cfg.Storage {
	case storageMemory, storageSQLite, storageRedis, storageMongo, storagePostgres:
	default:
		return nil, fmt.Errorf("unknown CART_STORAGE %q", cfg.Storage)
	}
	return cfg, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
