package main

import (
	"context"
	"fmt"

	"github.com/fjod/rocketshoes-cart/internal/persistence"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const (
	storageMemory   = "memory"
	storageSQLite   = "sqlite"
	storageRedis    = "redis"
	storageMongo    = "mongo"
	storagePostgres = "postgres"
)

func openStorage(ctx context.Context, cfg *Config, log *logrus.Entry) (persistence.Storage, error) {
	switch cfg.Storage {
	case storageMemory:
		log.Warn("using in-memory cart storage, the cart will not survive a restart")
		return persistence.NewMemoryStorage(), nil

	case storageSQLite:
		s, err := persistence.NewSQLiteStorage(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		log.WithField("path", cfg.SQLitePath).Info("opened sqlite cart storage")
		return s, nil

	case storageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, fmt.Errorf("redis connection failed: %w", err)
		}
		log.WithField("addr", cfg.RedisAddr).Info("redis ping succeeded")
		return persistence.NewRedisStorage(client), nil

	case storageMongo:
		db, err := persistence.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.WithField("database", cfg.MongoDBName).Info("connected to MongoDB")
		return persistence.NewMongoStorage(db), nil

	case storagePostgres:
		s, err := persistence.NewPostgresStorage(&cfg.Postgres)
		if err != nil {
			return nil, err
		}
		log.WithFields(logrus.Fields{
			"host":     cfg.Postgres.Host,
			"database": cfg.Postgres.DBName,
		}).Info("connected to postgres")
		return s, nil
	}
	return nil, fmt.Errorf("unknown storage %q", cfg.Storage)
}
