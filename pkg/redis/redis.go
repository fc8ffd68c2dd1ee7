package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var ErrKeyNotFound = errors.New("redis: key not found")

type IRedis interface {
	SetOTP(ctx context.Context, key string, code string, expiration time.Duration) error
	GetOTP(ctx context.Context, key string) (string, error)
	DeleteOTP(ctx context.Context, key string) error

	Set(ctx context.Context, key string, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
	HSet(ctx context.Context, key string, field string, value string) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
}

type redisClient struct {
	client *redis.Client
}

func New() IRedis {
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))
	redisAddr := os.Getenv("REDIS_ADDRESS")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: redisPassword,
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return &redisClient{client: client}
}

func (r *redisClient) SetOTP(ctx context.Context, key string, code string, expiration time.Duration) error {
	logrus.Debug(fmt.Sprintf("Setting OTP for key %s with expiration %v", key, expiration))
	if err := r.client.Set(ctx, key, code, expiration).Err(); err != nil {
		logrus.Error(fmt.Sprintf("Error setting OTP for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) GetOTP(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		logrus.Debug(fmt.Sprintf("OTP not found for key %s", key))
		return "", ErrKeyNotFound
	} else if err != nil {
		logrus.Error(fmt.Sprintf("Error getting OTP for key %s: %v", key, err))
		return "", err
	}
	return val, nil
}

func (r *redisClient) DeleteOTP(ctx context.Context, key string) error {
	if _, err := r.client.Del(ctx, key).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Error deleting OTP for key %s: %v", key, err))
		return err
	}
	return nil
}

func (r *redisClient) Set(ctx context.Context, key string, value string) error {
	return r.client.Set(ctx, key, value, 0).Err()
}

func (r *redisClient) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrKeyNotFound
	} else if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisClient) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisClient) HSet(ctx context.Context, key string, field string, value string) error {
	return r.client.HSet(ctx, key, field, value).Err()
}

func (r *redisClient) HGetAll(ctx context.Context, key string) (map[string]string, error) {
	return r.client.HGetAll(ctx, key).Result()
}
