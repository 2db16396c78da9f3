package tokenstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "botadmin:revoked_token:"

// ErrStore ошибка хранилища отозванных токенов
var ErrStore = errors.New("tokenstore: storage error")

// RedisStore список отозванных токенов в Redis.
// Ключ живёт до истечения срока действия токена, после этого токен недействителен и так.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore подключается к Redis и проверяет соединение
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: ping redis %s: %v", ErrStore, addr, err)
	}

	return &RedisStore{client: client}, nil
}

// NewRedisStoreFromClient оборачивает уже созданный клиент
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

// Revoke помечает токен отозванным до момента expiresAt
func (s *RedisStore) Revoke(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := s.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%w: revoke %s: %v", ErrStore, tokenID, err)
	}
	return nil
}

// IsRevoked проверяет, отозван ли токен
func (s *RedisStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := s.client.Exists(ctx, keyPrefix+tokenID).Result()
	if err != nil {
		return false, fmt.Errorf("%w: check %s: %v", ErrStore, tokenID, err)
	}
	return n > 0, nil
}

// Close закрывает соединение с Redis
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// NopStore используется, когда Redis выключен: выход из системы ничего не сохраняет
type NopStore struct{}

func (NopStore) Revoke(context.Context, string, time.Time) error {
	return nil
}

func (NopStore) IsRevoked(context.Context, string) (bool, error) {
	return false, nil
}

func (NopStore) Close() error {
	return nil
}
