package credstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// keyPrefix はRedis上でのキー名の衝突を避けるためのプレフィックス。
const keyPrefix = "partsdb:console:"

// RedisStore はRedisにクレデンシャルを保存するStore実装。
// 永続ディスクを持たないデプロイ先（コンテナ等）向けのバックエンド。
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore はRedisバックエンドのStoreを生成する。
func NewRedisStore(addr, password string, db int) *RedisStore {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: client}
}

// Ping はRedisへの接続を確認する。起動時のヘルスチェックに使用する。
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	return nil
}

// Close はRedis接続を閉じる。
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Set はキーと値を保存する。TTLは設定しない（明示的な削除まで残る）。
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, keyPrefix+key, value, 0).Err()
}

// Get はキーに対応する値を返す。存在しない場合はErrNotFound。
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, keyPrefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

// Delete はキーを削除する。キーが存在しない場合もエラーにしない。
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, keyPrefix+key).Err()
}

var _ Store = (*RedisStore)(nil)
