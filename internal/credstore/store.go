// Package credstore はコンソールの永続クレデンシャルストアを提供する。
// ブラウザ版でのlocalStorageに相当し、プロセス再起動後も残る
// アクセストークンとユーザースナップショットの2キーだけを保持する。
package credstore

import (
	"context"
	"errors"
)

const (
	// KeyAccessToken はベアラートークンを保存するキー。
	KeyAccessToken = "access_token"
	// KeyUser はシリアライズ済みユーザースナップショットを保存するキー。
	KeyUser = "user"
)

// ErrNotFound はキーが存在しない場合に返す。
var ErrNotFound = errors.New("credstore: key not found")

// Store はクレデンシャルの永続化インターフェース。
// 書き込みはセッションストアだけが行い、HTTPクライアントは読み取りのみ
// （401トリガーの破棄を除く）。
type Store interface {
	Set(ctx context.Context, key, value string) error
	Get(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// Clear はトークンとユーザースナップショットの両方を削除する。
// どちらかが既に存在しなくてもエラーにしない（冪等）。
func Clear(ctx context.Context, s Store) error {
	if err := s.Delete(ctx, KeyAccessToken); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err := s.Delete(ctx, KeyUser); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
