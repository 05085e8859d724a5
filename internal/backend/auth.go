package backend

import (
	"context"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// Login は認証エンドポイントを呼び出し、成功時にアクセストークンを返す。
// トークンの永続化は呼び出し元（セッションストア）の責務。
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error) {
	var token model.AuthToken
	if err := c.do(ctx, http.MethodPost, "/auth/login/json", nil, creds, &token); err != nil {
		return nil, err
	}
	return &token, nil
}

// Register は新規アカウントを登録し、作成されたアカウント情報を返す。
// 登録してもセッション状態は変わらない（別途Loginが必要）。
func (c *Client) Register(ctx context.Context, reg model.Registration) (*model.Identity, error) {
	var created model.Identity
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, reg, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// CurrentIdentity は保存済みトークンで本人情報を取得する。
// トークン検証を兼ねる（失敗＝トークン無効）。
func (c *Client) CurrentIdentity(ctx context.Context) (*model.Identity, error) {
	var identity model.Identity
	if err := c.do(ctx, http.MethodGet, "/auth/me", nil, nil, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// UpdateProfile はプロフィールを部分更新し、更新後の本人情報を返す。
func (c *Client) UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.Identity, error) {
	var identity model.Identity
	if err := c.do(ctx, http.MethodPut, "/auth/me", nil, update, &identity); err != nil {
		return nil, err
	}
	return &identity, nil
}

// ChangePassword はパスワードを変更する。
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{
		"old_password": oldPassword,
		"new_password": newPassword,
	}
	return c.do(ctx, http.MethodPost, "/auth/change-password", nil, body, nil)
}

// Logout はサーバー側のログアウトエンドポイントを呼び出す。
// ベストエフォートであり、呼び出し元は結果を無視してよい。
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/auth/logout", nil, nil, nil)
}
