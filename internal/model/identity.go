// Package model はドメインモデルを定義する。
package model

import "time"

// Identity は認証済みユーザーのプロフィールを表す。
// バックエンドの GET /auth/me レスポンスと同じ形。
type Identity struct {
	ID          string    `json:"id"`
	Email       string    `json:"email"`
	Username    string    `json:"username"`
	FirstName   string    `json:"first_name,omitempty"`
	LastName    string    `json:"last_name,omitempty"`
	IsActive    bool      `json:"is_active"`
	IsSuperuser bool      `json:"is_superuser"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// DisplayName は画面表示用の名前を返す。
// 姓名が未設定の場合はユーザー名にフォールバックする。
func (u *Identity) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}

// Credentials はログインフォームの入力を表す。
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration はアカウント登録フォームの入力を表す。
type Registration struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// ProfileUpdate はプロフィール編集フォームの入力を表す。
// 未設定のフィールドは送信されない（部分更新）。
type ProfileUpdate struct {
	Username  string `json:"username,omitempty"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthToken は POST /auth/login/json のレスポンスを表す。
type AuthToken struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}
