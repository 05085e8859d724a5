// Package model はドメインモデルを定義する。
package model

import (
	"errors"
	"fmt"
)

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, backend, system
	Action   string // ユーザー向け対処方法
	Status   int    // バックエンドが返したHTTPステータス（不明な場合は0）
	Detail   string // バックエンドのエラーレスポンスから抽出した生のdetail（なければ空）
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeLoginFailed        = "LOGIN_FAILED"
	ErrCodeRegistrationFailed = "REGISTRATION_FAILED"
	ErrCodeSessionExpired     = "SESSION_EXPIRED"
	ErrCodeBackendUnreachable = "BACKEND_UNREACHABLE"
	ErrCodeBackendRejected    = "BACKEND_REJECTED"
	ErrCodeNotFound           = "NOT_FOUND"
)

// ErrLoginInFlight は進行中のログインがある間に再度Loginが呼ばれた場合に返す。
// 二重送信対策として2回目の呼び出しは無視する方針。
var ErrLoginInFlight = errors.New("login already in progress")

// ErrNotAuthenticated は未認証状態で認証必須の操作が呼ばれた場合に返す。
var ErrNotAuthenticated = errors.New("not authenticated")

// NewLoginFailedError はログイン失敗エラーを生成する。
// detailにはバックエンドのエラーレスポンスのdetailフィールドを渡す。
// 空の場合は汎用メッセージにフォールバックする。
func NewLoginFailedError(detail string) *APIError {
	if detail == "" {
		detail = "Login failed"
	}
	return &APIError{
		Code:     ErrCodeLoginFailed,
		Message:  detail,
		Category: "auth",
		Action:   "Check your email address and password, then try again.",
	}
}

// NewRegistrationFailedError はアカウント登録失敗エラーを生成する。
func NewRegistrationFailedError(detail string) *APIError {
	if detail == "" {
		detail = "Registration failed"
	}
	return &APIError{
		Code:     ErrCodeRegistrationFailed,
		Message:  detail,
		Category: "auth",
		Action:   "Check the entered values. The email address and username must be unique.",
	}
}

// NewSessionExpiredError はセッション失効エラーを生成する。
// バックエンドが401を返した場合に使用する。
// detailにはバックエンドの401レスポンスのdetailフィールドを渡す（なければ空）。
func NewSessionExpiredError(detail string) *APIError {
	msg := detail
	if msg == "" {
		msg = "Your session has expired."
	}
	return &APIError{
		Code:     ErrCodeSessionExpired,
		Message:  msg,
		Category: "auth",
		Action:   "Log in again to continue.",
		Status:   401,
		Detail:   detail,
	}
}

// NewBackendUnreachableError はバックエンド接続失敗エラーを生成する。
// ネットワークエラーやタイムアウトで使用する。
func NewBackendUnreachableError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeBackendUnreachable,
		Message:  fmt.Sprintf("Could not reach the Parts DB backend: %s", reason),
		Category: "backend",
		Action:   "Check the backend URL and network connectivity, then retry.",
	}
}

// NewBackendRejectedError はバックエンドがエラーステータスを返した場合のエラーを生成する。
// detailにはレスポンスボディから抽出したdetailフィールドを渡す。
func NewBackendRejectedError(status int, detail string) *APIError {
	msg := detail
	if msg == "" {
		msg = fmt.Sprintf("the backend returned status %d", status)
	}
	return &APIError{
		Code:     ErrCodeBackendRejected,
		Message:  msg,
		Category: "backend",
		Action:   "Verify the submitted values and try again.",
		Status:   status,
		Detail:   detail,
	}
}

// ErrorDetail はエラーからバックエンド由来のdetailを取り出す。
// detailを持たないエラーの場合は空文字列を返す。
func ErrorDetail(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Detail
	}
	return ""
}

// IsUnauthorized はエラーがセッション失効（401）由来かどうかを判定する。
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status == 401
	}
	return false
}

// UserMessage はエラーから画面表示用メッセージを取り出す。
// APIError以外のエラーは内部情報を漏らさないよう汎用メッセージに落とす。
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return "An unexpected error occurred. Please try again."
}
