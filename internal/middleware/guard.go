// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/aidrigs/partsdb-console/internal/model"
	"github.com/aidrigs/partsdb-console/internal/session"
)

const (
	// LoginPath は未認証リクエストのリダイレクト先。
	LoginPath = "/login"
	// DefaultAuthenticatedPath は認証済みユーザーのデフォルト画面。
	DefaultAuthenticatedPath = "/dashboard"
	// NextParam はログイン後の戻り先を保持するクエリパラメータ名。
	NextParam = "next"
)

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// identityContextKey はリクエストコンテキストにユーザーを格納するためのキー。
var identityContextKey = contextKey("identity")

// SessionReader はガードが必要とするセッション状態の読み取りインターフェース。
// session.Storeの部分集合として定義する。
type SessionReader interface {
	Snapshot() session.Snapshot
}

// NewGuardMiddleware は認証必須ルートを保護するミドルウェアを返す。
// セッション状態に応じて3通りに分岐する。
//   - 初期検証中: 判定を保留し、ローディング画面を200で返す
//     （未認証と誤判定してログイン画面に飛ばさない）。
//   - 未認証: 303でログイン画面にリダイレクトする。元のパスはnextパラメータで
//     引き継ぎ、ログイン成功後に復帰できるようにする。
//   - 認証済み: ユーザーをコンテキストに注入して後続に渡す。
func NewGuardMiddleware(sessions SessionReader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sessions.Snapshot()

			if snap.IsLoading() {
				writeLoadingPage(w)
				return
			}

			if !snap.IsAuthenticated() {
				target := LoginPath
				if next := SafeNextPath(r.URL.RequestURI()); next != DefaultAuthenticatedPath {
					target = LoginPath + "?" + NextParam + "=" + url.QueryEscape(next)
				}
				http.Redirect(w, r, target, http.StatusSeeOther)
				return
			}

			ctx := ContextWithIdentity(r.Context(), snap.Identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// NewGuestOnlyMiddleware はログイン・登録画面用のミドルウェアを返す。
// 認証済みユーザーがアクセスした場合はダッシュボードへ303でリダイレクトする。
// 初期検証中はガードと同様にローディング画面を返す。
func NewGuestOnlyMiddleware(sessions SessionReader) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := sessions.Snapshot()

			if snap.IsLoading() {
				writeLoadingPage(w)
				return
			}

			if snap.IsAuthenticated() {
				http.Redirect(w, r, DefaultAuthenticatedPath, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SafeNextPath はnextパラメータの値をサイト内パスとして検証する。
// 外部URLへのオープンリダイレクトを防ぐため、先頭が"/"単独で始まる
// 相対パス以外はすべてデフォルト画面に落とす。
func SafeNextPath(raw string) string {
	if raw == "" {
		return DefaultAuthenticatedPath
	}
	// "//evil.example" や "/\evil.example" はスキーム相対URLとして解釈されうる
	if !strings.HasPrefix(raw, "/") ||
		strings.HasPrefix(raw, "//") ||
		strings.HasPrefix(raw, "/\\") {
		return DefaultAuthenticatedPath
	}
	if strings.ContainsAny(raw, "\r\n") {
		return DefaultAuthenticatedPath
	}
	return raw
}

// IdentityFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// ガードを通過したリクエストでのみ有効。
func IdentityFromContext(ctx context.Context) (*model.Identity, error) {
	identity, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok || identity == nil {
		return nil, fmt.Errorf("identity not found in context")
	}
	return identity, nil
}

// ContextWithIdentity はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithIdentity(ctx context.Context, identity *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// writeLoadingPage は初期検証中のローディング画面を返す。
// meta refreshで自動的に再読み込みし、検証完了後に本来の画面へ進む。
func writeLoadingPage(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta http-equiv="refresh" content="1">
<title>Loading - AidRigs Parts DB</title>
</head>
<body>
<p>Checking session...</p>
</body>
</html>
`)
}
