package handler

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/model"
	"github.com/aidrigs/partsdb-console/internal/session"
)

// SessionServiceInterface は認証ハンドラーが必要とするセッション操作のインターフェース。
// session.Storeの部分集合として定義する。
type SessionServiceInterface interface {
	Snapshot() session.Snapshot
	Login(ctx context.Context, creds model.Credentials) error
	Register(ctx context.Context, reg model.Registration) error
	Logout(ctx context.Context)
	UpdateIdentity(ctx context.Context, identity *model.Identity) error
}

// ProfileServiceInterface はプロフィール編集が必要とするバックエンド操作のインターフェース。
type ProfileServiceInterface interface {
	UpdateProfile(ctx context.Context, update model.ProfileUpdate) (*model.Identity, error)
	ChangePassword(ctx context.Context, oldPassword, newPassword string) error
}

// AuthMetrics はログイン結果のメトリクス記録インターフェース。
type AuthMetrics interface {
	RecordLoginSuccess()
	RecordLoginFailure()
}

// noopAuthMetrics はメトリクス未設定時のデフォルト実装。
type noopAuthMetrics struct{}

func (noopAuthMetrics) RecordLoginSuccess() {}
func (noopAuthMetrics) RecordLoginFailure() {}

// AuthHandler はログイン・登録・ログアウト・プロフィール関連のHTTPハンドラー。
type AuthHandler struct {
	sessions SessionServiceInterface
	profile  ProfileServiceInterface
	renderer *Renderer
	metrics  AuthMetrics
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(sessions SessionServiceInterface, profile ProfileServiceInterface, renderer *Renderer) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		profile:  profile,
		renderer: renderer,
		metrics:  noopAuthMetrics{},
	}
}

// SetMetrics はログイン結果のメトリクス記録先を設定する。
func (h *AuthHandler) SetMetrics(m AuthMetrics) {
	h.metrics = m
}

// loginForm はログイン画面のテンプレートデータ。
type loginForm struct {
	Email string
	Next  string
}

// registerForm は登録画面のテンプレートデータ。
type registerForm struct {
	Email     string
	Username  string
	FirstName string
	LastName  string
}

// LoginPage はログインフォームを表示する。
// GET /login?next=/categories
func (h *AuthHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", pageData{
		Title:     "Sign in",
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data: loginForm{
			Next: middleware.SafeNextPath(r.URL.Query().Get(middleware.NextParam)),
		},
	})
}

// Login はログインフォームの送信を処理する。
// POST /login
// 成功時はnextパラメータの画面（検証済みのサイト内パス）へ303でリダイレクトする。
// 失敗時はエラーメッセージ付きでフォームを再表示する。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	creds := model.Credentials{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
	}
	next := middleware.SafeNextPath(r.PostFormValue(middleware.NextParam))

	if err := h.sessions.Login(r.Context(), creds); err != nil {
		h.metrics.RecordLoginFailure()
		slog.Warn("login attempt failed",
			slog.String("email", creds.Email),
			slog.String("error", err.Error()),
		)
		h.renderer.Render(w, http.StatusUnauthorized, "login", pageData{
			Title:     "Sign in",
			CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
			Error:     model.UserMessage(err),
			Data: loginForm{
				Email: creds.Email,
				Next:  next,
			},
		})
		return
	}

	h.metrics.RecordLoginSuccess()
	http.Redirect(w, r, next, http.StatusSeeOther)
}

// RegisterPage は登録フォームを表示する。
// GET /register
func (h *AuthHandler) RegisterPage(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", pageData{
		Title:     "Create account",
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      registerForm{},
	})
}

// Register は登録フォームの送信を処理する。
// POST /register
// 登録してもログイン状態にはならず、成功時はログイン画面へ303でリダイレクトする。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	reg := model.Registration{
		Email:     r.PostFormValue("email"),
		Username:  r.PostFormValue("username"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
		Password:  r.PostFormValue("password"),
	}

	if err := h.sessions.Register(r.Context(), reg); err != nil {
		slog.Warn("registration failed",
			slog.String("email", reg.Email),
			slog.String("error", err.Error()),
		)
		h.renderer.Render(w, http.StatusBadRequest, "register", pageData{
			Title:     "Create account",
			CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
			Error:     model.UserMessage(err),
			Data: registerForm{
				Email:     reg.Email,
				Username:  reg.Username,
				FirstName: reg.FirstName,
				LastName:  reg.LastName,
			},
		})
		return
	}

	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// Logout はセッションを破棄してログイン画面へ303でリダイレクトする。
// POST /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.sessions.Logout(r.Context())
	http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
}

// ProfilePage はプロフィール編集フォームを表示する。
// GET /profile
func (h *AuthHandler) ProfilePage(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		h.renderer.RenderError(w, http.StatusInternalServerError, "Session state unavailable.")
		return
	}

	h.renderProfile(w, r, identity, http.StatusOK, "", r.URL.Query().Get("notice"))
}

// UpdateProfile はプロフィール編集フォームの送信を処理する。
// POST /profile
// 成功時はバックエンドが返した最新のユーザー情報でセッションを更新する。
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		h.renderer.RenderError(w, http.StatusInternalServerError, "Session state unavailable.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	update := model.ProfileUpdate{
		Username:  r.PostFormValue("username"),
		FirstName: r.PostFormValue("first_name"),
		LastName:  r.PostFormValue("last_name"),
	}

	updated, err := h.profile.UpdateProfile(r.Context(), update)
	if err != nil {
		h.renderProfile(w, r, identity, statusFor(err), model.UserMessage(err), "")
		return
	}

	if err := h.sessions.UpdateIdentity(r.Context(), updated); err != nil {
		slog.Error("failed to update session identity",
			slog.String("error", err.Error()),
		)
	}

	http.Redirect(w, r, "/profile?notice="+url.QueryEscape("Profile updated."), http.StatusSeeOther)
}

// ChangePassword はパスワード変更フォームの送信を処理する。
// POST /profile/password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	identity, err := middleware.IdentityFromContext(r.Context())
	if err != nil {
		h.renderer.RenderError(w, http.StatusInternalServerError, "Session state unavailable.")
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	oldPassword := r.PostFormValue("old_password")
	newPassword := r.PostFormValue("new_password")

	if err := h.profile.ChangePassword(r.Context(), oldPassword, newPassword); err != nil {
		h.renderProfile(w, r, identity, statusFor(err), model.UserMessage(err), "")
		return
	}

	http.Redirect(w, r, "/profile?notice="+url.QueryEscape("Password changed."), http.StatusSeeOther)
}

// renderProfile はプロフィール画面を描画する。
func (h *AuthHandler) renderProfile(w http.ResponseWriter, r *http.Request, identity *model.Identity, status int, errMsg, notice string) {
	h.renderer.Render(w, status, "profile", pageData{
		Title:     "Profile",
		Identity:  identity,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Error:     errMsg,
		Notice:    notice,
	})
}
