package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidrigs/partsdb-console/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// セッション
	SessionService SessionServiceInterface

	// バックエンドリソース
	ProfileService ProfileServiceInterface
	CatalogService CatalogServiceInterface
	PartsService   PartsServiceInterface
	AuditService   AuditServiceInterface

	// 描画
	Renderer *Renderer

	// ミドルウェア依存
	Logger       *slog.Logger
	LoginLimiter *middleware.LoginRateLimiter
	CSRFConfig   middleware.CSRFConfig

	// 観測
	MetricsHandler http.Handler
	AuthMetrics    AuthMetrics
}

// NewRouter は全画面のルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → Logging → CSRF
//
// 認証必須の画面はガード、ログイン・登録画面はゲスト専用ミドルウェアで保護する。
// /healthと/metricsはどちらのガードも通さない。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	authHandler := NewAuthHandler(deps.SessionService, deps.ProfileService, deps.Renderer)
	if deps.AuthMetrics != nil {
		authHandler.SetMetrics(deps.AuthMetrics)
	}
	catalogHandler := NewCatalogHandler(deps.CatalogService, deps.Renderer)
	partsHandler := NewPartsHandler(deps.PartsService, deps.Renderer)
	auditHandler := NewAuditHandler(deps.AuditService, deps.Renderer)

	// --- ガード対象外のルート ---

	r.Get("/health", healthHandler)
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// --- ゲスト専用の画面（認証済みならダッシュボードへ） ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuestOnlyMiddleware(deps.SessionService))

		r.Get(middleware.LoginPath, authHandler.LoginPage)
		if deps.LoginLimiter != nil {
			r.With(deps.LoginLimiter.Middleware()).Post(middleware.LoginPath, authHandler.Login)
		} else {
			r.Post(middleware.LoginPath, authHandler.Login)
		}

		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
	})

	// --- 認証が必要な画面 ---

	r.Group(func(r chi.Router) {
		r.Use(middleware.NewGuardMiddleware(deps.SessionService))

		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			http.Redirect(w, r, middleware.DefaultAuthenticatedPath, http.StatusSeeOther)
		})
		r.Get(middleware.DefaultAuthenticatedPath, partsHandler.Dashboard)
		r.Post("/logout", authHandler.Logout)

		// 部品閲覧
		r.Route("/parts", func(r chi.Router) {
			r.Get("/", partsHandler.ListParts)
			r.Get("/{id}", partsHandler.GetPart)
		})

		// カテゴリ管理
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", catalogHandler.ListCategories)
			r.Post("/", catalogHandler.CreateCategory)
			r.Post("/{id}", catalogHandler.UpdateCategory)
			r.Post("/{id}/delete", catalogHandler.DeleteCategory)
		})

		// 価格ティア管理
		r.Route("/price-tiers", func(r chi.Router) {
			r.Get("/", catalogHandler.ListPriceTiers)
			r.Post("/", catalogHandler.CreatePriceTier)
			r.Post("/{id}", catalogHandler.UpdatePriceTier)
			r.Post("/{id}/delete", catalogHandler.DeletePriceTier)
		})

		// システム設定
		r.Route("/settings", func(r chi.Router) {
			r.Get("/", catalogHandler.ListSettings)
			r.Post("/", catalogHandler.CreateSetting)
			r.Post("/{key}", catalogHandler.UpdateSetting)
		})

		// 監査ログ
		r.Get("/audit-logs", auditHandler.ListLogs)

		// プロフィール
		r.Route("/profile", func(r chi.Router) {
			r.Get("/", authHandler.ProfilePage)
			r.Post("/", authHandler.UpdateProfile)
			r.Post("/password", authHandler.ChangePassword)
		})
	})

	return r
}

// healthHandler はプロセスの生存確認エンドポイント。
// GET /health
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
