// Package app はアプリケーションの起動と依存関係のワイヤリングを行う。
package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/aidrigs/partsdb-console/internal/backend"
	"github.com/aidrigs/partsdb-console/internal/config"
	"github.com/aidrigs/partsdb-console/internal/credstore"
	"github.com/aidrigs/partsdb-console/internal/handler"
	"github.com/aidrigs/partsdb-console/internal/logger"
	"github.com/aidrigs/partsdb-console/internal/metrics"
	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/session"
)

// Init はアプリケーションの初期化を行う。
// 環境変数からConfigを読み込み、JSON構造化ログをセットアップする。
// writerが指定された場合はログ出力先としてそのwriterを使用する。
func Init(w io.Writer) (*config.Config, error) {
	// 1. ログの初期化（設定読み込み前にログを使えるようにする）
	logger.SetupDefault(w)

	// 2. 環境変数から設定を読み込む
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return cfg, nil
}

// Run はアプリケーションのメインエントリーポイント。
// コマンドライン引数からサブコマンドを解析し、対応するモードで起動する。
// argsにはos.Args[1:]を渡す。
func Run(w io.Writer, args []string) error {
	cmd := ParseCommand(args)

	// healthcheck は軽量サブコマンドのため、フル初期化をスキップする
	if cmd == CommandHealthcheck {
		port := os.Getenv("SERVER_PORT")
		if port == "" {
			port = "8080"
		}
		return runHealthcheck(port)
	}

	cfg, err := Init(w)
	if err != nil {
		return fmt.Errorf("initialization failed: %w", err)
	}

	slog.Info("starting application",
		slog.String("command", string(cmd)),
		slog.String("port", cfg.ServerPort),
		slog.String("backend_url", cfg.BackendURL),
	)

	return runServe(cfg)
}

// newCredStore は設定に応じたクレデンシャルストアを生成する。
func newCredStore(cfg *config.Config) (credstore.Store, func(), error) {
	switch cfg.CredStore {
	case "redis":
		store := credstore.NewRedisStore(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := store.Ping(ctx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		slog.Info("redis credential store connected", slog.String("addr", cfg.RedisAddr))
		return store, func() { store.Close() }, nil

	default:
		store, err := credstore.NewFileStore(cfg.StateDir)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open file credential store: %w", err)
		}

		slog.Info("file credential store opened", slog.String("dir", cfg.StateDir))
		return store, func() {}, nil
	}
}

// runServe はコンソールサーバーモードで起動する。
// クレデンシャルストアとバックエンドクライアントを構築し、セッションストアを
// バックグラウンドで初期化しつつHTTPサーバーを起動する。
// SIGINTまたはSIGTERMシグナルを受信するとグレースフルシャットダウンを行う。
func runServe(cfg *config.Config) error {
	// 1. クレデンシャルストア
	creds, closeStore, err := newCredStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	// 2. メトリクス
	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	// 3. バックエンドクライアント
	client := backend.New(cfg.BackendURL, cfg.RequestTimeout, creds)
	client.SetMetrics(collector)

	// 4. セッションストア
	sessions := session.New(client, creds)

	// バックエンドが401を返したら、サーバーを呼ばずにローカルの
	// セッションとクレデンシャルだけを破棄する
	client.SetUnauthorizedHook(func() {
		collector.RecordSessionExpired()
		sessions.TeardownLocal()
	})

	// 保存済みトークンの検証は起動をブロックしない。
	// 検証が終わるまでガードはローディング画面を返す。
	go sessions.Initialize(context.Background())

	// 5. 画面テンプレート
	renderer, err := handler.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to build renderer: %w", err)
	}

	// 6. ルーターの構築
	limiterCfg := middleware.DefaultLoginRateLimiterConfig()
	limiterCfg.Rate = rate.Limit(float64(cfg.LoginRateLimit) / 60.0)
	limiterCfg.Burst = cfg.LoginRateBurst
	loginLimiter := middleware.NewLoginRateLimiter(limiterCfg)
	defer loginLimiter.Stop()

	deps := &handler.RouterDeps{
		SessionService: sessions,
		ProfileService: client,
		CatalogService: client,
		PartsService:   client,
		AuditService:   client,

		Renderer: renderer,

		Logger:       slog.Default(),
		LoginLimiter: loginLimiter,
		CSRFConfig:   middleware.CSRFConfig{CookieSecure: cfg.CookieSecure},

		MetricsHandler: metrics.Handler(registry),
		AuthMetrics:    collector,
	}

	router := handler.NewRouter(deps)

	// 7. HTTPサーバーの起動
	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// グレースフルシャットダウンのためのシグナルハンドリング
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		slog.Info("console server starting",
			slog.String("addr", server.Addr),
		)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server listen error", slog.String("error", err.Error()))
		}
	}()

	<-stop
	slog.Info("shutting down console server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("console server stopped gracefully")
	return nil
}

// runHealthcheck はヘルスチェックを実行する。
// distroless環境でのDockerヘルスチェック用サブコマンド。
// /health エンドポイントにHTTPリクエストを送り、結果を返す。
func runHealthcheck(port string) error {
	url := fmt.Sprintf("http://localhost:%s/health", port)
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check returned status %d", resp.StatusCode)
	}

	return nil
}
