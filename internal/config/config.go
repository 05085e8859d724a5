// Package config はアプリケーション設定を提供する。
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config はアプリケーション全体の設定を保持する。
// 環境変数から起動時に1回読み込み、イミュータブルとして扱う。
type Config struct {
	// Backend
	BackendURL     string        // Parts DBバックエンドAPIのベースURL
	RequestTimeout time.Duration // バックエンドへのリクエストタイムアウト（固定値）

	// Credential store
	CredStore     string // file または redis
	StateDir      string // fileストアの保存先ディレクトリ
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Login rate limit
	LoginRateLimit int // ログイン試行のレート（req/min/IP）
	LoginRateBurst int

	// Server
	ServerPort string

	// Cookie
	CookieSecure bool
}

// Load は環境変数からConfigを読み込む。
// カレントディレクトリに.envファイルがあれば先に読み込む（未存在は無視）。
// 必須環境変数が未設定の場合はエラーを返す。
func Load() (*Config, error) {
	// .envはローカル開発用。読み込み失敗（ファイルなし）は正常系として扱う。
	_ = godotenv.Load()

	cfg := &Config{}

	// Required fields
	cfg.BackendURL = strings.TrimSuffix(os.Getenv("BACKEND_URL"), "/")
	if cfg.BackendURL == "" {
		return nil, fmt.Errorf("required environment variable is not set: BACKEND_URL")
	}
	if !strings.HasPrefix(cfg.BackendURL, "http://") && !strings.HasPrefix(cfg.BackendURL, "https://") {
		return nil, fmt.Errorf("BACKEND_URL must start with http:// or https://: %s", cfg.BackendURL)
	}

	// Optional fields with defaults
	cfg.RequestTimeout = getEnvDuration("REQUEST_TIMEOUT", 10*time.Second)
	cfg.CredStore = getEnvString("CRED_STORE", "file")
	cfg.StateDir = getEnvString("STATE_DIR", defaultStateDir())
	cfg.RedisAddr = getEnvString("REDIS_ADDR", "localhost:6379")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.RedisDB = getEnvInt("REDIS_DB", 0)
	cfg.LoginRateLimit = getEnvInt("LOGIN_RATE_LIMIT", 10)
	cfg.LoginRateBurst = getEnvInt("LOGIN_RATE_BURST", 5)
	cfg.ServerPort = getEnvString("SERVER_PORT", "8080")
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", false)

	if cfg.CredStore != "file" && cfg.CredStore != "redis" {
		return nil, fmt.Errorf("CRED_STORE must be file or redis: %s", cfg.CredStore)
	}

	return cfg, nil
}

// defaultStateDir はfileストアのデフォルト保存先を返す。
// ユーザーのconfigディレクトリ配下。取得できない場合はカレントディレクトリ。
func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "."
	}
	return dir + "/partsdb-console"
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return i
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return defaultVal
	}
	return b
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return defaultVal
	}
	return d
}
