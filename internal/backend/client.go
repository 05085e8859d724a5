// Package backend はParts DBバックエンドAPIのHTTPクライアントを提供する。
// すべてのリクエストにBearerトークンを付与し、401レスポンスでは
// 登録されたフックを呼び出してセッション破棄をトリガーする。
// 各リソースのラッパーは純粋なリクエスト/レスポンス変換に徹する。
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/aidrigs/partsdb-console/internal/credstore"
	"github.com/aidrigs/partsdb-console/internal/model"
)

// Recorder はバックエンド呼び出しのメトリクス収集インターフェース。
type Recorder interface {
	RecordBackendStatus(statusCode int)
	RecordBackendLatency(duration time.Duration)
}

// noopRecorder はメトリクス未設定時のダミー実装。
type noopRecorder struct{}

func (noopRecorder) RecordBackendStatus(int)            {}
func (noopRecorder) RecordBackendLatency(time.Duration) {}

// Client はバックエンドAPIクライアント。
// ベースURLとタイムアウトは起動時に固定され、トークンは
// クレデンシャルストアからリクエストごとに読み出す。
type Client struct {
	baseURL    string
	httpClient *http.Client
	creds      credstore.Store
	metrics    Recorder

	mu             sync.RWMutex
	onUnauthorized func()
}

// New はClientを生成する。
// baseURLは末尾スラッシュなしのAPIルート（例: http://localhost:8000/api/v1）。
func New(baseURL string, timeout time.Duration, creds credstore.Store) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		creds:      creds,
		metrics:    noopRecorder{},
	}
}

// SetMetrics はメトリクスレコーダーを設定する。
func (c *Client) SetMetrics(r Recorder) {
	if r != nil {
		c.metrics = r
	}
}

// SetUnauthorizedHook は401レスポンス受信時に呼ばれるフックを登録する。
// セッションストア側がローカル破棄処理を登録する想定。
// クライアント生成後・リクエスト開始前に1回だけ呼ぶこと。
func (c *Client) SetUnauthorizedHook(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onUnauthorized = fn
}

// do はHTTPリクエストを実行し、レスポンスJSONをoutにデコードする。
// outがnilの場合はボディを読み捨てる。
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	// 1. リクエストURL構築
	reqURL := c.baseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	// 2. リクエストボディのエンコード
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// 3. ストアにトークンがあればBearerヘッダーを付与
	if token, err := c.creds.Get(ctx, credstore.KeyAccessToken); err == nil && token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	// 4. 実行
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.RecordBackendLatency(time.Since(start))
	if err != nil {
		c.metrics.RecordBackendStatus(0)
		slog.Warn("backend request failed",
			slog.String("method", method),
			slog.String("path", path),
			slog.String("error", err.Error()),
		)
		return model.NewBackendUnreachableError(reason(err))
	}
	defer resp.Body.Close()

	c.metrics.RecordBackendStatus(resp.StatusCode)

	// 5. エラーステータスの処理
	if resp.StatusCode == http.StatusUnauthorized {
		detail := extractDetail(resp.Body)
		c.fireUnauthorized()
		return model.NewSessionExpiredError(detail)
	}
	if resp.StatusCode >= 400 {
		detail := extractDetail(resp.Body)
		slog.Warn("backend rejected request",
			slog.String("method", method),
			slog.String("path", path),
			slog.Int("status", resp.StatusCode),
		)
		return model.NewBackendRejectedError(resp.StatusCode, detail)
	}

	// 6. レスポンスのデコード
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return model.NewBackendRejectedError(resp.StatusCode,
			"the backend returned an unreadable response")
	}
	return nil
}

// fireUnauthorized は登録済みの401フックを呼び出す。
// フック未登録の場合は何もしない。
func (c *Client) fireUnauthorized() {
	c.mu.RLock()
	fn := c.onUnauthorized
	c.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// extractDetail はFastAPI形式のエラーボディ {"detail": "..."} からdetailを抽出する。
// detailが文字列でない場合（バリデーションエラーの配列等）やボディが
// JSONでない場合は空文字列を返す。
func extractDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 64*1024))
	if err != nil {
		return ""
	}

	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return detail
}

// reason はネットワークエラーから表示用の短い理由を取り出す。
func reason(err error) string {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		if urlErr.Timeout() {
			return "request timed out"
		}
		return urlErr.Err.Error()
	}
	return err.Error()
}
