// Package session はコンソールの認証セッション状態を管理する。
// 「誰がログインしているか」の唯一の情報源であり、永続クレデンシャル
// ストアおよび本人確認エンドポイントと同期する。
// プロセスごとにインスタンスは1つで、依存性注入で各コンポーネントに渡す。
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aidrigs/partsdb-console/internal/credstore"
	"github.com/aidrigs/partsdb-console/internal/model"
)

// Phase はセッションの状態を表すタグ付きバリアント。
// booleanフラグの組み合わせではなく明示的な状態機械として扱うことで、
// 「認証済みなのにユーザーがいない」という不正な組み合わせを排除する。
type Phase string

const (
	// PhaseLoading は起動時の初期検証が完了していない状態。
	PhaseLoading Phase = "loading"
	// PhaseAuthenticated はトークン検証済みでユーザーが確定している状態。
	PhaseAuthenticated Phase = "authenticated"
	// PhaseUnauthenticated は未ログインの状態。
	PhaseUnauthenticated Phase = "unauthenticated"
)

// AuthAPI はセッションストアが必要とするバックエンド操作のインターフェース。
// backend.Clientの部分集合として定義する。
type AuthAPI interface {
	Login(ctx context.Context, creds model.Credentials) (*model.AuthToken, error)
	Register(ctx context.Context, reg model.Registration) (*model.Identity, error)
	CurrentIdentity(ctx context.Context) (*model.Identity, error)
	Logout(ctx context.Context) error
}

// Snapshot はセッション状態の読み取り専用コピー。
type Snapshot struct {
	Phase    Phase
	Identity *model.Identity
	Token    string
}

// IsLoading は初期検証中かどうかを返す。
func (s Snapshot) IsLoading() bool {
	return s.Phase == PhaseLoading
}

// IsAuthenticated は認証済みかどうかを返す。
func (s Snapshot) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// Store はプロセス全体で共有するセッションストア。
// 状態の変更はこのストアの操作だけが行い、他のコンポーネントは
// Snapshotで読み取るだけ。
type Store struct {
	api   AuthAPI
	creds credstore.Store

	mu            sync.Mutex
	phase         Phase
	identity      *model.Identity
	token         string
	initialized   bool
	loginInFlight bool
}

// New はLoading状態のStoreを生成する。
// 生成後にInitializeを1回呼び出して状態を確定させること。
func New(api AuthAPI, creds credstore.Store) *Store {
	return &Store{
		api:   api,
		creds: creds,
		phase: PhaseLoading,
	}
}

// Snapshot は現在のセッション状態のコピーを返す。
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Phase: s.phase, Token: s.token}
	if s.identity != nil {
		identity := *s.identity
		snap.Identity = &identity
	}
	return snap
}

// Initialize は永続ストアからクレデンシャルを読み込み、セッション状態を確定する。
// プロセス起動時に1回だけ実行する（2回目以降の呼び出しは何もしない）。
//   - トークンとユーザーが両方保存されている場合は本人確認エンドポイントで検証し、
//     成功なら認証済み、失敗なら永続ストアを破棄して未認証に落とす。
//   - どちらかが欠けている場合は検証せず未認証として確定する。
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	if s.initialized {
		s.mu.Unlock()
		return
	}
	s.initialized = true
	s.mu.Unlock()

	token, tokenErr := s.creds.Get(ctx, credstore.KeyAccessToken)
	userJSON, userErr := s.creds.Get(ctx, credstore.KeyUser)

	if tokenErr != nil || userErr != nil || token == "" || userJSON == "" {
		s.setUnauthenticated()
		slog.Info("session initialized without stored credentials")
		return
	}

	// 保存済みトークンの有効性を本人確認エンドポイントで検証する。
	// トークンがあるだけでは認証済みとは見なさない。
	identity, err := s.api.CurrentIdentity(ctx)
	if err != nil {
		slog.Info("stored token rejected, clearing credentials",
			slog.String("error", err.Error()),
		)
		s.teardownLocal()
		return
	}

	s.mu.Lock()
	s.phase = PhaseAuthenticated
	s.identity = identity
	s.token = token
	s.mu.Unlock()

	slog.Info("session restored from stored credentials",
		slog.String("user_id", identity.ID),
	)
}

// Login は認証エンドポイントでログインし、成功時にセッションを認証済みにする。
// トークンの永続化は本人確認呼び出しより前に行う（HTTPクライアントが
// ストアからトークンを読んでリクエストに付与するため）。
// いずれかの段階で失敗した場合は永続ストアを破棄し、未認証のまま
// エラーメッセージを返す。
// 進行中のLoginがある間の再呼び出しはErrLoginInFlightで拒否する。
func (s *Store) Login(ctx context.Context, creds model.Credentials) error {
	s.mu.Lock()
	if s.loginInFlight {
		s.mu.Unlock()
		return model.ErrLoginInFlight
	}
	s.loginInFlight = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loginInFlight = false
		s.mu.Unlock()
	}()

	token, err := s.api.Login(ctx, creds)
	if err != nil {
		s.teardownLocal()
		return model.NewLoginFailedError(model.ErrorDetail(err))
	}

	// トークンを先に永続化してから本人情報を取得する
	if err := s.creds.Set(ctx, credstore.KeyAccessToken, token.AccessToken); err != nil {
		s.teardownLocal()
		return fmt.Errorf("failed to persist token: %w", err)
	}

	identity, err := s.api.CurrentIdentity(ctx)
	if err != nil {
		// 部分的に永続化されたトークンを残さない
		s.teardownLocal()
		return model.NewLoginFailedError(model.ErrorDetail(err))
	}

	if err := s.persistIdentity(ctx, identity); err != nil {
		s.teardownLocal()
		return err
	}

	s.mu.Lock()
	s.phase = PhaseAuthenticated
	s.identity = identity
	s.token = token.AccessToken
	s.mu.Unlock()

	slog.Info("login succeeded", slog.String("user_id", identity.ID))
	return nil
}

// Register は新規アカウントを登録する。セッション状態は変更しない
// （作成されたアカウントでログインするには別途Loginを呼ぶ）。
func (s *Store) Register(ctx context.Context, reg model.Registration) error {
	if _, err := s.api.Register(ctx, reg); err != nil {
		return model.NewRegistrationFailedError(model.ErrorDetail(err))
	}
	slog.Info("account registered", slog.String("email", reg.Email))
	return nil
}

// Logout はローカル状態と永続ストアを即座に破棄し、その後
// ベストエフォートでサーバー側ログアウトを呼び出す。
// サーバー呼び出しの結果は成功・失敗を問わず無視する。
// 冪等であり、2回呼んでも結果は変わらない。
func (s *Store) Logout(ctx context.Context) {
	s.teardownLocal()

	if err := s.api.Logout(ctx); err != nil {
		slog.Debug("server-side logout failed (ignored)",
			slog.String("error", err.Error()),
		)
	}
}

// TeardownLocal はローカル状態と永続ストアを破棄する。
// 明示的なLogoutとHTTPクライアントの401フックの両方から呼ばれる
// 唯一の破棄経路。
func (s *Store) TeardownLocal() {
	s.teardownLocal()
}

// UpdateIdentity はユーザースナップショットをサーバーに問い合わせずに上書きする。
// プロフィール編集の成功後に呼ばれる想定。
func (s *Store) UpdateIdentity(ctx context.Context, identity *model.Identity) error {
	if err := s.persistIdentity(ctx, identity); err != nil {
		return err
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
	return nil
}

// Refresh は本人情報を再取得してスナップショットを上書きする。
// ベストエフォートの更新であり、失敗はログに残して握りつぶす
// （状態も永続ストアも変更しない）。
func (s *Store) Refresh(ctx context.Context) {
	identity, err := s.api.CurrentIdentity(ctx)
	if err != nil {
		slog.Warn("failed to refresh user snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	if err := s.persistIdentity(ctx, identity); err != nil {
		slog.Warn("failed to persist refreshed snapshot",
			slog.String("error", err.Error()),
		)
		return
	}

	s.mu.Lock()
	s.identity = identity
	s.mu.Unlock()
}

// persistIdentity はユーザースナップショットをJSONで永続ストアに書き込む。
func (s *Store) persistIdentity(ctx context.Context, identity *model.Identity) error {
	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("failed to marshal identity: %w", err)
	}
	if err := s.creds.Set(ctx, credstore.KeyUser, string(data)); err != nil {
		return fmt.Errorf("failed to persist identity: %w", err)
	}
	return nil
}

// teardownLocal は永続ストアを破棄し、状態を未認証にリセットする。
func (s *Store) teardownLocal() {
	// HTTPリクエストのコンテキストに縛られない破棄処理のためBackgroundを使う
	if err := credstore.Clear(context.Background(), s.creds); err != nil &&
		!errors.Is(err, credstore.ErrNotFound) {
		slog.Error("failed to clear credential store",
			slog.String("error", err.Error()),
		)
	}
	s.setUnauthenticated()
}

// setUnauthenticated は状態を未認証に確定する。
func (s *Store) setUnauthenticated() {
	s.mu.Lock()
	s.phase = PhaseUnauthenticated
	s.identity = nil
	s.token = ""
	s.mu.Unlock()
}
