package handler

import (
	"errors"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/model"
)

// statusFor はバックエンドエラーをコンソールのHTTPステータスへ写像する。
func statusFor(err error) int {
	var apiErr *model.APIError
	if !errors.As(err, &apiErr) {
		return http.StatusInternalServerError
	}
	switch apiErr.Code {
	case model.ErrCodeBackendUnreachable:
		return http.StatusBadGateway
	case model.ErrCodeSessionExpired:
		return http.StatusUnauthorized
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return http.StatusBadRequest
		}
		return http.StatusBadGateway
	}
}

// renderFailure はバックエンド呼び出しの失敗を画面に反映する。
// 401（セッション失効）の場合は401フックが既にセッションを破棄しているため、
// ログイン画面へ303でリダイレクトする。それ以外はエラー画面を描画する。
func renderFailure(rn *Renderer, w http.ResponseWriter, r *http.Request, err error) {
	if model.IsUnauthorized(err) {
		http.Redirect(w, r, middleware.LoginPath, http.StatusSeeOther)
		return
	}
	rn.RenderError(w, statusFor(err), model.UserMessage(err))
}
