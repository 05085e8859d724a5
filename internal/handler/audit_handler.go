package handler

import (
	"context"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"github.com/aidrigs/partsdb-console/internal/backend"
	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/model"
)

const auditLogsPageSize = 50

// AuditServiceInterface は監査ログ画面が必要とするバックエンド操作のインターフェース。
type AuditServiceInterface interface {
	UnifiedLogs(ctx context.Context, page, pageSize int, filter backend.AuditLogFilter) ([]model.UnifiedLog, int, error)
}

// AuditHandler はシステム監査ログと承認ログの統合表示を行うHTTPハンドラー。
type AuditHandler struct {
	service  AuditServiceInterface
	renderer *Renderer
}

// NewAuditHandler はAuditHandlerを生成する。
func NewAuditHandler(service AuditServiceInterface, renderer *Renderer) *AuditHandler {
	return &AuditHandler{
		service:  service,
		renderer: renderer,
	}
}

// auditLogsView は監査ログ画面のテンプレートデータ。
type auditLogsView struct {
	Logs        []model.UnifiedLog
	Total       int
	Page        int
	NextPage    int
	PrevPage    int
	HasNext     bool
	Filter      backend.AuditLogFilter
	FilterQuery template.URL
}

// ListLogs は監査ログ一覧を表示する。
// GET /audit-logs?page=1&action=update&entity_type=part&user_id=u-1
// システム監査ログと承認ログを時刻降順でマージした統合ビューを描画する。
func (h *AuditHandler) ListLogs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := parsePage(q.Get("page"))

	filter := backend.AuditLogFilter{
		Action:     q.Get("action"),
		EntityType: q.Get("entity_type"),
		UserID:     q.Get("user_id"),
	}
	if raw := q.Get("start_date"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.StartDate = ts
		}
	}
	if raw := q.Get("end_date"); raw != "" {
		if ts, err := time.Parse("2006-01-02", raw); err == nil {
			filter.EndDate = ts
		}
	}

	logs, total, err := h.service.UnifiedLogs(r.Context(), page, auditLogsPageSize, filter)
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "auditlogs", pageData{
		Title:    "Audit Logs",
		Identity: identity,
		Data: auditLogsView{
			Logs:        logs,
			Total:       total,
			Page:        page,
			NextPage:    page + 1,
			PrevPage:    page - 1,
			HasNext:     page*auditLogsPageSize < total,
			Filter:      filter,
			FilterQuery: template.URL(filterQuery(filter)),
		},
	})
}

// filterQuery はページングリンクに引き継ぐフィルタのクエリ文字列を組み立てる。
func filterQuery(filter backend.AuditLogFilter) string {
	v := url.Values{}
	if filter.Action != "" {
		v.Set("action", filter.Action)
	}
	if filter.EntityType != "" {
		v.Set("entity_type", filter.EntityType)
	}
	if filter.UserID != "" {
		v.Set("user_id", filter.UserID)
	}
	if !filter.StartDate.IsZero() {
		v.Set("start_date", filter.StartDate.Format("2006-01-02"))
	}
	if !filter.EndDate.IsZero() {
		v.Set("end_date", filter.EndDate.Format("2006-01-02"))
	}
	if len(v) == 0 {
		return ""
	}
	return "&" + v.Encode()
}
