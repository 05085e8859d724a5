package handler

import (
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/model"
)

const partsPageSize = 20

// PartsServiceInterface は部品閲覧画面が必要とするバックエンド操作のインターフェース。
type PartsServiceInterface interface {
	ListParts(ctx context.Context, page, pageSize int, search string) (*model.PartListPage, error)
	GetPart(ctx context.Context, id string) (*model.Part, error)
	GetDashboardStats(ctx context.Context) (*model.DashboardStats, error)
}

// PartsHandler は部品一覧・詳細およびダッシュボードのHTTPハンドラー。
type PartsHandler struct {
	service  PartsServiceInterface
	renderer *Renderer
}

// NewPartsHandler はPartsHandlerを生成する。
func NewPartsHandler(service PartsServiceInterface, renderer *Renderer) *PartsHandler {
	return &PartsHandler{
		service:  service,
		renderer: renderer,
	}
}

// dashboardView はダッシュボード画面のテンプレートデータ。
type dashboardView struct {
	Stats *model.DashboardStats
}

// Dashboard は集計値付きのダッシュボードを表示する。
// GET /dashboard
func (h *PartsHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.GetDashboardStats(r.Context())
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "dashboard", pageData{
		Title:     "Dashboard",
		Identity:  identity,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      dashboardView{Stats: stats},
	})
}

// partsView は部品一覧画面のテンプレートデータ。
type partsView struct {
	Page        *model.PartListPage
	Search      string
	SearchQuery template.URL
	HasNext     bool
	NextPage    int
	PrevPage    int
}

// ListParts は部品一覧を表示する。
// GET /parts?page=2&search=brake
func (h *PartsHandler) ListParts(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r.URL.Query().Get("page"))
	search := r.URL.Query().Get("search")

	result, err := h.service.ListParts(r.Context(), page, partsPageSize, search)
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	searchQuery := ""
	if search != "" {
		searchQuery = "&search=" + url.QueryEscape(search)
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "parts", pageData{
		Title:    "Parts",
		Identity: identity,
		Data: partsView{
			Page:        result,
			Search:      search,
			SearchQuery: template.URL(searchQuery),
			HasNext:     result.Page < result.Pages,
			NextPage:    result.Page + 1,
			PrevPage:    result.Page - 1,
		},
	})
}

// partDetailView は部品詳細画面のテンプレートデータ。
type partDetailView struct {
	Part *model.Part
}

// GetPart は部品詳細を表示する。
// GET /parts/{id}
// Noteフィールドはリッチテキストの可能性があるため、テンプレート側で
// サニタイズしてから描画する。
func (h *PartsHandler) GetPart(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	part, err := h.service.GetPart(r.Context(), id)
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "part_detail", pageData{
		Title:    fmt.Sprintf("Part %s", part.PartID),
		Identity: identity,
		Data:     partDetailView{Part: part},
	})
}

// parsePage はクエリパラメータのページ番号を解釈する。不正値は1ページ目に落とす。
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
