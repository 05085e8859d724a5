package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/aidrigs/partsdb-console/internal/middleware"
	"github.com/aidrigs/partsdb-console/internal/model"
)

// CatalogServiceInterface はカタログ管理画面が必要とするバックエンド操作のインターフェース。
type CatalogServiceInterface interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error)
	UpdateCategory(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	ListPriceTiers(ctx context.Context, search string) ([]model.PriceTier, error)
	CreatePriceTier(ctx context.Context, input model.PriceTierInput) (*model.PriceTier, error)
	UpdatePriceTier(ctx context.Context, id string, input model.PriceTierInput) (*model.PriceTier, error)
	DeletePriceTier(ctx context.Context, id string) error

	ListSettings(ctx context.Context) ([]model.SystemSetting, error)
	CreateSetting(ctx context.Context, setting model.SystemSetting) (*model.SystemSetting, error)
	UpdateSetting(ctx context.Context, key string, update model.SettingUpdate) (*model.SystemSetting, error)
}

// CatalogHandler はカテゴリ・価格ティア・システム設定のHTTPハンドラー。
// 各操作はPOST-Redirect-GETパターンで成功時に一覧へ戻る。
type CatalogHandler struct {
	service  CatalogServiceInterface
	renderer *Renderer
}

// NewCatalogHandler はCatalogHandlerを生成する。
func NewCatalogHandler(service CatalogServiceInterface, renderer *Renderer) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		renderer: renderer,
	}
}

// categoriesView はカテゴリ一覧画面のテンプレートデータ。
type categoriesView struct {
	Categories []model.Category
}

// ListCategories はカテゴリ一覧を表示する。
// GET /categories
func (h *CatalogHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "categories", pageData{
		Title:     "Categories",
		Identity:  identity,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      categoriesView{Categories: categories},
	})
}

// CreateCategory はカテゴリ追加フォームの送信を処理する。
// POST /categories
func (h *CatalogHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	input := model.CategoryInput{
		CategoryNameEN: r.PostFormValue("category_name_en"),
		CategoryNamePR: r.PostFormValue("category_name_pr"),
		CategoryNameFR: r.PostFormValue("category_name_fr"),
	}

	if _, err := h.service.CreateCategory(r.Context(), input); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// UpdateCategory はカテゴリ編集フォームの送信を処理する。
// POST /categories/{id}
func (h *CatalogHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	input := model.CategoryInput{
		CategoryNameEN: r.PostFormValue("category_name_en"),
		CategoryNamePR: r.PostFormValue("category_name_pr"),
		CategoryNameFR: r.PostFormValue("category_name_fr"),
	}

	if _, err := h.service.UpdateCategory(r.Context(), id, input); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// DeleteCategory はカテゴリ削除フォームの送信を処理する。
// POST /categories/{id}/delete
func (h *CatalogHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeleteCategory(r.Context(), id); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/categories", http.StatusSeeOther)
}

// priceTiersView は価格ティア一覧画面のテンプレートデータ。
type priceTiersView struct {
	Tiers  []model.PriceTier
	Search string
}

// ListPriceTiers は価格ティア一覧を表示する。
// GET /price-tiers?search=wholesale
func (h *CatalogHandler) ListPriceTiers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")

	tiers, err := h.service.ListPriceTiers(r.Context(), search)
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "pricetiers", pageData{
		Title:     "Price Tiers",
		Identity:  identity,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      priceTiersView{Tiers: tiers, Search: search},
	})
}

// CreatePriceTier は価格ティア追加フォームの送信を処理する。
// POST /price-tiers
func (h *CatalogHandler) CreatePriceTier(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	input := model.PriceTierInput{
		TierName:    r.PostFormValue("tier_name"),
		Description: r.PostFormValue("description"),
		TierKind:    r.PostFormValue("tier_kind"),
	}

	if _, err := h.service.CreatePriceTier(r.Context(), input); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/price-tiers", http.StatusSeeOther)
}

// UpdatePriceTier は価格ティア編集フォームの送信を処理する。
// POST /price-tiers/{id}
func (h *CatalogHandler) UpdatePriceTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	input := model.PriceTierInput{
		TierName:    r.PostFormValue("tier_name"),
		Description: r.PostFormValue("description"),
		TierKind:    r.PostFormValue("tier_kind"),
	}

	if _, err := h.service.UpdatePriceTier(r.Context(), id, input); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/price-tiers", http.StatusSeeOther)
}

// DeletePriceTier は価格ティア削除フォームの送信を処理する。
// POST /price-tiers/{id}/delete
func (h *CatalogHandler) DeletePriceTier(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.service.DeletePriceTier(r.Context(), id); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/price-tiers", http.StatusSeeOther)
}

// settingsView はシステム設定画面のテンプレートデータ。
type settingsView struct {
	Settings []model.SystemSetting
}

// ListSettings はシステム設定一覧を表示する。
// GET /settings
func (h *CatalogHandler) ListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.ListSettings(r.Context())
	if err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	identity, _ := middleware.IdentityFromContext(r.Context())
	h.renderer.Render(w, http.StatusOK, "settings", pageData{
		Title:     "System Settings",
		Identity:  identity,
		CSRFToken: middleware.CSRFTokenFromContext(r.Context()),
		Data:      settingsView{Settings: settings},
	})
}

// CreateSetting はシステム設定追加フォームの送信を処理する。
// POST /settings
func (h *CatalogHandler) CreateSetting(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	setting := model.SystemSetting{
		Key:         r.PostFormValue("key"),
		Value:       r.PostFormValue("value"),
		Description: r.PostFormValue("description"),
		Type:        r.PostFormValue("type"),
		Category:    r.PostFormValue("category"),
		IsSecret:    r.PostFormValue("is_secret") == "on",
	}

	if _, err := h.service.CreateSetting(r.Context(), setting); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}

// UpdateSetting はシステム設定編集フォームの送信を処理する。
// POST /settings/{key}
// シークレット設定で値が空のまま送信された場合は値を変更しない。
func (h *CatalogHandler) UpdateSetting(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, http.StatusBadRequest, "Invalid form submission.")
		return
	}

	update := model.SettingUpdate{
		Value:       r.PostFormValue("value"),
		Description: r.PostFormValue("description"),
	}

	if _, err := h.service.UpdateSetting(r.Context(), key, update); err != nil {
		renderFailure(h.renderer, w, r, err)
		return
	}

	http.Redirect(w, r, "/settings", http.StatusSeeOther)
}
