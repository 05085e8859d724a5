// Package handler はHTTPハンドラーと画面描画を提供する。
package handler

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/model"
	"github.com/aidrigs/partsdb-console/internal/security"
)

//go:embed views/*.html
var viewsFS embed.FS

// pageData は全画面共通のテンプレートデータ。
// 画面固有のデータはDataに載せる。
type pageData struct {
	Title     string
	Identity  *model.Identity
	CSRFToken string
	Error     string
	Notice    string
	Data      any
}

// Renderer はレイアウト付きでHTMLテンプレートを描画する。
type Renderer struct {
	templates map[string]*template.Template
	sanitizer security.NoteSanitizerService
}

// NewRenderer は埋め込みテンプレートをパースしてRendererを生成する。
// 各画面はlayout.htmlと組み合わせてパースする。
func NewRenderer() (*Renderer, error) {
	pages := []string{
		"login", "register", "dashboard",
		"categories", "pricetiers", "settings",
		"auditlogs", "parts", "part_detail",
		"profile", "error",
	}

	sanitizer := security.NewNoteSanitizer()

	funcs := template.FuncMap{
		// 部品のNoteなどバックエンド由来のリッチテキストを安全に描画する
		"sanitizeHTML": func(s string) template.HTML {
			return template.HTML(sanitizer.Sanitize(s))
		},
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(
			viewsFS,
			"views/layout.html",
			"views/"+page+".html",
		)
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", page, err)
		}
		templates[page] = t
	}

	return &Renderer{
		templates: templates,
		sanitizer: sanitizer,
	}, nil
}

// Render は指定ページをレイアウト付きで描画する。
func (rn *Renderer) Render(w http.ResponseWriter, status int, page string, data pageData) {
	t, ok := rn.templates[page]
	if !ok {
		slog.Error("unknown template", slog.String("page", page))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := t.ExecuteTemplate(w, "layout.html", data); err != nil {
		slog.Error("failed to render template",
			slog.String("page", page),
			slog.String("error", err.Error()),
		)
	}
}

// RenderError はエラー画面を描画する。
func (rn *Renderer) RenderError(w http.ResponseWriter, status int, message string) {
	rn.Render(w, status, "error", pageData{
		Title: "Error",
		Error: message,
	})
}
