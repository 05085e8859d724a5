// Package model はドメインモデルを定義する。
package model

import "time"

// Category は部品カテゴリを表す。
// 言語別のカテゴリ名を持つ（EN必須、PR/FRは任意）。
type Category struct {
	ID             string    `json:"id"`
	CategoryNameEN string    `json:"category_name_en"`
	CategoryNamePR string    `json:"category_name_pr,omitempty"`
	CategoryNameFR string    `json:"category_name_fr,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// CategoryInput はカテゴリの作成・更新リクエストを表す。
type CategoryInput struct {
	CategoryNameEN string `json:"category_name_en,omitempty"`
	CategoryNamePR string `json:"category_name_pr,omitempty"`
	CategoryNameFR string `json:"category_name_fr,omitempty"`
}

// PriceTier は価格ティアを表す。
type PriceTier struct {
	ID          string    `json:"id"`
	TierName    string    `json:"tier_name"`
	Description string    `json:"description,omitempty"`
	TierKind    string    `json:"tier_kind,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PriceTierInput は価格ティアの作成・更新リクエストを表す。
type PriceTierInput struct {
	TierName    string `json:"tier_name,omitempty"`
	Description string `json:"description,omitempty"`
	TierKind    string `json:"tier_kind,omitempty"`
}

// SystemSetting はバックエンドのシステム設定項目を表す。
type SystemSetting struct {
	Key         string `json:"key"`
	Value       string `json:"value"`
	Description string `json:"description,omitempty"`
	Type        string `json:"type"` // string, boolean, int, json
	IsSecret    bool   `json:"is_secret"`
	Category    string `json:"category"`
}

// SettingUpdate はシステム設定の更新リクエストを表す。
type SettingUpdate struct {
	Value       string `json:"value,omitempty"`
	Description string `json:"description,omitempty"`
}

// Manufacturer は部品メーカーを表す。
type Manufacturer struct {
	ID      string `json:"id"`
	MfgID   string `json:"mfg_id"`
	MfgName string `json:"mfg_name"`
	MfgType string `json:"mfg_type"` // OEM, APM, Remanufacturers
	Country string `json:"country,omitempty"`
	Website string `json:"website,omitempty"`
}

// Part は部品カタログのエントリを表す。
// 価格・承認のビジネスルールはバックエンド側にあり、ここでは表示用の読み取りモデル。
type Part struct {
	ID           string        `json:"id"`
	PartID       string        `json:"part_id"`
	PartNameEN   string        `json:"part_name_en,omitempty"`
	DriveSide    string        `json:"drive_side,omitempty"` // NA, LHD, RHD
	Designation  string        `json:"designation,omitempty"`
	MOQ          int           `json:"moq,omitempty"`
	Weight       float64       `json:"weight,omitempty"`
	Note         string        `json:"note,omitempty"` // リッチテキストの可能性あり（表示前にサニタイズする）
	ImageURL     string        `json:"image_url,omitempty"`
	Manufacturer *Manufacturer `json:"manufacturer,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// PartListPage は部品一覧のページネーション付きレスポンスを表す。
type PartListPage struct {
	Items    []Part `json:"items"`
	Total    int    `json:"total"`
	Page     int    `json:"page"`
	Pages    int    `json:"pages"`
	PageSize int    `json:"page_size"`
}

// DashboardStats はダッシュボードの集計値を表す。
type DashboardStats struct {
	TotalParts          int `json:"total_parts"`
	TotalTranslations   int `json:"total_translations"`
	PendingTranslations int `json:"pending_translations"`
	TotalManufacturers  int `json:"total_manufacturers"`
	TotalPartners       int `json:"total_partners"`
	PendingApprovals    int `json:"pending_approvals"`
}
