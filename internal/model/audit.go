// Package model はドメインモデルを定義する。
package model

import (
	"encoding/json"
	"time"
)

// SystemAuditLog はシステム監査ログの1件を表す。
// 記録自体はバックエンドの責務で、コンソールは表示するだけ。
type SystemAuditLog struct {
	ID               string          `json:"id"`
	UserID           string          `json:"user_id"`
	Username         string          `json:"username"`
	Action           string          `json:"action"`
	EntityType       string          `json:"entity_type"`
	EntityID         string          `json:"entity_id"`
	EntityIdentifier string          `json:"entity_identifier,omitempty"`
	Changes          json.RawMessage `json:"changes,omitempty"`
	IPAddress        string          `json:"ip_address,omitempty"`
	UserAgent        string          `json:"user_agent,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
}

// AuditLogPage はシステム監査ログのページネーション付きレスポンスを表す。
type AuditLogPage struct {
	Items    []SystemAuditLog `json:"items"`
	Total    int              `json:"total"`
	Page     int              `json:"page"`
	Pages    int              `json:"pages"`
	PageSize int              `json:"page_size"`
}

// ApprovalLog は承認ワークフローの履歴1件を表す。
type ApprovalLog struct {
	ID               string    `json:"id"`
	EntityType       string    `json:"entity_type"`
	EntityID         string    `json:"entity_id"`
	EntityIdentifier string    `json:"entity_identifier,omitempty"`
	OldStatus        string    `json:"old_status,omitempty"`
	NewStatus        string    `json:"new_status"`
	ReviewedBy       string    `json:"reviewed_by"`
	ReviewerName     string    `json:"reviewer_name,omitempty"`
	ReviewNotes      string    `json:"review_notes,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// UnifiedLog はシステム監査ログと承認履歴を1つのタイムラインに統合した表示用レコード。
// 2つのソースをクライアント側でマージして新しい順に並べる。
type UnifiedLog struct {
	ID               string
	Source           string // system または approval
	Action           string // create, update, delete, approve, reject, review
	EntityType       string
	EntityID         string
	EntityIdentifier string
	UserID           string
	Username         string
	Timestamp        time.Time
	Details          string
}
