package backend

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// approvalFetchLimit は統合ビュー用に取得する承認履歴の件数。
// 2つのソースをまたぐ正確なページネーションはバックエンド対応が必要なため、
// 直近の承認履歴を固定件数だけ取り込んでマージする。
const approvalFetchLimit = 100

// AuditLogFilter は監査ログの絞り込み条件。ゼロ値のフィールドは送信しない。
type AuditLogFilter struct {
	Action     string
	EntityType string
	UserID     string
	StartDate  time.Time
	EndDate    time.Time
}

// SystemLogs はシステム監査ログをページ指定で取得する。
func (c *Client) SystemLogs(ctx context.Context, page, pageSize int, filter AuditLogFilter) (*model.AuditLogPage, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	if filter.Action != "" {
		query.Set("action", filter.Action)
	}
	if filter.EntityType != "" {
		query.Set("entity_type", filter.EntityType)
	}
	if filter.UserID != "" {
		query.Set("user_id", filter.UserID)
	}
	if !filter.StartDate.IsZero() {
		query.Set("start_date", filter.StartDate.Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		query.Set("end_date", filter.EndDate.Format(time.RFC3339))
	}

	var result model.AuditLogPage
	if err := c.do(ctx, http.MethodGet, "/audit-logs/", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ApprovalLogs は承認ワークフローの履歴を取得する。
func (c *Client) ApprovalLogs(ctx context.Context, skip, limit int, filter AuditLogFilter) ([]model.ApprovalLog, error) {
	query := url.Values{
		"skip":  {strconv.Itoa(skip)},
		"limit": {strconv.Itoa(limit)},
	}
	if filter.EntityType != "" {
		query.Set("entity_type", filter.EntityType)
	}
	if !filter.StartDate.IsZero() {
		query.Set("start_date", filter.StartDate.Format(time.RFC3339))
	}
	if !filter.EndDate.IsZero() {
		query.Set("end_date", filter.EndDate.Format(time.RFC3339))
	}

	var logs []model.ApprovalLog
	if err := c.do(ctx, http.MethodGet, "/approvals/logs", query, nil, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}

// UnifiedLogs はシステム監査ログと承認履歴を取得してマージし、
// 新しい順に並べた統合タイムラインを返す。
func (c *Client) UnifiedLogs(ctx context.Context, page, pageSize int, filter AuditLogFilter) ([]model.UnifiedLog, int, error) {
	systemPage, err := c.SystemLogs(ctx, page, pageSize, filter)
	if err != nil {
		return nil, 0, err
	}
	approvals, err := c.ApprovalLogs(ctx, 0, approvalFetchLimit, filter)
	if err != nil {
		return nil, 0, err
	}

	merged := MergeLogs(systemPage.Items, approvals)
	return merged, systemPage.Total + len(approvals), nil
}

// MergeLogs は2種類のログを統合レコードに変換し、タイムスタンプ降順で返す。
// 同時刻のレコードはシステムログを先に並べる（安定ソート）。
func MergeLogs(system []model.SystemAuditLog, approvals []model.ApprovalLog) []model.UnifiedLog {
	merged := make([]model.UnifiedLog, 0, len(system)+len(approvals))

	for _, l := range system {
		merged = append(merged, model.UnifiedLog{
			ID:               l.ID,
			Source:           "system",
			Action:           l.Action,
			EntityType:       l.EntityType,
			EntityID:         l.EntityID,
			EntityIdentifier: l.EntityIdentifier,
			UserID:           l.UserID,
			Username:         l.Username,
			Timestamp:        l.CreatedAt,
			Details:          string(l.Changes),
		})
	}

	for _, l := range approvals {
		username := l.ReviewerName
		if username == "" {
			username = l.ReviewedBy
		}
		merged = append(merged, model.UnifiedLog{
			ID:               l.ID,
			Source:           "approval",
			Action:           approvalAction(l.NewStatus),
			EntityType:       l.EntityType,
			EntityID:         l.EntityID,
			EntityIdentifier: l.EntityIdentifier,
			UserID:           l.ReviewedBy,
			Username:         username,
			Timestamp:        l.CreatedAt,
			Details:          l.ReviewNotes,
		})
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})

	return merged
}

// approvalAction は承認ステータスを表示用のアクション名に変換する。
func approvalAction(newStatus string) string {
	switch newStatus {
	case "APPROVED":
		return "approve"
	case "REJECTED":
		return "reject"
	default:
		return "review"
	}
}
