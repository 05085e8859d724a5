package backend

import (
	"context"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// GetDashboardStats はダッシュボード表示用の集計値を取得する。
func (c *Client) GetDashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	var stats model.DashboardStats
	if err := c.do(ctx, http.MethodGet, "/dashboard/stats", nil, nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
