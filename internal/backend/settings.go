package backend

import (
	"context"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// ListSettings は全システム設定を取得する。
func (c *Client) ListSettings(ctx context.Context) ([]model.SystemSetting, error) {
	var settings []model.SystemSetting
	if err := c.do(ctx, http.MethodGet, "/settings/", nil, nil, &settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// UpdateSetting はシステム設定を更新する。
func (c *Client) UpdateSetting(ctx context.Context, key string, update model.SettingUpdate) (*model.SystemSetting, error) {
	var updated model.SystemSetting
	if err := c.do(ctx, http.MethodPut, "/settings/"+key, nil, update, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// CreateSetting はシステム設定を新規作成する。
func (c *Client) CreateSetting(ctx context.Context, setting model.SystemSetting) (*model.SystemSetting, error) {
	var created model.SystemSetting
	if err := c.do(ctx, http.MethodPost, "/settings/", nil, setting, &created); err != nil {
		return nil, err
	}
	return &created, nil
}
