package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// ListPriceTiers は価格ティアの一覧を取得する。
// searchが空でない場合は検索クエリとして送信する。
func (c *Client) ListPriceTiers(ctx context.Context, search string) ([]model.PriceTier, error) {
	var query url.Values
	if search != "" {
		query = url.Values{"search": {search}}
	}

	var tiers []model.PriceTier
	if err := c.do(ctx, http.MethodGet, "/price-tiers/", query, nil, &tiers); err != nil {
		return nil, err
	}
	return tiers, nil
}

// GetPriceTier は価格ティアを1件取得する。
func (c *Client) GetPriceTier(ctx context.Context, id string) (*model.PriceTier, error) {
	var tier model.PriceTier
	if err := c.do(ctx, http.MethodGet, "/price-tiers/"+id, nil, nil, &tier); err != nil {
		return nil, err
	}
	return &tier, nil
}

// CreatePriceTier は価格ティアを新規作成する。
func (c *Client) CreatePriceTier(ctx context.Context, input model.PriceTierInput) (*model.PriceTier, error) {
	var created model.PriceTier
	if err := c.do(ctx, http.MethodPost, "/price-tiers/", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdatePriceTier は価格ティアを更新する。
func (c *Client) UpdatePriceTier(ctx context.Context, id string, input model.PriceTierInput) (*model.PriceTier, error) {
	var updated model.PriceTier
	if err := c.do(ctx, http.MethodPut, "/price-tiers/"+id, nil, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeletePriceTier は価格ティアを削除する。
func (c *Client) DeletePriceTier(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/price-tiers/"+id, nil, nil, nil)
}
