package backend

import (
	"context"
	"net/http"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// ListCategories は全カテゴリを取得する。
func (c *Client) ListCategories(ctx context.Context) ([]model.Category, error) {
	var categories []model.Category
	if err := c.do(ctx, http.MethodGet, "/categories/", nil, nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory はカテゴリを新規作成する。
func (c *Client) CreateCategory(ctx context.Context, input model.CategoryInput) (*model.Category, error) {
	var created model.Category
	if err := c.do(ctx, http.MethodPost, "/categories/", nil, input, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory はカテゴリを更新する。
func (c *Client) UpdateCategory(ctx context.Context, id string, input model.CategoryInput) (*model.Category, error) {
	var updated model.Category
	if err := c.do(ctx, http.MethodPut, "/categories/"+id, nil, input, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory はカテゴリを削除する。
func (c *Client) DeleteCategory(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/categories/"+id, nil, nil, nil)
}
