package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/aidrigs/partsdb-console/internal/model"
)

// ListParts は部品一覧をページ指定で取得する。
// searchが空でない場合は検索クエリとして送信する。
func (c *Client) ListParts(ctx context.Context, page, pageSize int, search string) (*model.PartListPage, error) {
	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	if search != "" {
		query.Set("search", search)
	}

	var result model.PartListPage
	if err := c.do(ctx, http.MethodGet, "/parts/", query, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetPart は部品を1件取得する。
func (c *Client) GetPart(ctx context.Context, id string) (*model.Part, error) {
	var part model.Part
	if err := c.do(ctx, http.MethodGet, "/parts/"+id, nil, nil, &part); err != nil {
		return nil, err
	}
	return &part, nil
}
