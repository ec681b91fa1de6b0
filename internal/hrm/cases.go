package hrm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
)

var (
	_ connectedcase.CaseAPI = (*Client)(nil)
	_ caselist.ListAPI      = (*Client)(nil)
)

// GetCase fetches a case.
func (c *Client) GetCase(ctx context.Context, id int64) (*casework.Case, error) {
	var out casework.Case
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/cases/%d", id), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCase saves a case and returns the stored version.
func (c *Client) UpdateCase(ctx context.Context, cs *casework.Case) (*casework.Case, error) {
	var out casework.Case
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/cases/%d", cs.ID), nil, cs, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CancelCase deletes a case.
func (c *Client) CancelCase(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/cases/%d", id), nil, nil, nil)
}

// SearchCases runs a case-list query.
func (c *Client) SearchCases(ctx context.Context, req caselist.SearchRequest) (*caselist.Page, error) {
	q := pageQuery(req.Query.Limit, req.Query.Offset)
	if req.Query.SortBy != "" {
		q.Set("sortBy", req.Query.SortBy)
	}
	if req.Query.SortDirection != "" {
		q.Set("sortDirection", req.Query.SortDirection)
	}

	var out caselist.Page
	if err := c.do(ctx, http.MethodPost, "/cases/search", q, req, &out); err != nil {
		return nil, err
	}
	if out.Cases == nil {
		out.Cases = []casework.Case{}
	}
	return &out, nil
}
