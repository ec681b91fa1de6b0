package hrm

import (
	"context"
	"fmt"
	"net/http"

	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
)

var (
	_ connectedcase.ContactAPI = (*Client)(nil)
	_ contact.SearchAPI        = (*Client)(nil)
)

// SaveContact creates a contact.
func (c *Client) SaveContact(ctx context.Context, req contact.SaveRequest) (*contact.Contact, error) {
	var out contact.Contact
	if err := c.do(ctx, http.MethodPost, "/contacts", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectToCase links a contact to a case.
func (c *Client) ConnectToCase(ctx context.Context, contactID, caseID int64) (*contact.Contact, error) {
	body := struct {
		CaseID int64 `json:"caseId"`
	}{CaseID: caseID}

	var out contact.Contact
	if err := c.do(ctx, http.MethodPut, fmt.Sprintf("/contacts/%d/connectToCase", contactID), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SearchContacts runs a contact search.
func (c *Client) SearchContacts(ctx context.Context, params contact.SearchParams, limit, offset int) (*contact.SearchResult, error) {
	var out contact.SearchResult
	if err := c.do(ctx, http.MethodPost, "/contacts/search", pageQuery(limit, offset), params, &out); err != nil {
		return nil, err
	}
	if out.Contacts == nil {
		out.Contacts = []contact.Contact{}
	}
	return &out, nil
}
