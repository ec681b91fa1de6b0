package contact_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/repository/mocks"
	"github.com/stretchr/testify/require"
)

func TestService_Search(t *testing.T) {
	ctx := context.Background()
	api := &mocks.ContactSearchAPI{}
	tel := &mocks.Telemetry{}
	svc := contact.NewService(api, tel, nil)

	params := contact.SearchParams{FirstName: "Zoe"}
	api.On("SearchContacts", ctx, params, contact.DefaultSearchLimit, 0).Return(&contact.SearchResult{
		Count: 1,
		Contacts: []contact.Contact{{
			ID:      5,
			Channel: "sms",
			RawJSON: contact.RawJSON{ChildInformation: map[string]any{"name": map[string]any{"firstName": "Zoe", "lastName": "Ray"}}},
		}},
	}, nil).Once()

	page, err := svc.Search(ctx, params, 0, 0)
	require.NoError(t, err)
	require.Equal(t, 1, page.Count)
	require.Equal(t, int64(5), page.Contacts[0].ContactID)
	require.Equal(t, "Zoe Ray", page.Contacts[0].Overview.Name)
	api.AssertExpectations(t)
}

func TestService_SearchFailure(t *testing.T) {
	ctx := context.Background()
	api := &mocks.ContactSearchAPI{}
	tel := &mocks.Telemetry{}
	svc := contact.NewService(api, tel, nil)

	boom := errors.New("bad gateway")
	api.On("SearchContacts", ctx, contact.SearchParams{}, 10, 20).Return(nil, boom).Once()
	tel.On("RecordBackendError", ctx, "Search Contacts", boom).Once()

	_, err := svc.Search(ctx, contact.SearchParams{}, 10, 20)
	require.ErrorIs(t, err, contact.ErrSearchFailed)
	require.ErrorIs(t, err, boom)
	tel.AssertExpectations(t)

	_, err = svc.Search(ctx, contact.SearchParams{}, -1, 0)
	require.ErrorIs(t, err, contact.ErrInvalidSearch)
}
