package caselist_test

import (
	"testing"
	"time"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2021, 6, 16, 15, 0, 0, 0, time.UTC) // a Wednesday

func listedCase(id int64, status, worker, child string, created time.Time, categories map[string]any) casework.Case {
	return casework.Case{
		ID:             id,
		Status:         status,
		TwilioWorkerID: worker,
		CreatedAt:      created,
		UpdatedAt:      created,
		ConnectedContacts: []contact.Contact{{
			ID: id * 10,
			RawJSON: contact.RawJSON{
				ChildInformation: map[string]any{"name": map[string]any{"firstName": child, "lastName": ""}},
				CaseInformation:  map[string]any{"categories": categories},
			},
		}},
	}
}

func sampleCases() []casework.Case {
	violence := map[string]any{"Violence": map[string]any{"Bullying": true}}
	health := map[string]any{"Health": map[string]any{"Sleep": true}}
	return []casework.Case{
		listedCase(1, "open", "WK1", "Zoe", now.AddDate(0, 0, -1), violence),
		listedCase(2, "closed", "WK1", "amy", now.AddDate(0, 0, -10), health),
		listedCase(3, "open", "WK2", "Bea", now, health),
		{ID: 4, Status: "open", TwilioWorkerID: "WK1", CreatedAt: now, UpdatedAt: now},
	}
}

func ids(page caselist.Page) []int64 {
	out := make([]int64, len(page.Cases))
	for i, c := range page.Cases {
		out[i] = c.ID
	}
	return out
}

func TestApply_AndAcrossFacetsOrWithin(t *testing.T) {
	q := caselist.ListQuery{SortBy: caselist.SortByID, SortDirection: caselist.SortASC}

	f := caselist.EmptyFilter()
	f.Statuses = []string{"open", "closed"}
	f.Counsellors = []string{"WK1"}
	require.Equal(t, []int64{1, 2}, ids(caselist.Apply(f, sampleCases(), q)))

	f.Categories = []caselist.CategoryFilter{{Category: "Health", Subcategory: "Sleep"}, {Category: "Health", Subcategory: "Other"}}
	require.Equal(t, []int64{2}, ids(caselist.Apply(f, sampleCases(), q)))

	f.IncludeOrphans = true
	f.Categories = nil
	require.Equal(t, []int64{1, 2, 4}, ids(caselist.Apply(f, sampleCases(), q)))
}

func TestApply_HalfOpenDateRange(t *testing.T) {
	q := caselist.ListQuery{SortBy: caselist.SortByID, SortDirection: caselist.SortASC}
	today, err := caselist.ResolvePreset(caselist.DateFieldCreatedAt, caselist.OptionToday, now)
	require.NoError(t, err)

	f := caselist.EmptyFilter()
	f.CreatedAt = &today
	require.Equal(t, []int64{3}, ids(caselist.Apply(f, sampleCases(), q)))

	yesterday, err := caselist.ResolvePreset(caselist.DateFieldCreatedAt, caselist.OptionYesterday, now)
	require.NoError(t, err)
	require.True(t, yesterday.Contains(yesterday.From))
	require.False(t, yesterday.Contains(yesterday.To))
	f.CreatedAt = &yesterday
	require.Equal(t, []int64{1}, ids(caselist.Apply(f, sampleCases(), q)))
}

func TestApply_FollowUpDate(t *testing.T) {
	cases := sampleCases()
	cases[0].Info.FollowUpDate = "2021-06-10"
	cases[2].Info.FollowUpDate = "2021-06-18"

	overdue, err := caselist.ResolvePreset(caselist.DateFieldFollowUpDate, caselist.OptionOverdue, now)
	require.NoError(t, err)
	f := caselist.EmptyFilter()
	f.FollowUpDate = &overdue
	require.Equal(t, []int64{1}, ids(caselist.Apply(f, cases, caselist.ListQuery{})))

	next, err := caselist.ResolvePreset(caselist.DateFieldFollowUpDate, caselist.OptionNext7Days, now)
	require.NoError(t, err)
	f.FollowUpDate = &next
	require.Equal(t, []int64{3}, ids(caselist.Apply(f, cases, caselist.ListQuery{})))
}

func TestApply_SortAndPaginate(t *testing.T) {
	f := caselist.EmptyFilter()

	byName := caselist.Apply(f, sampleCases(), caselist.ListQuery{SortBy: caselist.SortByChildName, SortDirection: caselist.SortASC})
	require.Equal(t, []int64{2, 3, 1}, ids(byName))
	require.Equal(t, 3, byName.Count)

	newest := caselist.Apply(f, sampleCases(), caselist.ListQuery{SortBy: caselist.SortByCreatedAt, SortDirection: caselist.SortDESC, Limit: 2})
	require.Equal(t, []int64{3, 1}, ids(newest))

	second := caselist.Apply(f, sampleCases(), caselist.ListQuery{SortBy: caselist.SortByCreatedAt, SortDirection: caselist.SortDESC, Limit: 2, Offset: 2})
	require.Equal(t, []int64{2}, ids(second))
	require.Equal(t, 3, second.Count)

	past := caselist.Apply(f, sampleCases(), caselist.ListQuery{Offset: 10})
	require.Empty(t, past.Cases)
	require.NotNil(t, past.Cases)
}

func TestResolvePreset(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2021, 6, d, 0, 0, 0, 0, time.UTC) }

	cases := []struct {
		field    caselist.DateField
		option   string
		from, to time.Time
	}{
		{caselist.DateFieldCreatedAt, caselist.OptionThisWeek, day(13), day(17)},
		{caselist.DateFieldCreatedAt, caselist.OptionPast7Days, day(10), day(17)},
		{caselist.DateFieldUpdatedAt, caselist.OptionThisMonth, day(1), day(17)},
		{caselist.DateFieldUpdatedAt, caselist.OptionPast30Days, time.Date(2021, 5, 18, 0, 0, 0, 0, time.UTC), day(17)},
		{caselist.DateFieldFollowUpDate, caselist.OptionNext7Days, day(16), day(23)},
		{caselist.DateFieldFollowUpDate, caselist.OptionOverdue, time.Time{}, day(16)},
	}
	for _, tc := range cases {
		t.Run(tc.option, func(t *testing.T) {
			r, err := caselist.ResolvePreset(tc.field, tc.option, now)
			require.NoError(t, err)
			require.Equal(t, tc.option, r.Option)
			require.True(t, tc.from.Equal(r.From), "from %s", r.From)
			require.True(t, tc.to.Equal(r.To), "to %s", r.To)
		})
	}

	_, err := caselist.ResolvePreset(caselist.DateFieldFollowUpDate, caselist.OptionYesterday, now)
	require.ErrorIs(t, err, caselist.ErrUnknownDateOption)

	_, err = caselist.CustomRange(day(5), day(5))
	require.ErrorIs(t, err, caselist.ErrInvalidRange)
	r, err := caselist.CustomRange(day(5), time.Time{})
	require.NoError(t, err)
	require.True(t, r.Contains(day(30)))
}

func TestPageQuery(t *testing.T) {
	q := caselist.PageQuery(2, caselist.SortByID, caselist.SortASC)
	require.Equal(t, caselist.ListQuery{Limit: 5, Offset: 10, SortBy: "id", SortDirection: "ASC"}, q)
	require.Equal(t, 0, caselist.PageQuery(-1, "", "").Offset)
	require.Equal(t, 3, caselist.PagesCount(11))
	require.Equal(t, 0, caselist.PagesCount(0))
	require.ErrorIs(t, caselist.ValidateSort("color", caselist.SortASC), caselist.ErrInvalidQuery)
	require.ErrorIs(t, caselist.ValidateSort(caselist.SortByID, "up"), caselist.ErrInvalidQuery)
}

func TestBuildRows(t *testing.T) {
	cases := sampleCases()
	cases[0].Info.Summary = ""
	cases[0].UpdatedAt = now.Add(-3 * time.Hour)

	rows := caselist.BuildRows(cases, nil, map[string]string{"WK1": "Alice"}, now)
	require.Len(t, rows, 4)
	require.Equal(t, "Zoe", rows[0].ChildName)
	require.Equal(t, "Alice", rows[0].Counselor)
	require.Equal(t, "Unknown", rows[2].Counselor)
	require.Equal(t, "3 hours ago", rows[0].Updated)
	require.Equal(t, "- No case summary -", rows[0].Summary)
	require.Equal(t, []string{"Bullying"}, rows[0].Categories)
	require.Equal(t, "Unknown", rows[3].ChildName)
	require.Equal(t, []string{}, rows[3].Categories)
}
