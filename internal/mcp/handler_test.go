package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/store"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/rpggio/casedesk/internal/transport"
	"github.com/stretchr/testify/require"
)

type caseStub struct {
	openFn         func(contact.Task, *contact.TaskEntry) error
	connectFn      func(context.Context, string, int64) (*casework.Case, error)
	timelineFn     func(string) ([]activity.Activity, error)
	stableIndexFn  func(string, int) (activity.Type, int, error)
	detailsFn      func(string) (casework.Details, error)
	statusFn       func(string, string) error
	updateInfoFn   func(string, func(casework.Info) (casework.Info, error)) error
	updateFn       func(context.Context, string) (*casework.Case, error)
	cancelFn       func(context.Context, string) error
	saveAndEndFn   func(context.Context, string) error
	addNoteFn      func(string, string) error
	editNoteFn     func(string, int, string) error
	addReferralFn  func(string, connectedcase.ReferralInput) error
	editReferralFn func(string, int, connectedcase.ReferralInput) error
	sectionFn      func(string, casework.Section, *int, map[string]any) error
	viewFn         func(string, activity.Type, int) (*casework.TemporaryInfo, error)
}

func (c caseStub) OpenTask(task contact.Task, form *contact.TaskEntry) error {
	return c.openFn(task, form)
}
func (c caseStub) Connect(ctx context.Context, taskSID string, caseID int64) (*casework.Case, error) {
	return c.connectFn(ctx, taskSID, caseID)
}
func (c caseStub) Timeline(taskSID string) ([]activity.Activity, error) {
	return c.timelineFn(taskSID)
}
func (c caseStub) StableIndexAt(taskSID string, position int) (activity.Type, int, error) {
	return c.stableIndexFn(taskSID, position)
}
func (c caseStub) Details(taskSID string) (casework.Details, error) {
	return c.detailsFn(taskSID)
}
func (c caseStub) ChangeStatus(taskSID, status string) error {
	return c.statusFn(taskSID, status)
}
func (c caseStub) UpdateInfo(taskSID string, mutate func(casework.Info) (casework.Info, error)) error {
	return c.updateInfoFn(taskSID, mutate)
}
func (c caseStub) Update(ctx context.Context, taskSID string) (*casework.Case, error) {
	return c.updateFn(ctx, taskSID)
}
func (c caseStub) Cancel(ctx context.Context, taskSID string) error {
	return c.cancelFn(ctx, taskSID)
}
func (c caseStub) SaveAndEnd(ctx context.Context, taskSID string) error {
	return c.saveAndEndFn(ctx, taskSID)
}
func (c caseStub) AddNote(taskSID, text string) error {
	return c.addNoteFn(taskSID, text)
}
func (c caseStub) EditNote(taskSID string, stableIndex int, text string) error {
	return c.editNoteFn(taskSID, stableIndex, text)
}
func (c caseStub) AddReferral(taskSID string, in connectedcase.ReferralInput) error {
	return c.addReferralFn(taskSID, in)
}
func (c caseStub) EditReferral(taskSID string, stableIndex int, in connectedcase.ReferralInput) error {
	return c.editReferralFn(taskSID, stableIndex, in)
}
func (c caseStub) SaveSectionEntry(taskSID string, section casework.Section, index *int, form map[string]any) error {
	return c.sectionFn(taskSID, section, index, form)
}
func (c caseStub) ViewActivity(taskSID string, typ activity.Type, stableIndex int) (*casework.TemporaryInfo, error) {
	return c.viewFn(taskSID, typ, stableIndex)
}

type caseListStub struct {
	facetsFn  func(*definition.Version) caselist.FacetState
	updateFn  func(caselist.FilterUpdate) (caselist.Filter, error)
	applyFn   func(caselist.FacetState) (caselist.Filter, error)
	clearFn   func() caselist.Filter
	setPageFn func(int) error
	setSortFn func(string, string) error
	listFn    func(context.Context, string) (*caselist.Page, error)
	cachedFn  func() (*caselist.Page, bool)
}

func (c caseListStub) Facets(def *definition.Version) caselist.FacetState { return c.facetsFn(def) }
func (c caseListStub) UpdateFilter(update caselist.FilterUpdate) (caselist.Filter, error) {
	return c.updateFn(update)
}
func (c caseListStub) ApplyFacets(state caselist.FacetState) (caselist.Filter, error) {
	return c.applyFn(state)
}
func (c caseListStub) ClearFilter() caselist.Filter           { return c.clearFn() }
func (c caseListStub) SetPage(page int) error                 { return c.setPageFn(page) }
func (c caseListStub) SetSort(sortBy, direction string) error { return c.setSortFn(sortBy, direction) }
func (c caseListStub) List(ctx context.Context, helpline string) (*caselist.Page, error) {
	return c.listFn(ctx, helpline)
}
func (c caseListStub) Cached() (*caselist.Page, bool) {
	if c.cachedFn == nil {
		return nil, false
	}
	return c.cachedFn()
}

type contactStub struct {
	searchFn func(context.Context, contact.SearchParams, int, int) (*contact.SearchPage, error)
}

func (c contactStub) Search(ctx context.Context, params contact.SearchParams, limit, offset int) (*contact.SearchPage, error) {
	return c.searchFn(ctx, params, limit, offset)
}

type telemetryStub struct {
	recentFn func(context.Context, int) ([]telemetry.BackendError, error)
}

func (t telemetryStub) Recent(ctx context.Context, limit int) ([]telemetry.BackendError, error) {
	return t.recentFn(ctx, limit)
}

func newHandler(cases CaseService, list CaseListService) (*Handler, *store.Store) {
	st := store.New(store.InitialState("WK1", "Line A", "v1"), nil)
	return NewHandler(Services{
		Cases:     cases,
		CaseList:  list,
		Contacts:  contactStub{},
		Telemetry: telemetryStub{},
		Workspace: st,
	}, nil), st
}

func mustJSON(t *testing.T, v any) json.RawMessage {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	return data
}

func requireCode(t *testing.T, err error, code string) {
	t.Helper()
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "expected APIError, got %v", err)
	require.Equal(t, code, apiErr.Code)
}

func TestHandler_TaskSIDResolution(t *testing.T) {
	ctx := context.Background()
	var seen []string
	h, _ := newHandler(caseStub{
		detailsFn: func(sid string) (casework.Details, error) {
			seen = append(seen, sid)
			return casework.Details{ID: 7}, nil
		},
	}, caseListStub{})

	_, err := h.Handle(ctx, "tenant1", "T-header", "case.details", mustJSON(t, TaskParams{TaskSID: "T-param"}))
	require.NoError(t, err)
	_, err = h.Handle(ctx, "tenant1", "", "case.details", mustJSON(t, TaskParams{TaskSID: "T-param"}))
	require.NoError(t, err)
	require.Equal(t, []string{"T-header", "T-param"}, seen)

	_, err = h.Handle(ctx, "tenant1", "", "case.details", nil)
	requireCode(t, err, "INVALID_INPUT")
}

func TestHandler_ErrorCodes(t *testing.T) {
	ctx := context.Background()
	h, _ := newHandler(caseStub{
		statusFn: func(string, string) error {
			return fmt.Errorf("closed -> referred: %w", casework.ErrInvalidTransition)
		},
		updateFn: func(context.Context, string) (*casework.Case, error) {
			return nil, casework.ErrOperationInProgress
		},
		cancelFn: func(context.Context, string) error {
			return fmt.Errorf("%w: Cancel Case: %w", casework.ErrBackend, errors.New("502"))
		},
		timelineFn: func(string) ([]activity.Activity, error) {
			return nil, connectedcase.ErrCaseNotConnected
		},
	}, caseListStub{})

	_, err := h.Handle(ctx, "tenant1", "T1", "case.status", mustJSON(t, ChangeStatusParams{Status: "referred"}))
	requireCode(t, err, "INVALID_TRANSITION")

	_, err = h.Handle(ctx, "tenant1", "T1", "case.update", nil)
	requireCode(t, err, "IN_PROGRESS")

	_, err = h.Handle(ctx, "tenant1", "T1", "case.cancel", nil)
	requireCode(t, err, "BACKEND_ERROR")

	_, err = h.Handle(ctx, "tenant1", "T1", "case.timeline", nil)
	requireCode(t, err, "CASE_NOT_CONNECTED")

	_, err = h.Handle(ctx, "tenant1", "T1", "case.status", json.RawMessage(`{"status":`))
	requireCode(t, err, "INVALID_INPUT")

	_, err = h.Handle(ctx, "tenant1", "T1", "nope", nil)
	require.ErrorIs(t, err, transport.ErrUnknownMethod)
}

func TestHandler_SaveNoteAddsOrEdits(t *testing.T) {
	ctx := context.Background()
	var calls []string
	h, _ := newHandler(caseStub{
		addNoteFn: func(sid, text string) error {
			calls = append(calls, "add:"+text)
			return nil
		},
		editNoteFn: func(sid string, idx int, text string) error {
			calls = append(calls, fmt.Sprintf("edit:%d:%s", idx, text))
			return nil
		},
	}, caseListStub{})

	_, err := h.Handle(ctx, "tenant1", "T1", "case.note.save", mustJSON(t, SaveNoteParams{Text: "new"}))
	require.NoError(t, err)
	idx := 1
	_, err = h.Handle(ctx, "tenant1", "T1", "case.note.save", mustJSON(t, SaveNoteParams{StableIndex: &idx, Text: "fixed"}))
	require.NoError(t, err)
	require.Equal(t, []string{"add:new", "edit:1:fixed"}, calls)
}

func TestHandler_UpdateInfo(t *testing.T) {
	ctx := context.Background()
	var got casework.Info
	h, _ := newHandler(caseStub{
		updateInfoFn: func(_ string, mutate func(casework.Info) (casework.Info, error)) error {
			info, err := mutate(casework.Info{Summary: "old", FollowUpDate: "2021-06-01"})
			if err != nil {
				return err
			}
			got = info
			return nil
		},
	}, caseListStub{})

	summary, atRisk := "new", true
	_, err := h.Handle(ctx, "tenant1", "T1", "case.update_info", mustJSON(t, UpdateInfoParams{Summary: &summary, ChildIsAtRisk: &atRisk}))
	require.NoError(t, err)
	require.Equal(t, casework.Info{Summary: "new", FollowUpDate: "2021-06-01", ChildIsAtRisk: true}, got)

	bad := "06/01/2021"
	_, err = h.Handle(ctx, "tenant1", "T1", "case.update_info", mustJSON(t, UpdateInfoParams{FollowUpDate: &bad}))
	requireCode(t, err, "INVALID_INPUT")
}

func TestHandler_TimelineViews(t *testing.T) {
	ctx := context.Background()
	day := time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC)
	h, _ := newHandler(caseStub{
		timelineFn: func(string) ([]activity.Activity, error) {
			return []activity.Activity{
				&activity.Note{Meta: activity.Meta{Date: day, Text: "a"}, SourceIndex: 0},
				&activity.Referral{Meta: activity.Meta{Date: day.Add(time.Hour), Text: "Clinic"}, SourceIndex: 0},
				&activity.Note{Meta: activity.Meta{Date: day.Add(2 * time.Hour), Text: "b"}, SourceIndex: 1},
			}, nil
		},
	}, caseListStub{})

	result, err := h.Handle(ctx, "tenant1", "T1", "case.timeline", nil)
	require.NoError(t, err)
	views := result.(TimelineResponse).Activities
	require.Len(t, views, 3)
	require.Equal(t, 1, views[2].StableIndex)
	require.Equal(t, 2, views[2].Position)
	require.Equal(t, activity.TypeReferral, views[1].Type)
}

func TestHandler_CaseListKeepsCurrentSortDirection(t *testing.T) {
	ctx := context.Background()
	var sorted [2]string
	var helpline string
	h, st := newHandler(caseStub{}, caseListStub{
		setPageFn: func(int) error { return nil },
		setSortFn: func(sortBy, direction string) error {
			sorted = [2]string{sortBy, direction}
			return nil
		},
		listFn: func(_ context.Context, hl string) (*caselist.Page, error) {
			helpline = hl
			return &caselist.Page{Count: 11, Cases: []casework.Case{{ID: 3, Status: "open"}}}, nil
		},
	})
	st.SetCounselors(map[string]string{"WK1": "Alice"})

	result, err := h.Handle(ctx, "tenant1", "", "caselist.list", mustJSON(t, ListCasesParams{SortBy: caselist.SortByID}))
	require.NoError(t, err)
	require.Equal(t, [2]string{caselist.SortByID, caselist.SortDESC}, sorted)
	require.Equal(t, "Line A", helpline)

	resp := result.(CaseListResponse)
	require.Equal(t, 11, resp.Count)
	require.Equal(t, caselist.PagesCount(11), resp.Pages)
	require.Len(t, resp.Rows, 1)
	require.Equal(t, int64(3), resp.Rows[0].ID)
}

func TestHandler_CaseListCachedSkipsQuery(t *testing.T) {
	ctx := context.Background()
	queried := 0
	cached := &caselist.Page{Count: 1, Cases: []casework.Case{{ID: 9, Status: "open"}}}
	loaded := true
	h, _ := newHandler(caseStub{}, caseListStub{
		listFn: func(context.Context, string) (*caselist.Page, error) {
			queried++
			return &caselist.Page{Count: 2, Cases: []casework.Case{{ID: 1}, {ID: 2}}}, nil
		},
		cachedFn: func() (*caselist.Page, bool) { return cached, loaded },
	})

	result, err := h.Handle(ctx, "tenant1", "", "caselist.list", mustJSON(t, ListCasesParams{Cached: true}))
	require.NoError(t, err)
	require.Zero(t, queried)
	require.Equal(t, int64(9), result.(CaseListResponse).Rows[0].ID)

	loaded = false
	result, err = h.Handle(ctx, "tenant1", "", "caselist.list", mustJSON(t, ListCasesParams{Cached: true}))
	require.NoError(t, err)
	require.Equal(t, 1, queried)
	require.Equal(t, 2, result.(CaseListResponse).Count)

	_, err = h.Handle(ctx, "tenant1", "", "caselist.list", nil)
	require.NoError(t, err)
	require.Equal(t, 2, queried)
}

func TestHandler_ApplyFacets(t *testing.T) {
	ctx := context.Background()
	st := store.New(store.InitialState("WK1", "Line A", "v1"), nil)
	st.SetCounselors(map[string]string{"WK1": "Alice", "WK2": "Bob"})
	now := time.Date(2021, 6, 10, 9, 0, 0, 0, time.UTC)
	list := caselist.NewService(nil, st, nil, nil).WithClock(func() time.Time { return now })
	h := NewHandler(Services{Cases: caseStub{}, CaseList: list, Contacts: contactStub{}, Telemetry: telemetryStub{}, Workspace: st}, nil)

	result, err := h.Handle(ctx, "tenant1", "", "caselist.facets", nil)
	require.NoError(t, err)
	facets := result.(caselist.FacetState)
	require.Len(t, facets.Counselors, 2)
	facets.Counselors[1].Checked = true
	facets.Dates.FollowUpDate = &caselist.DateRange{Option: caselist.OptionToday}

	result, err = h.Handle(ctx, "tenant1", "", "caselist.apply_facets", mustJSON(t, ApplyFacetsParams{Facets: facets}))
	require.NoError(t, err)
	filter := result.(caselist.Filter)
	require.Equal(t, []string{"WK2"}, filter.Counsellors)
	require.Equal(t, time.Date(2021, 6, 11, 0, 0, 0, 0, time.UTC), filter.FollowUpDate.To)
	require.Equal(t, filter, st.CaseListSettings().Filter)

	facets.Dates.FollowUpDate = &caselist.DateRange{Option: caselist.OptionPast30Days}
	_, err = h.Handle(ctx, "tenant1", "", "caselist.apply_facets", mustJSON(t, ApplyFacetsParams{Facets: facets}))
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)

	_, err = h.Handle(ctx, "tenant1", "", "caselist.update_filter", mustJSON(t, UpdateFilterParams{Update: caselist.FilterUpdate{
		Dates: map[caselist.DateField]*caselist.DateRange{caselist.DateFieldCreatedAt: {From: now, To: now}},
	}}))
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, "INVALID_INPUT", apiErr.Code)
}

func TestHandler_SetFormKeepsTask(t *testing.T) {
	ctx := context.Background()
	var opened []contact.Task
	h, st := newHandler(caseStub{
		openFn: func(task contact.Task, _ *contact.TaskEntry) error {
			opened = append(opened, task)
			return nil
		},
	}, caseListStub{})
	st.SetForm(contact.Task{TaskSID: "T1", ChannelType: contact.ChannelSMS}, nil)

	_, err := h.Handle(ctx, "tenant1", "T1", "task.set_form", mustJSON(t, SetFormParams{Form: &contact.TaskEntry{CallType: contact.CallTypeChild}}))
	require.NoError(t, err)
	require.Equal(t, []contact.Task{{TaskSID: "T1", ChannelType: contact.ChannelSMS}}, opened)
}

func TestToolError_CarriesCode(t *testing.T) {
	res := toolError(casework.ErrCannotCancel)
	require.True(t, res.IsError)
	require.Len(t, res.Content, 1)

	res = toolError(errors.New("boom"))
	require.True(t, res.IsError)
}
