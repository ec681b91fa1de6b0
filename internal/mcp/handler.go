package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/rpggio/casedesk/internal/transport"
)

// CaseService defines connected-case operations needed by the RPC surface.
type CaseService interface {
	OpenTask(task contact.Task, form *contact.TaskEntry) error
	Connect(ctx context.Context, taskSID string, caseID int64) (*casework.Case, error)
	Timeline(taskSID string) ([]activity.Activity, error)
	StableIndexAt(taskSID string, position int) (activity.Type, int, error)
	Details(taskSID string) (casework.Details, error)
	ChangeStatus(taskSID, status string) error
	UpdateInfo(taskSID string, mutate func(casework.Info) (casework.Info, error)) error
	Update(ctx context.Context, taskSID string) (*casework.Case, error)
	Cancel(ctx context.Context, taskSID string) error
	SaveAndEnd(ctx context.Context, taskSID string) error
	AddNote(taskSID, text string) error
	EditNote(taskSID string, stableIndex int, text string) error
	AddReferral(taskSID string, in connectedcase.ReferralInput) error
	EditReferral(taskSID string, stableIndex int, in connectedcase.ReferralInput) error
	SaveSectionEntry(taskSID string, section casework.Section, index *int, form map[string]any) error
	ViewActivity(taskSID string, typ activity.Type, stableIndex int) (*casework.TemporaryInfo, error)
}

// CaseListService defines case-list operations needed by the RPC surface.
type CaseListService interface {
	Facets(def *definition.Version) caselist.FacetState
	UpdateFilter(update caselist.FilterUpdate) (caselist.Filter, error)
	ApplyFacets(state caselist.FacetState) (caselist.Filter, error)
	ClearFilter() caselist.Filter
	SetPage(page int) error
	SetSort(sortBy, direction string) error
	List(ctx context.Context, helpline string) (*caselist.Page, error)
	Cached() (*caselist.Page, bool)
}

// ContactService defines contact search.
type ContactService interface {
	Search(ctx context.Context, params contact.SearchParams, limit, offset int) (*contact.SearchPage, error)
}

// TelemetryService lists recorded backend failures.
type TelemetryService interface {
	Recent(ctx context.Context, limit int) ([]telemetry.BackendError, error)
}

// Workspace exposes the agent state the handler reads directly.
type Workspace interface {
	Task(taskSID string) (connectedcase.TaskView, bool)
	Definition(version string) (*definition.Version, bool)
	Helpline() string
	Counselors() map[string]string
	CaseListSettings() caselist.Settings
}

// Services contains everything the handler dispatches to.
type Services struct {
	Cases     CaseService
	CaseList  CaseListService
	Contacts  ContactService
	Telemetry TelemetryService
	Workspace Workspace
}

// Handler dispatches RPC methods to domain services.
type Handler struct {
	svc    Services
	logger *slog.Logger
	now    func() time.Time
}

// NewHandler creates a new RPC handler.
func NewHandler(svc Services, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{svc: svc, logger: logger, now: time.Now}
}

// Handle dispatches a method. taskSID comes from the transport and wins over
// a task_sid param. tenantID only tags the call; every tenant shares the
// agent's store and backend.
func (h *Handler) Handle(ctx context.Context, tenantID, taskSID, method string, params json.RawMessage) (any, error) {
	h.logger.Debug("rpc call", "tenant_id", tenantID, "task_sid", taskSID, "method", method)

	switch method {
	case "task.open":
		var req OpenTaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Task.TaskSID == "" {
			req.Task.TaskSID = taskSID
		}
		if err := h.svc.Cases.OpenTask(req.Task, req.Form); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "task.set_form":
		var req SetFormParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		task := contact.Task{TaskSID: sid}
		if view, ok := h.svc.Workspace.Task(sid); ok {
			task = view.Task
		}
		if err := h.svc.Cases.OpenTask(task, req.Form); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.connect":
		var req ConnectCaseParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		c, err := h.svc.Cases.Connect(ctx, sid, req.CaseID)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "case.timeline":
		var req TaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req)
		if err != nil {
			return nil, mapError(err)
		}
		timeline, err := h.svc.Cases.Timeline(sid)
		if err != nil {
			return nil, mapError(err)
		}
		return TimelineResponse{Activities: activity.Views(timeline)}, nil
	case "case.stable_index":
		var req StableIndexParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		typ, idx, err := h.svc.Cases.StableIndexAt(sid, req.Position)
		if err != nil {
			return nil, mapError(err)
		}
		return StableIndexResponse{Type: typ, StableIndex: idx}, nil
	case "case.details":
		var req TaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req)
		if err != nil {
			return nil, mapError(err)
		}
		details, err := h.svc.Cases.Details(sid)
		if err != nil {
			return nil, mapError(err)
		}
		return details, nil
	case "case.status":
		var req ChangeStatusParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.svc.Cases.ChangeStatus(sid, req.Status); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.update_info":
		var req UpdateInfoParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.svc.Cases.UpdateInfo(sid, req.apply); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.update":
		var req TaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req)
		if err != nil {
			return nil, mapError(err)
		}
		c, err := h.svc.Cases.Update(ctx, sid)
		if err != nil {
			return nil, mapError(err)
		}
		return c, nil
	case "case.cancel":
		var req TaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.svc.Cases.Cancel(ctx, sid); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "cancelled"}, nil
	case "case.save_and_end":
		var req TaskParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.svc.Cases.SaveAndEnd(ctx, sid); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "completed"}, nil
	case "case.note.save":
		var req SaveNoteParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		if req.StableIndex == nil {
			err = h.svc.Cases.AddNote(sid, req.Text)
		} else {
			err = h.svc.Cases.EditNote(sid, *req.StableIndex, req.Text)
		}
		if err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.referral.save":
		var req SaveReferralParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		in := connectedcase.ReferralInput{Date: req.Date, ReferredTo: req.ReferredTo, Comments: req.Comments}
		if req.StableIndex == nil {
			err = h.svc.Cases.AddReferral(sid, in)
		} else {
			err = h.svc.Cases.EditReferral(sid, *req.StableIndex, in)
		}
		if err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.section.save":
		var req SaveSectionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		if err := h.svc.Cases.SaveSectionEntry(sid, req.Section, req.Index, req.Form); err != nil {
			return nil, mapError(err)
		}
		return StatusResponse{Status: "ok"}, nil
	case "case.activity.view":
		var req ViewActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		sid, err := resolveTask(taskSID, req.TaskParams)
		if err != nil {
			return nil, mapError(err)
		}
		temp, err := h.svc.Cases.ViewActivity(sid, req.Type, req.StableIndex)
		if err != nil {
			return nil, mapError(err)
		}
		return temp, nil
	case "caselist.facets":
		def, _ := h.svc.Workspace.Definition("")
		return h.svc.CaseList.Facets(def), nil
	case "caselist.update_filter":
		var req UpdateFilterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		filter, err := h.svc.CaseList.UpdateFilter(req.Update)
		if err != nil {
			return nil, mapError(err)
		}
		return filter, nil
	case "caselist.apply_facets":
		var req ApplyFacetsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		filter, err := h.svc.CaseList.ApplyFacets(req.Facets)
		if err != nil {
			return nil, mapError(err)
		}
		return filter, nil
	case "caselist.clear_filter":
		return h.svc.CaseList.ClearFilter(), nil
	case "caselist.list":
		var req ListCasesParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.listCases(ctx, req)
	case "contacts.search":
		var req SearchContactsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		page, err := h.svc.Contacts.Search(ctx, req.Search, req.Limit, req.Offset)
		if err != nil {
			return nil, mapError(err)
		}
		return page, nil
	case "telemetry.recent":
		var req RecentErrorsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		entries, err := h.svc.Telemetry.Recent(ctx, req.Limit)
		if err != nil {
			return nil, mapError(err)
		}
		return entries, nil
	default:
		return nil, fmt.Errorf("%w: %s", transport.ErrUnknownMethod, method)
	}
}

func (h *Handler) listCases(ctx context.Context, req ListCasesParams) (any, error) {
	if req.Page != nil {
		if err := h.svc.CaseList.SetPage(*req.Page); err != nil {
			return nil, mapError(err)
		}
	}
	if req.SortBy != "" || req.SortDirection != "" {
		current := h.svc.Workspace.CaseListSettings()
		sortBy, direction := req.SortBy, req.SortDirection
		if sortBy == "" {
			sortBy = current.SortBy
		}
		if direction == "" {
			direction = current.SortDirection
		}
		if err := h.svc.CaseList.SetSort(sortBy, direction); err != nil {
			return nil, mapError(err)
		}
	}

	var page *caselist.Page
	ok := false
	if req.Cached {
		page, ok = h.svc.CaseList.Cached()
	}
	if !ok {
		var err error
		page, err = h.svc.CaseList.List(ctx, h.svc.Workspace.Helpline())
		if err != nil {
			return nil, mapError(err)
		}
	}
	def, _ := h.svc.Workspace.Definition("")
	return CaseListResponse{
		Count: page.Count,
		Pages: caselist.PagesCount(page.Count),
		Page:  h.svc.Workspace.CaseListSettings().Page,
		Rows:  caselist.BuildRows(page.Cases, def, h.svc.Workspace.Counselors(), h.now()),
	}, nil
}

func (p UpdateInfoParams) apply(info casework.Info) (casework.Info, error) {
	if p.Summary != nil {
		info.Summary = *p.Summary
	}
	if p.FollowUpDate != nil {
		if d := *p.FollowUpDate; d != "" {
			if _, err := time.Parse(casework.ReferralDateLayout, d); err != nil {
				return info, fmt.Errorf("%w: follow up date %q", casework.ErrInvalidInput, d)
			}
		}
		info.FollowUpDate = *p.FollowUpDate
	}
	if p.ChildIsAtRisk != nil {
		info.ChildIsAtRisk = *p.ChildIsAtRisk
	}
	return info, nil
}

func resolveTask(fromTransport string, params TaskParams) (string, error) {
	if fromTransport != "" {
		return fromTransport, nil
	}
	if params.TaskSID != "" {
		return params.TaskSID, nil
	}
	return "", ErrMissingTask
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return &APIError{Code: "INVALID_INPUT", Message: fmt.Sprintf("invalid params: %v", err)}
	}
	return nil
}
