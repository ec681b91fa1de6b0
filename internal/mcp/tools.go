package mcp

import (
	"context"
	"encoding/json"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// ToolDefinition describes one RPC method exposed as an MCP tool.
type ToolDefinition struct {
	Name        string
	Description string
	InputSchema map[string]any
}

func object(properties map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func prop(typ, description string) map[string]any {
	return map[string]any{"type": typ, "description": description}
}

func taskProps(extra map[string]any) map[string]any {
	props := map[string]any{
		"task_sid": prop("string", "Task SID (omit when passed as _meta.task_sid)"),
	}
	for k, v := range extra {
		props[k] = v
	}
	return props
}

// buildToolCatalog returns all available tools.
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Tasks
		{
			Name:        "task.open",
			Description: "Register a task with its in-progress contact form",
			InputSchema: object(map[string]any{
				"task": object(map[string]any{
					"taskSid":     prop("string", "Task SID"),
					"channelType": prop("string", "Channel (voice, sms, web, default, ...)"),
					"defaultFrom": prop("string", "Caller identifier"),
				}, "taskSid"),
				"form": prop("object", "In-progress contact form"),
			}, "task"),
		},
		{
			Name:        "task.set_form",
			Description: "Replace the in-progress contact form of a task",
			InputSchema: object(taskProps(map[string]any{
				"form": prop("object", "In-progress contact form"),
			}), "form"),
		},

		// Connected case
		{
			Name:        "case.connect",
			Description: "Fetch a case from HRM and connect it to the task",
			InputSchema: object(taskProps(map[string]any{
				"case_id": prop("integer", "HRM case ID"),
			}), "case_id"),
		},
		{
			Name:        "case.timeline",
			Description: "List the connected case's activities, oldest first, with stable indexes",
			InputSchema: object(taskProps(nil)),
		},
		{
			Name:        "case.stable_index",
			Description: "Translate a timeline position into its activity type and stable index",
			InputSchema: object(taskProps(map[string]any{
				"position": prop("integer", "Zero-based timeline position"),
			}), "position"),
		},
		{
			Name:        "case.details",
			Description: "Get the case details view of the connected case",
			InputSchema: object(taskProps(nil)),
		},
		{
			Name:        "case.status",
			Description: "Change the connected case's status; only transitions allowed by the definition are accepted",
			InputSchema: object(taskProps(map[string]any{
				"status": prop("string", "Target status value"),
			}), "status"),
		},
		{
			Name:        "case.update_info",
			Description: "Edit summary, follow-up date or at-risk flag of the connected case",
			InputSchema: object(taskProps(map[string]any{
				"summary":          prop("string", "Case summary"),
				"follow_up_date":   prop("string", "Follow-up date (yyyy-mm-dd, empty to clear)"),
				"child_is_at_risk": prop("boolean", "Child at risk flag"),
			})),
		},
		{
			Name:        "case.update",
			Description: "Save the connected case's edits to HRM",
			InputSchema: object(taskProps(nil)),
		},
		{
			Name:        "case.cancel",
			Description: "Cancel a new, never-updated open case",
			InputSchema: object(taskProps(nil)),
		},
		{
			Name:        "case.save_and_end",
			Description: "Save the contact, update and link the case, then complete the task",
			InputSchema: object(taskProps(nil)),
		},
		{
			Name:        "case.note.save",
			Description: "Add a counsellor note, or edit the note at stable_index",
			InputSchema: object(taskProps(map[string]any{
				"stable_index": prop("integer", "Stable index of the note to edit (omit to add)"),
				"text":         prop("string", "Note text"),
			}), "text"),
		},
		{
			Name:        "case.referral.save",
			Description: "Add a referral, or edit the referral at stable_index",
			InputSchema: object(taskProps(map[string]any{
				"stable_index": prop("integer", "Stable index of the referral to edit (omit to add)"),
				"date":         prop("string", "Referral date (yyyy-mm-dd, defaults to today)"),
				"referred_to":  prop("string", "Service referred to"),
				"comments":     prop("string", "Referral comments"),
			}), "referred_to"),
		},
		{
			Name:        "case.section.save",
			Description: "Add or edit a household, perpetrator, incident or document entry",
			InputSchema: object(taskProps(map[string]any{
				"section": map[string]any{
					"type":        "string",
					"description": "Case section",
					"enum":        []string{"households", "perpetrators", "incidents", "documents"},
				},
				"index": prop("integer", "Index of the entry to edit (omit to add)"),
				"form":  prop("object", "Section form values"),
			}), "section", "form"),
		},
		{
			Name:        "case.activity.view",
			Description: "Open the view screen of a timeline activity",
			InputSchema: object(taskProps(map[string]any{
				"type": map[string]any{
					"type":        "string",
					"description": "Activity type",
					"enum":        []string{"note", "referral", "connected-contact"},
				},
				"stable_index": prop("integer", "Stable index within the activity type"),
			}), "type", "stable_index"),
		},

		// Case list
		{
			Name:        "caselist.facets",
			Description: "Get filter widget state reconciled with the current definition and counselor directory",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "caselist.update_filter",
			Description: "Change part of the case-list filter and return to the first page",
			InputSchema: object(map[string]any{
				"update": object(map[string]any{
					"statuses":       map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"counsellors":    map[string]any{"type": "array", "items": map[string]any{"type": "string"}},
					"categories":     map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
					"dates":          prop("object", "Date facets keyed by createdAt, updatedAt or followUpDate; presets resolve server-side"),
					"includeOrphans": prop("boolean", "Include cases without a connected contact"),
				}),
			}, "update"),
		},
		{
			Name:        "caselist.apply_facets",
			Description: "Compose the checked facet widgets returned by caselist.facets into the case-list filter",
			InputSchema: object(map[string]any{
				"facets": object(map[string]any{
					"statuses":   map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
					"counselors": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
					"categories": map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
					"dates":      prop("object", "Date facets; a preset option or custom from/to bounds"),
				}),
			}, "facets"),
		},
		{
			Name:        "caselist.clear_filter",
			Description: "Reset every case-list facet",
			InputSchema: object(map[string]any{}),
		},
		{
			Name:        "caselist.list",
			Description: "Query a page of cases with the current filter",
			InputSchema: object(map[string]any{
				"page":           prop("integer", "Zero-based page (omit to keep the current page)"),
				"sort_by":        prop("string", "Sort column"),
				"sort_direction": prop("string", "ASC or DESC"),
				"cached":         prop("boolean", "Reuse the last loaded page if the filter, page and sort are unchanged"),
			}),
		},

		// Contacts and diagnostics
		{
			Name:        "contacts.search",
			Description: "Search saved contacts",
			InputSchema: object(map[string]any{
				"search": prop("object", "Search criteria (firstName, lastName, phoneNumber, dateFrom, dateTo, ...)"),
				"limit":  prop("integer", "Maximum number of results"),
				"offset": prop("integer", "Offset for pagination"),
			}, "search"),
		},
		{
			Name:        "telemetry.recent",
			Description: "List recent HRM backend failures",
			InputSchema: object(map[string]any{
				"limit": prop("integer", "Maximum number of entries"),
			}),
		},
	}
}

// registerTools exposes every handler method as a tool.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		method := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, tenantOf(ctx), taskOf(ctx), method, args)
			if err != nil {
				return toolError(err), nil
			}
			return toolResult(result)
		})
	}
}

func toolResult(result any) (*sdkmcp.CallToolResult, error) {
	data, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}, nil
}

func toolError(err error) *sdkmcp.CallToolResult {
	payload := any(map[string]string{"code": "INTERNAL", "message": err.Error()})
	if apiErr := MapError(err); apiErr != nil {
		payload = apiErr
	}
	data, _ := json.Marshal(payload)
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}
