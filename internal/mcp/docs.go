package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `casedesk holds an agent's helpline case work: tasks, the case connected to each task, and the case list.

Workflow:
1) task.open with the host task and its contact form.
2) case.connect(case_id) to load a case; case.details and case.timeline to read it.
3) Edit locally: case.status, case.update_info, case.note.save, case.referral.save, case.section.save.
4) Persist with case.update, or case.save_and_end to save the contact and finish the task.

Pass the task SID as _meta.task_sid, or as task_sid in arguments.
Timeline entries are addressed by (type, stable_index); positions shift when entries are added, stable indexes do not.

Docs:
- casedesk://docs/errors
- casedesk://docs/case-list
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "casedesk://docs/errors",
		Name:        "docs_errors",
		Title:       "casedesk error codes",
		Description: "Stable error codes returned by tools and what to do about them.",
		Content: `# Error codes

- INVALID_TRANSITION: the status is not reachable from the persisted status. Use statusOptions from case.details.
- ACTIVITY_NOT_FOUND: the stable index does not address an activity. Reload case.timeline.
- IN_PROGRESS: a remote request for the task is still running. Retry after it finishes.
- BACKEND_ERROR: HRM rejected or did not answer. Local edits are kept; retry.
- CASE_NOT_CONNECTED: call case.connect first.
- CANNOT_CANCEL: only open cases that were never updated can be cancelled.
- DEFINITION_NOT_LOADED: the case's form definition is still loading.
- TASK_NOT_FOUND: call task.open first.
- NOT_AVAILABLE: the task has no contact form or is a standalone task.
- INVALID_INPUT: fix the arguments.
`,
	},
	{
		URI:         "casedesk://docs/case-list",
		Name:        "docs_case_list",
		Title:       "casedesk case list",
		Description: "How case-list filters combine.",
		Content: `# Case list

Facets combine with AND; values inside a facet combine with OR.
Date facets are half-open ranges [from, to).
Changing a filter or the sort order returns to page 0.
Counselor selections disappear when the counselor leaves the directory.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
