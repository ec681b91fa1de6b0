package mcp

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/casedesk/internal/transport"
)

// TenantResolver resolves a tenant ID from a bearer token.
type TenantResolver = transport.TenantResolver

// metaTaskSID is the _meta key stdio clients use in place of the task header.
const metaTaskSID = "task_sid"

func tenantOf(ctx context.Context) string {
	tenantID, _ := transport.TenantFromContext(ctx)
	return tenantID
}

func taskOf(ctx context.Context) string {
	taskSID, _ := transport.TaskSIDFromContext(ctx)
	return taskSID
}

// authMiddleware resolves the tenant from the session's bearer token. The
// handshake methods pass through unauthenticated.
func authMiddleware(resolver TenantResolver) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			switch method {
			case "initialize", "ping", "notifications/initialized":
				return next(ctx, method, req)
			}

			extra := req.GetExtra()
			if extra == nil || extra.Header == nil {
				return nil, fmt.Errorf("%w: no request headers", transport.ErrUnauthorized)
			}
			token, err := transport.BearerToken(extra.Header.Get("Authorization"))
			if err != nil {
				return nil, err
			}
			tenantID, err := resolver.ResolveTenant(ctx, token)
			if err != nil {
				return nil, fmt.Errorf("%w: %v", transport.ErrUnauthorized, err)
			}
			if tenantID == "" {
				return nil, fmt.Errorf("%w: unknown bearer token", transport.ErrUnauthorized)
			}
			return next(transport.WithTenant(ctx, tenantID), method, req)
		}
	}
}

func fixedTenantMiddleware(tenantID string) sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			return next(transport.WithTenant(ctx, tenantID), method, req)
		}
	}
}

// taskMiddleware binds the task SID from the task header on HTTP sessions or
// from _meta.task_sid on stdio.
func taskMiddleware() sdkmcp.Middleware {
	return func(next sdkmcp.MethodHandler) sdkmcp.MethodHandler {
		return func(ctx context.Context, method string, req sdkmcp.Request) (sdkmcp.Result, error) {
			var taskSID string
			if extra := req.GetExtra(); extra != nil && extra.Header != nil {
				taskSID = extra.Header.Get(transport.TaskHeader)
			}
			if taskSID == "" {
				taskSID = taskFromMeta(req)
			}
			if taskSID != "" {
				ctx = transport.WithTaskSID(ctx, taskSID)
			}
			return next(ctx, method, req)
		}
	}
}

// taskFromMeta reads _meta.task_sid. Notifications such as "initialized"
// carry typed nil params whose GetMeta panics.
func taskFromMeta(req sdkmcp.Request) (taskSID string) {
	defer func() {
		if recover() != nil {
			taskSID = ""
		}
	}()
	params := req.GetParams()
	if params == nil {
		return ""
	}
	sid, _ := params.GetMeta()[metaTaskSID].(string)
	return sid
}
