// Package testserver runs the whole agent against a fake HRM API for
// end-to-end tests.
package testserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/casedesk/internal/domain/caselist"
	"github.com/rpggio/casedesk/internal/domain/connectedcase"
	"github.com/rpggio/casedesk/internal/domain/contact"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/hrm"
	"github.com/rpggio/casedesk/internal/mcp"
	"github.com/rpggio/casedesk/internal/sqlite"
	"github.com/rpggio/casedesk/internal/store"
	"github.com/rpggio/casedesk/internal/telemetry"
	"github.com/rpggio/casedesk/internal/transport"
)

const (
	WorkerSID  = "WK-counsellor"
	Helpline   = "Line A"
	Definition = "v1"
)

// DefinitionDocument is the v1 definition written to the definitions
// directory.
const DefinitionDocument = `
caseStatus:
  open:
    value: open
    label: Open
    transitions: [open, closed]
  closed:
    value: closed
    label: Closed
    transitions: [closed, open]
categories:
  Violence:
    color: red
    subcategories: [Bullying, Physical]
helplines:
  - label: Line A
    value: Line A
    default: true
caseForms:
  HouseholdForm:
    - {name: firstName, label: First name, type: input}
`

type TestServer struct {
	Server   *httptest.Server
	HRM      *FakeHRM
	DB       *sqlite.DB
	Store    *store.Store
	Handler  *mcp.Handler
	Token    string
	TenantID string
}

// New starts the agent behind the JSON-RPC server with bearer auth. token
// resolves to tenantID.
func New(t *testing.T, token, tenantID string) *TestServer {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := sqlite.New(dsn)
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, Definition+".yaml"), []byte(DefinitionDocument), 0o644))

	fake := NewFakeHRM(t)
	client := hrm.New(hrm.Config{BaseURL: fake.Server.URL}, nil)
	telemetrySvc := telemetry.NewService(sqlite.NewBackendErrorRepository(db), nil)
	registry := definition.NewRegistry(dir, sqlite.NewDefinitionRepository(db), nil)

	st := store.New(store.InitialState(WorkerSID, Helpline, Definition), nil)
	def, err := registry.Get(context.Background(), Definition)
	require.NoError(t, err)
	st.DefinitionVersionLoaded(def)
	st.SetCounselors(map[string]string{WorkerSID: "Ana Diaz"})

	cases := connectedcase.NewService(connectedcase.Deps{
		Store:       st,
		Cases:       client,
		Contacts:    client,
		Completer:   st,
		Telemetry:   telemetrySvc,
		Definitions: registry,
	})
	handler := mcp.NewHandler(mcp.Services{
		Cases:     cases,
		CaseList:  caselist.NewService(client, st, telemetrySvc, nil),
		Contacts:  contact.NewService(client, telemetrySvc, nil),
		Telemetry: telemetrySvc,
		Workspace: st,
	}, nil)

	apiKeys := sqlite.NewAPIKeyRepository(db)
	require.NoError(t, apiKeys.Insert(context.Background(), token, tenantID, "test"))
	server := httptest.NewServer(transport.NewServer(handler, transport.AuthMiddleware(apiKeys), nil))

	t.Cleanup(func() {
		server.Close()
		_ = db.Close()
	})

	return &TestServer{
		Server:   server,
		HRM:      fake,
		DB:       db,
		Store:    st,
		Handler:  handler,
		Token:    token,
		TenantID: tenantID,
	}
}

// RPCResponse is a decoded JSON-RPC response.
type RPCResponse struct {
	Result json.RawMessage `json:"result,omitempty"`
	Error  *RPCError       `json:"error,omitempty"`
}

type RPCError struct {
	Code    int            `json:"code"`
	Message string         `json:"message"`
	Data    map[string]any `json:"data,omitempty"`
}

// Call posts one JSON-RPC request for taskSID, which may be empty.
func (ts *TestServer) Call(t *testing.T, taskSID, method string, params any) RPCResponse {
	t.Helper()

	payload := map[string]any{"jsonrpc": "2.0", "method": method, "id": 1}
	if params != nil {
		payload["params"] = params
	}
	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/rpc", bytes.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+ts.Token)
	if taskSID != "" {
		req.Header.Set(transport.TaskHeader, taskSID)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected status 200, got %d: %s", resp.StatusCode, data)
	}

	var out RPCResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

// MustCall is Call that fails the test on an RPC error and decodes the result
// into out when out is not nil.
func (ts *TestServer) MustCall(t *testing.T, taskSID, method string, params, out any) {
	t.Helper()
	resp := ts.Call(t, taskSID, method, params)
	require.Nil(t, resp.Error, "%s failed: %+v", method, resp.Error)
	if out != nil {
		require.NoError(t, json.Unmarshal(resp.Result, out))
	}
}

// ConnectMCP serves the same handler as MCP tools over an in-memory
// transport and returns a connected client session.
func (ts *TestServer) ConnectMCP(t *testing.T) *sdkmcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(mcp.Config{
		Handler:       ts.Handler,
		TransportMode: "stdio",
		Version:       "test",
	})
	clientTransport, serverTransport := sdkmcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = session.Close()
		_ = serverSession.Wait()
	})
	return session
}
