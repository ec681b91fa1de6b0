package transport

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(strings.NewReader(`{"jsonrpc":"2.0","method":"case.connect","params":{"case_id":7},"id":1}`))
	require.NoError(t, err)
	require.Equal(t, "case.connect", req.Method)
	require.Equal(t, json.RawMessage(`{"case_id":7}`), req.Params)
	require.EqualValues(t, 1, req.ID)

	req, err = ParseRequest(strings.NewReader(`{"jsonrpc":"2.0","method":"caselist.facets","params":null}`))
	require.NoError(t, err)
	require.Equal(t, "caselist.facets", req.Method)
}

func TestParseRequest_Rejects(t *testing.T) {
	tests := []struct {
		name string
		body string
		want error
	}{
		{name: "not json", body: `{`, want: ErrParse},
		{name: "old version", body: `{"jsonrpc":"1.0","method":"x"}`, want: ErrInvalidRequest},
		{name: "missing method", body: `{"jsonrpc":"2.0","id":1}`, want: ErrInvalidRequest},
		{name: "positional params", body: `{"jsonrpc":"2.0","method":"x","params":[1]}`, want: ErrInvalidRequest},
		{
			name: "oversized",
			body: `{"jsonrpc":"2.0","method":"x","params":{"t":"` + strings.Repeat("a", MaxRequestBytes) + `"}}`,
			want: ErrInvalidRequest,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRequest(strings.NewReader(tc.body))
			require.ErrorIs(t, err, tc.want)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, 3, ErrApplication, "case is not editable", ErrorData{Code: "NOT_EDITABLE"})

	require.Equal(t, 200, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp Response
	require.NoError(t, json.NewDecoder(bytes.NewReader(rec.Body.Bytes())).Decode(&resp))
	require.NotNil(t, resp.Error)
	require.Equal(t, ErrApplication, resp.Error.Code)
	require.Equal(t, "case is not editable", resp.Error.Message)
	require.Equal(t, map[string]any{"code": "NOT_EDITABLE"}, resp.Error.Data)
}
