package main

import (
	"bytes"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/casedesk/internal/domain/activity"
	"github.com/rpggio/casedesk/internal/domain/casework"
	"github.com/rpggio/casedesk/internal/domain/definition"
	"github.com/rpggio/casedesk/internal/store"
)

const caseJSON = `{
  "id": 42,
  "status": "open",
  "twilioWorkerId": "WK1",
  "createdAt": "2021-06-01T10:00:00Z",
  "updatedAt": "2021-06-02T10:00:00Z",
  "info": {
    "counsellorNotes": [
      {"note": "Called back", "twilioWorkerId": "WK1", "createdAt": "2021-06-03T09:00:00Z"}
    ],
    "referrals": [
      {"date": "2021-06-02", "referredTo": "Shelter", "comments": "urgent", "twilioWorkerId": "WK2", "createdAt": "2021-06-02T12:00:00Z"}
    ]
  }
}`

func writeCase(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "case.json")
	require.NoError(t, os.WriteFile(path, []byte(caseJSON), 0o644))
	return path
}

func TestReadCase(t *testing.T) {
	c, err := readCase(writeCase(t))
	require.NoError(t, err)
	require.Equal(t, int64(42), c.ID)
	require.Len(t, c.Info.CounsellorNotes, 1)
	require.Equal(t, time.Date(2021, 6, 1, 10, 0, 0, 0, time.UTC), c.CreatedAt.UTC())
}

func TestReadCase_Invalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	_, err := readCase(path)
	require.ErrorContains(t, err, "decoding case file")

	_, err = readCase(filepath.Join(t.TempDir(), "missing.json"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestRenderTimeline(t *testing.T) {
	c, err := readCase(writeCase(t))
	require.NoError(t, err)
	counselors := map[string]string{"WK1": "Ana Diaz", "WK2": "Bo Lee"}
	details := casework.BuildDetails(casework.DetailsInput{Case: &c, Counselors: counselors})

	var buf bytes.Buffer
	views := activity.Views(activity.BuildTimeline(&c, nil))
	require.NoError(t, renderTimeline(&buf, details, views, counselors))

	out := buf.String()
	require.Contains(t, out, "Case #42")
	require.Contains(t, out, "Shelter: urgent")
	require.Contains(t, out, "Called back")
	require.Contains(t, out, "Bo Lee")
	require.Less(t, bytes.Index(buf.Bytes(), []byte("Shelter")), bytes.Index(buf.Bytes(), []byte("Called back")))
}

func TestRenderTimeline_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderTimeline(&buf, casework.Details{ID: 1}, nil, nil))
	require.Contains(t, buf.String(), "No activities")
}

func TestParseLogLevel(t *testing.T) {
	require.Equal(t, "DEBUG", parseLogLevel("debug").String())
	require.Equal(t, "INFO", parseLogLevel("bogus").String())
}

func TestLogFileWriter_KeepsTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "casedesk.log")
	w, file, err := newLogFileWriter(path)
	require.NoError(t, err)
	defer file.Close()

	chunk := bytes.Repeat([]byte("x"), 1024*1024)
	for range 7 {
		_, err := w.Write(chunk)
		require.NoError(t, err)
	}
	info, err := os.Stat(path)
	require.NoError(t, err)
	require.LessOrEqual(t, info.Size(), int64(maxLogSizeBytes))
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v1.json"), []byte(`{"caseStatus":{}}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "v2.yaml"), []byte("caseStatus: {}\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.json"), []byte("{"), 0o644))

	st := store.New(store.InitialState("WK1", "", "v2"), nil)
	reg := definition.NewRegistry(dir, nil, nil)
	loadDefinitions(context.Background(), reg, st, "v2", slog.New(slog.DiscardHandler))

	defs := st.State().Configuration.Definitions
	require.Len(t, defs, 2)
	require.Contains(t, defs, "v1")
	def, ok := st.Definition("")
	require.True(t, ok)
	require.Equal(t, "v2", def.ID)
}

func TestLoadDefinitions_MissingDefault(t *testing.T) {
	st := store.New(store.InitialState("WK1", "", "v3"), nil)
	reg := definition.NewRegistry(t.TempDir(), nil, nil)
	loadDefinitions(context.Background(), reg, st, "v3", slog.New(slog.DiscardHandler))

	_, ok := st.Definition("")
	require.False(t, ok)
}
