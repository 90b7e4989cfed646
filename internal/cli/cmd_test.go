package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"remindbot/internal/storage"
	logx "remindbot/pkg/logx"
)

func executeCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "remindbot.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

const logDriverConfig = `
timezone: Asia/Kolkata
start_date: "2026-03-01"
transport:
  driver: log
  to: "ops"
`

func TestCheckCmd(t *testing.T) {
	path := writeConfig(t, logDriverConfig)
	out, err := executeCmd(t, "check", "--config", path)
	require.NoError(t, err)
	assert.Contains(t, out, "config ok: driver=log to=ops timezone=Asia/Kolkata start=2026-03-01 poll=20s entries=11 storage=none")
}

func TestCheckCmdReportsField(t *testing.T) {
	path := writeConfig(t, logDriverConfig+"poll_interval: soon\n")
	_, err := executeCmd(t, "check", "-c", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll_interval")
}

func TestPlanCmd(t *testing.T) {
	orig := now
	t.Cleanup(func() { now = orig })
	ist, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, ist) }

	path := writeConfig(t, logDriverConfig+`
plan:
  - time: "08:30"
    title: Almonds
    body: Soaked almonds.
  - time: "13:30"
    title: Lunch
    body: Please have lunch.
weekly:
  weekday: 0
  time: "10:15"
`)
	out, err := executeCmd(t, "plan", "--config", path)
	require.NoError(t, err)

	assert.Contains(t, out, "plan: config (2 entries)")
	assert.Regexp(t, `08:30\s+Almonds\s+2026-03-02 08:30`, out)
	assert.Regexp(t, `13:30\s+Lunch\s+2026-03-01 13:30`, out)
	assert.Contains(t, out, "next: Lunch at 2026-03-01 13:30")
	assert.Contains(t, out, "weekly slot (inactive): Monday 10:15")
}

func TestHistoryCmdDisabled(t *testing.T) {
	path := writeConfig(t, logDriverConfig)
	_, err := executeCmd(t, "history", "--config", path)
	assert.ErrorIs(t, err, storage.ErrDisabled)
}

func TestHistoryCmd(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "remindbot.db")
	path := writeConfig(t, logDriverConfig+"storage:\n  driver: sqlite\n  path: "+db+"\n")

	st, err := storage.Open(storage.Config{Driver: "sqlite", Path: db}, logx.Nop())
	require.NoError(t, err)
	at := time.Date(2026, 3, 1, 3, 0, 0, 0, time.UTC)
	require.NoError(t, st.AppendAttempt(context.Background(), storage.Attempt{
		ID: "a1", At: at, Key: "2026-03-01-08:30-Almonds", Slot: "08:30", Title: "Almonds", OK: true, TookMS: 12,
	}))
	require.NoError(t, st.AppendAttempt(context.Background(), storage.Attempt{
		ID: "a2", At: at.Add(5 * time.Hour), Key: "2026-03-01-13:30-Lunch", Slot: "13:30", Title: "Lunch", Error: "provider down", TookMS: 40,
	}))
	require.NoError(t, st.Close())

	out, err := executeCmd(t, "history", "--config", path, "-n", "5")
	require.NoError(t, err)
	assert.Regexp(t, `2026-03-01 08:30\s+08:30\s+Almonds\s+ok\s+12ms`, out)
	assert.Contains(t, out, "failed: provider down")
}

func TestRootRejectsArgs(t *testing.T) {
	_, err := executeCmd(t, "extra")
	assert.Error(t, err)
}
