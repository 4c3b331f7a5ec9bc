package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamed0406/labdash/internal/config"
)

func writeDashboard(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dashboard.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestRun_Passes(t *testing.T) {
	cfg := config.Config{
		Addr:          ":8080",
		DashboardFile: writeDashboard(t, "services:\n  - id: a\n    url: http://127.0.0.1:9\n    category: Weird\n"),
		CheckInterval: time.Minute,
		ProbeTimeout:  5 * time.Second,
	}
	var stdout, stderr bytes.Buffer
	assert.True(t, run(context.Background(), cfg, true, &stdout, &stderr))
	assert.Contains(t, stdout.String(), "preflight passed")
	assert.Contains(t, stderr.String(), "unknown category")
	assert.Contains(t, stderr.String(), "ALLOWED_ORIGINS empty")
}

func TestRun_FailsOnBadDashboard(t *testing.T) {
	cfg := config.Config{
		DashboardFile: writeDashboard(t, "services:\n  - id: a\n    url: nope\n  - id: a\n    url: https://a.lab\n"),
		CheckInterval: time.Minute,
		ProbeTimeout:  time.Minute,
	}
	var stdout, stderr bytes.Buffer
	assert.False(t, run(context.Background(), cfg, false, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "invalid target url")
	assert.Contains(t, stderr.String(), "duplicate target id")
	assert.Contains(t, stderr.String(), "PROBE_TIMEOUT is not shorter")
	assert.NotContains(t, stdout.String(), "preflight passed")
}

func TestRun_FailsOnBadStatusPage(t *testing.T) {
	cfg := config.Config{
		DashboardFile: writeDashboard(t, "services:\n  - id: a\n    url: https://a.lab\n    category: Media\n"),
		CheckInterval: time.Minute,
		ProbeTimeout:  5 * time.Second,
		StatusPageURL: "status.example.com",
	}
	var stdout, stderr bytes.Buffer
	assert.False(t, run(context.Background(), cfg, false, &stdout, &stderr))
	assert.Contains(t, stderr.String(), "STATUS_PAGE_URL")
	assert.NotContains(t, stdout.String(), "preflight passed")
}
