package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/mealmatch/planner/pkg/healthcheck"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func probe(t *testing.T, status healthcheck.Status, expect string) (int, string) {
	t.Helper()

	hc := healthcheck.New("1.2.3", zap.NewNop())
	hc.Register("catalog", healthcheck.NewCustomChecker(func(ctx context.Context) (healthcheck.Status, string, interface{}) {
		return status, "checked", nil
	}))
	srv := httptest.NewServer(hc.Handler())
	defer srv.Close()

	var out bytes.Buffer
	code := run(Options{
		URL:            srv.URL,
		Timeout:        time.Second,
		Verbose:        true,
		OutputFormat:   "text",
		ExpectedStatus: expect,
	}, &out)
	return code, out.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		name   string
		status healthcheck.Status
		expect string
		code   int
	}{
		{"healthy", healthcheck.StatusHealthy, "healthy", exitCodeSuccess},
		{"degraded rejected", healthcheck.StatusDegraded, "healthy", exitCodeFailure},
		{"degraded accepted", healthcheck.StatusDegraded, "degraded", exitCodeSuccess},
		{"unhealthy", healthcheck.StatusUnhealthy, "degraded", exitCodeFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, out := probe(t, tt.status, tt.expect)

			assert.Equal(t, tt.code, code)
			assert.Contains(t, out, "Version: 1.2.3")
			assert.Contains(t, out, "catalog: "+string(tt.status)+" (checked)")
		})
	}
}

func TestRun_Unreachable(t *testing.T) {
	var out bytes.Buffer
	code := run(Options{URL: "http://127.0.0.1:1/health", Timeout: 100 * time.Millisecond, RetryCount: 1}, &out)

	assert.Equal(t, exitCodeError, code)
	assert.Contains(t, out.String(), "after 2 attempts")
}
