package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe_task/internal/host/hosttest"
	"cafe_task/internal/payload"
	"cafe_task/internal/sdk/sdkpb"
)

// pointAt makes run dial h and skip the shipped ini file.
func pointAt(t *testing.T, h *hosttest.Host) []string {
	t.Setenv("CAFE_RPC_ADDRESS", h.Addr)
	t.Setenv("CAFE_RPC_SERVICE_PACKAGE", hosttest.ServicePackage)
	t.Setenv("CAFE_LOG_LEVEL", "error")
	t.Setenv("PROXY_AUTH", "")
	return []string{"-config", filepath.Join(t.TempDir(), "absent.ini")}
}

func TestRunSucceedsAndExitsZero(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><head><title>Hi</title></head><body><p>There</p></body></html>`))
	}))
	defer page.Close()

	h := hosttest.Start(t, `{"url": "`+page.URL+`"}`)
	err := run(context.Background(), pointAt(t, h))
	require.NoError(t, err)
	assert.Equal(t, 0, exitCode(err))

	require.Len(t, h.Pushed(), 1)
	result, err := payload.DecodeObject(h.Pushed()[0])
	require.NoError(t, err)
	status, _ := result.GetString("status")
	assert.Equal(t, "success", status)
	assert.Len(t, h.HeaderSets(), 1)
}

func TestRunFailureExitsOneAfterFailurePush(t *testing.T) {
	h := hosttest.Start(t, `{"url": ""}`)

	err := run(context.Background(), pointAt(t, h))
	require.Error(t, err)
	assert.Equal(t, 1, exitCode(err))

	require.Len(t, h.Pushed(), 1)
	failure, err := payload.DecodeObject(h.Pushed()[0])
	require.NoError(t, err)
	code, _ := failure.GetString("error_code")
	assert.Equal(t, "500", code)
	assert.Len(t, h.Logs(sdkpb.MethodError), 1)
	assert.Empty(t, h.HeaderSets())
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	err := run(context.Background(), []string{"-nope"})
	assert.Equal(t, 1, exitCode(err))
}
