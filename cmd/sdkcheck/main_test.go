package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cafe_task/internal/host/hosttest"
	"cafe_task/internal/sdk/sdkpb"
)

func TestCheckCallsEveryFacade(t *testing.T) {
	h := hosttest.Start(t, `{"url": "http://example.com"}`)

	require.NoError(t, check(context.Background(), h.Client()))

	assert.Equal(t, []string{
		"Parameter.GetInputJSONString",
		"Parameter.GetInputJSONString",
		"Result.PushData",
		"Log.Debug",
		"Log.Debug",
		"Log.Info",
		"Log.Warn",
		"Log.Error",
	}, h.Calls())
	assert.Equal(t, []string{`{"go-data-key":"go-data-value"}`}, h.Pushed())
	assert.Equal(t, `params={"url":"http://example.com"}`, h.Logs(sdkpb.MethodDebug)[1].Message)
}
