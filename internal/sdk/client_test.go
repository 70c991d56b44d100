package sdk_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cafe_task/internal/host/hosttest"
	"cafe_task/internal/payload"
	"cafe_task/internal/sdk"
	"cafe_task/internal/sdk/sdkpb"
	"cafe_task/internal/shared/types"
)

func TestGetInputJSONString(t *testing.T) {
	h := hosttest.Start(t, `{"url":"http://example.com"}`)

	got, err := h.Client().Parameter.GetInputJSONString(context.Background())
	require.NoError(t, err)
	assert.Equal(t, `{"url":"http://example.com"}`, got)
}

func TestGetInputJSONMap(t *testing.T) {
	t.Run("empty input", func(t *testing.T) {
		h := hosttest.Start(t, "")
		m, err := h.Client().Parameter.GetInputJSONMap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("empty object", func(t *testing.T) {
		h := hosttest.Start(t, "{}")
		m, err := h.Client().Parameter.GetInputJSONMap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 0, m.Len())
	})

	t.Run("not json", func(t *testing.T) {
		h := hosttest.Start(t, "not json")
		_, err := h.Client().Parameter.GetInputJSONMap(context.Background())
		var decodeErr *payload.DecodeError
		require.Error(t, err)
		assert.True(t, errors.As(err, &decodeErr))
		assert.Equal(t, "not json", decodeErr.Input)
	})

	t.Run("keys keep order", func(t *testing.T) {
		h := hosttest.Start(t, `{"url":"http://example.com","depth":2,"tags":["a"]}`)
		m, err := h.Client().Parameter.GetInputJSONMap(context.Background())
		require.NoError(t, err)
		assert.Equal(t, []string{"url", "depth", "tags"}, m.Keys())
	})
}

func TestPushDataSendsUTF8(t *testing.T) {
	h := hosttest.Start(t, "")

	ack, err := h.Client().Result.PushData(context.Background(), payload.NewMap().SetString("a", "café"))
	require.NoError(t, err)
	assert.Equal(t, sdk.Ack{Code: 0, Message: "ok"}, ack)

	pushed := h.Pushed()
	require.Len(t, pushed, 1)
	assert.Equal(t, `{"a":"café"}`, pushed[0])
	assert.NotContains(t, pushed[0], `\u`)

	back, err := payload.DecodeObject(pushed[0])
	require.NoError(t, err)
	s, _ := back.GetString("a")
	assert.Equal(t, "café", s)
}

func TestPushDataPassesAckThrough(t *testing.T) {
	h := hosttest.Start(t, "")
	h.SetAck(500, "quota exceeded")

	ack, err := h.Client().Result.PushData(context.Background(), payload.NewMap())
	require.NoError(t, err, "non-success codes are not turned into errors")
	assert.Equal(t, int32(500), ack.Code)
	assert.Equal(t, "quota exceeded", ack.Message)
}

func TestSetTableHeaderKeepsOrder(t *testing.T) {
	h := hosttest.Start(t, "")

	headers := []sdk.TableHeader{
		{Label: "URL", Key: "url", Format: "text"},
		{Label: "Status", Key: "status", Format: "text"},
	}
	_, err := h.Client().Result.SetTableHeader(context.Background(), headers)
	require.NoError(t, err)

	sets := h.HeaderSets()
	require.Len(t, sets, 1)
	assert.Equal(t, []sdkpb.TableHeaderItem{
		{Label: "URL", Key: "url", Format: "text"},
		{Label: "Status", Key: "status", Format: "text"},
	}, sets[0])
}

func TestLogLevels(t *testing.T) {
	h := hosttest.Start(t, "")
	log := h.Client().Log
	ctx := context.Background()

	for _, call := range []func(context.Context, string) (sdk.Ack, error){log.Debug, log.Info, log.Warn, log.Error} {
		_, err := call(ctx, "message")
		require.NoError(t, err)
	}

	levels := make([]string, 0, 4)
	for _, e := range h.Logs("") {
		levels = append(levels, e.Level)
		assert.Equal(t, "message", e.Message)
	}
	assert.Equal(t, []string{"Debug", "Info", "Warn", "Error"}, levels)
}

func TestUnreachableHostFailsOnFirstCall(t *testing.T) {
	// Nothing listens on port 1; building the channel must still succeed.
	conn, err := sdk.Dial(types.RPCConf{Address: "127.0.0.1:1", ServicePackage: "sdk", CallTimeoutSeconds: 2})
	require.NoError(t, err)
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	_, err = sdk.New(conn, "sdk").Log.Info(ctx, "hello")
	require.Error(t, err)
	assert.Contains(t, []codes.Code{codes.Unavailable, codes.DeadlineExceeded}, status.Code(err))
}

func TestWrongServicePackageIsUnimplemented(t *testing.T) {
	h := hosttest.Start(t, "{}")

	_, err := sdk.New(h.Conn, "other").Parameter.GetInputJSONString(context.Background())
	require.Error(t, err)
	assert.Equal(t, codes.Unimplemented, status.Code(err))
}
