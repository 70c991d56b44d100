package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"cafe_task/internal/payload"
	"cafe_task/internal/proxy"
	"cafe_task/internal/sdk"
	"cafe_task/internal/shared/config"
	"cafe_task/internal/shared/logger"
	"cafe_task/internal/shared/types"
)

// FailureErrorCode is the error_code reported in failure payloads.
const FailureErrorCode = "500"

// CredentialLookup returns the proxy credential, "" when none is configured.
type CredentialLookup func() (string, error)

// Task is one invocation of the task script: fetch parameters, run the processor,
// publish the result.
type Task struct {
	client    *sdk.Client
	processor types.Processor
	endpoint  proxy.Endpoint
	headers   []sdk.TableHeader
	lookup    CredentialLookup

	invocationID string
	logger       zerolog.Logger
}

// Option customises a Task.
type Option func(*Task)

// WithCredentialLookup replaces the PROXY_AUTH environment lookup.
func WithCredentialLookup(lookup CredentialLookup) Option {
	return func(t *Task) { t.lookup = lookup }
}

// WithProxyEndpoint replaces the default upstream proxy entry.
func WithProxyEndpoint(ep proxy.Endpoint) Option {
	return func(t *Task) { t.endpoint = ep }
}

// WithTableHeaders replaces the published column set.
func WithTableHeaders(headers []sdk.TableHeader) Option {
	return func(t *Task) { t.headers = headers }
}

// NewTask wires a task around an SDK client and a processor.
func NewTask(client *sdk.Client, processor types.Processor, opts ...Option) *Task {
	t := &Task{
		client:       client,
		processor:    processor,
		endpoint:     proxy.DefaultEndpoint,
		headers:      DefaultTableHeaders(),
		lookup:       config.LookupProxyAuth,
		invocationID: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = logger.WithComponent("Task").With().Str("invocation", t.invocationID).Logger()
	return t
}

// NewTaskFromConfig builds a task using the [proxy] and [result] sections of cfg.
func NewTaskFromConfig(cfg *types.Config, client *sdk.Client, processor types.Processor, opts ...Option) (*Task, error) {
	headers, err := ParseTableHeaders(cfg.ResultConf.TableHeaders)
	if err != nil {
		return nil, err
	}
	base := []Option{
		WithProxyEndpoint(proxy.EndpointFrom(cfg.ProxyConf)),
		WithTableHeaders(headers),
	}
	return NewTask(client, processor, append(base, opts...)...), nil
}

// InvocationID identifies this run in local logs and in call metadata.
func (t *Task) InvocationID() string { return t.invocationID }

// Run executes the task. On any failure it logs the error to the host, pushes a
// failure payload, and returns the original error so the caller can exit non-zero.
func (t *Task) Run(ctx context.Context) error {
	ctx = sdk.WithInvocationID(ctx, t.invocationID)
	t.logger.Info().Msg("Task invocation started.")

	if err := t.run(ctx); err != nil {
		t.logger.Error().Err(err).Msg("Task invocation failed.")
		t.reportFailure(ctx, err)
		return err
	}
	t.logger.Info().Msg("Task invocation finished.")
	return nil
}

func (t *Task) run(ctx context.Context) error {
	log := t.client.Log

	// 1. 获取参数
	params, err := t.client.Parameter.GetInputJSONMap(ctx)
	if err != nil {
		return fmt.Errorf("get input parameters: %w", err)
	}
	if _, err := log.Debug(ctx, "params: "+params.String()); err != nil {
		return err
	}

	// 2. 代理凭证
	credential, lookupErr := t.lookup()
	if lookupErr != nil {
		credential = ""
		if _, err := log.Error(ctx, fmt.Sprintf("Failed to retrieve proxy authentication information: %v", lookupErr)); err != nil {
			return err
		}
	} else if _, err := log.Info(ctx, "Proxy authentication information: "+proxy.RedactCredential(credential)); err != nil {
		return err
	}

	// 3. 构造代理 URL
	proxyURL := t.endpoint.BuildURL(credential)
	if _, err := log.Info(ctx, "Proxy address: "+proxy.RedactURL(proxyURL)); err != nil {
		return err
	}

	// 4. 业务逻辑
	in := types.TaskInput{Params: params, URL: inputURL(params), ProxyURL: proxyURL}
	if _, err := log.Info(ctx, "start deal URL: "+in.URL); err != nil {
		return err
	}
	result, err := t.processor.Process(ctx, in)
	if err != nil {
		return err
	}
	if result == nil {
		result = payload.NewMap()
	}

	// 5. 推送结果
	if _, err := log.Info(ctx, "Processing result: "+result.String()); err != nil {
		return err
	}
	ack, err := t.client.Result.PushData(ctx, result)
	if err != nil {
		return fmt.Errorf("push result: %w", err)
	}
	t.logger.Debug().Int32("code", ack.Code).Str("message", ack.Message).Msg("Result pushed.")

	// 6. 设置表头
	ack, err = t.client.Result.SetTableHeader(ctx, t.headers)
	if err != nil {
		return fmt.Errorf("set table header: %w", err)
	}
	t.logger.Debug().Int32("code", ack.Code).Int("columns", len(t.headers)).Msg("Table header set.")

	_, err = log.Info(ctx, "Script execution completed")
	return err
}

// reportFailure must not mask the original error, so its own failures only reach
// the local log.
func (t *Task) reportFailure(ctx context.Context, cause error) {
	if _, err := t.client.Log.Error(ctx, fmt.Sprintf("Script execution error: %v", cause)); err != nil {
		t.logger.Warn().Err(err).Msg("Failed to send error log to host.")
	}
	if _, err := t.client.Result.PushData(ctx, FailurePayload(cause)); err != nil {
		t.logger.Error().Err(err).Msg("Failed to push failure payload.")
	}
}

// FailurePayload is the standard payload pushed when a task invocation fails.
func FailurePayload(cause error) *payload.Map {
	return payload.NewMap().
		SetString("error", cause.Error()).
		SetString("error_code", FailureErrorCode).
		SetString("status", "failed")
}

func inputURL(params *payload.Map) string {
	v, ok := params.Get("url")
	if !ok || v.IsNull() {
		return ""
	}
	return v.Text()
}

// DefaultTableHeaders is the column set published when none is configured.
func DefaultTableHeaders() []sdk.TableHeader {
	return []sdk.TableHeader{
		{Label: "URL", Key: "url", Format: "text"},
		{Label: "Status", Key: "status", Format: "text"},
	}
}

// ParseTableHeaders reads "label|key|format" columns separated by ';'. A missing
// format defaults to "text".
func ParseTableHeaders(columns string) ([]sdk.TableHeader, error) {
	columns = strings.TrimSpace(columns)
	if columns == "" {
		return DefaultTableHeaders(), nil
	}
	var headers []sdk.TableHeader
	for _, col := range strings.Split(columns, ";") {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		parts := strings.Split(col, "|")
		if len(parts) < 2 || len(parts) > 3 {
			return nil, fmt.Errorf("invalid table header column %q: want label|key|format", col)
		}
		h := sdk.TableHeader{
			Label:  strings.TrimSpace(parts[0]),
			Key:    strings.TrimSpace(parts[1]),
			Format: "text",
		}
		if len(parts) == 3 && strings.TrimSpace(parts[2]) != "" {
			h.Format = strings.TrimSpace(parts[2])
		}
		if h.Key == "" {
			return nil, fmt.Errorf("invalid table header column %q: empty key", col)
		}
		headers = append(headers, h)
	}
	return headers, nil
}
