// Package sdk is the task-side facade over the host platform's local RPC services.
// One channel is shared by the three sub-facades; each is handed the channel
// explicitly when it is built.
package sdk

import (
	"context"

	"google.golang.org/grpc"

	"cafe_task/internal/payload"
	"cafe_task/internal/sdk/sdkpb"
)

// Ack is the host's answer to a push-style call. Codes are passed through as-is;
// interpreting them is up to the caller.
type Ack struct {
	Code    int32
	Message string
}

func ackFrom(r *sdkpb.Response) Ack {
	return Ack{Code: r.Code, Message: r.Message}
}

// TableHeader describes one column of the host's result table. Key names a field of
// the pushed payloads.
type TableHeader struct {
	Label  string `json:"label"`
	Key    string `json:"key"`
	Format string `json:"format"`
}

// Client groups the three service facades.
type Client struct {
	Parameter *ParameterService
	Result    *ResultService
	Log       *LogService
}

// New builds the facades on top of cc. servicePackage is the proto package the host
// registered its services under ("sdk" for the stock host).
func New(cc grpc.ClientConnInterface, servicePackage string) *Client {
	return &Client{
		Parameter: NewParameterService(cc, servicePackage),
		Result:    NewResultService(cc, servicePackage),
		Log:       NewLogService(cc, servicePackage),
	}
}

// ParameterService fetches the task's input parameters.
type ParameterService struct {
	stub sdkpb.ParameterClient
}

func NewParameterService(cc grpc.ClientConnInterface, servicePackage string) *ParameterService {
	return &ParameterService{stub: sdkpb.NewParameterClient(cc, servicePackage)}
}

// GetInputJSONString returns the raw JSON text attached to this task. It may be empty.
func (s *ParameterService) GetInputJSONString(ctx context.Context) (string, error) {
	resp, err := s.stub.GetInputJSONString(ctx)
	if err != nil {
		return "", err
	}
	return resp.JsonString, nil
}

// GetInputJSONMap decodes the input parameters. An empty input yields an empty map;
// malformed JSON yields a *payload.DecodeError.
func (s *ParameterService) GetInputJSONMap(ctx context.Context) (*payload.Map, error) {
	text, err := s.GetInputJSONString(ctx)
	if err != nil {
		return nil, err
	}
	if text == "" {
		return payload.NewMap(), nil
	}
	return payload.DecodeObject(text)
}

// ResultService publishes results to the host.
type ResultService struct {
	stub sdkpb.ResultClient
}

func NewResultService(cc grpc.ClientConnInterface, servicePackage string) *ResultService {
	return &ResultService{stub: sdkpb.NewResultClient(cc, servicePackage)}
}

// PushData sends data as one JSON document. Non-ASCII text is sent as UTF-8.
func (s *ResultService) PushData(ctx context.Context, data *payload.Map) (Ack, error) {
	text, err := data.JSON()
	if err != nil {
		return Ack{}, err
	}
	resp, err := s.stub.PushData(ctx, &sdkpb.Data{JsonString: text})
	if err != nil {
		return Ack{}, err
	}
	return ackFrom(resp), nil
}

// SetTableHeader replaces the host's column set with headers, in order.
func (s *ResultService) SetTableHeader(ctx context.Context, headers []TableHeader) (Ack, error) {
	in := &sdkpb.TableHeader{Headers: make([]*sdkpb.TableHeaderItem, 0, len(headers))}
	for _, h := range headers {
		in.Headers = append(in.Headers, &sdkpb.TableHeaderItem{Label: h.Label, Key: h.Key, Format: h.Format})
	}
	resp, err := s.stub.SetTableHeader(ctx, in)
	if err != nil {
		return Ack{}, err
	}
	return ackFrom(resp), nil
}

// LogService writes to the host's log stream. Every call is a synchronous RPC; there
// is no buffering or level filtering on this side.
type LogService struct {
	stub sdkpb.LogClient
}

func NewLogService(cc grpc.ClientConnInterface, servicePackage string) *LogService {
	return &LogService{stub: sdkpb.NewLogClient(cc, servicePackage)}
}

func (s *LogService) Debug(ctx context.Context, msg string) (Ack, error) {
	return s.send(ctx, sdkpb.MethodDebug, msg)
}

func (s *LogService) Info(ctx context.Context, msg string) (Ack, error) {
	return s.send(ctx, sdkpb.MethodInfo, msg)
}

func (s *LogService) Warn(ctx context.Context, msg string) (Ack, error) {
	return s.send(ctx, sdkpb.MethodWarn, msg)
}

func (s *LogService) Error(ctx context.Context, msg string) (Ack, error) {
	return s.send(ctx, sdkpb.MethodError, msg)
}

func (s *LogService) send(ctx context.Context, level, msg string) (Ack, error) {
	resp, err := s.stub.Log(ctx, level, &sdkpb.LogBody{Log: msg})
	if err != nil {
		return Ack{}, err
	}
	return ackFrom(resp), nil
}
