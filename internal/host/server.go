// Package host is a stand-in for the platform side of the SDK services. It serves a
// fixed input document and records everything the task sends back, which makes it
// usable both as a test double and as a local development host (cmd/mockhost).
package host

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"cafe_task/internal/sdk/sdkpb"
	"cafe_task/internal/shared/logger"
)

// LogEntry is one line received through the Log service.
type LogEntry struct {
	Level   string
	Message string
}

// Server implements the Parameter, Result and Log services in memory.
type Server struct {
	mu      sync.Mutex
	input   string
	ack     sdkpb.Response
	calls   []string
	pushed  []string
	headers [][]sdkpb.TableHeaderItem
	logs    []LogEntry
	logger  zerolog.Logger
}

var (
	_ sdkpb.ParameterServer = (*Server)(nil)
	_ sdkpb.ResultServer    = (*Server)(nil)
	_ sdkpb.LogServer       = (*Server)(nil)
)

// New returns a host that hands out input as the task's parameters and answers
// every push-style call with code 0.
func New(input string) *Server {
	return &Server{
		input:  input,
		ack:    sdkpb.Response{Code: 0, Message: "ok"},
		logger: logger.WithComponent("MockHost"),
	}
}

// SetAck changes the acknowledgement returned by later calls.
func (s *Server) SetAck(code int32, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ack = sdkpb.Response{Code: code, Message: message}
}

// Register attaches the three services to gs under servicePackage.
func (s *Server) Register(gs grpc.ServiceRegistrar, servicePackage string) {
	sdkpb.RegisterParameterServer(gs, servicePackage, s)
	sdkpb.RegisterResultServer(gs, servicePackage, s)
	sdkpb.RegisterLogServer(gs, servicePackage, s)
}

func (s *Server) GetInputJSONString(context.Context) (*sdkpb.Data, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sdkpb.ParameterService+"."+sdkpb.MethodGetInputJSONString)
	s.logger.Debug().Int("bytes", len(s.input)).Msg("Input parameters requested.")
	return &sdkpb.Data{JsonString: s.input}, nil
}

func (s *Server) PushData(_ context.Context, in *sdkpb.Data) (*sdkpb.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sdkpb.ResultService+"."+sdkpb.MethodPushData)
	s.pushed = append(s.pushed, in.JsonString)
	s.logger.Info().Str("data", in.JsonString).Msg("Result pushed.")
	ack := s.ack
	return &ack, nil
}

func (s *Server) SetTableHeader(_ context.Context, in *sdkpb.TableHeader) (*sdkpb.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sdkpb.ResultService+"."+sdkpb.MethodSetTableHeader)
	set := make([]sdkpb.TableHeaderItem, 0, len(in.Headers))
	for _, h := range in.Headers {
		set = append(set, *h)
	}
	s.headers = append(s.headers, set)
	s.logger.Info().Interface("headers", set).Msg("Table header set.")
	ack := s.ack
	return &ack, nil
}

func (s *Server) Log(_ context.Context, level string, in *sdkpb.LogBody) (*sdkpb.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, sdkpb.LogService+"."+level)
	s.logs = append(s.logs, LogEntry{Level: level, Message: in.Log})
	s.logger.Info().Str("level", level).Msg(in.Log)
	ack := s.ack
	return &ack, nil
}

// Calls returns "Service.Method" for every call received, in arrival order.
func (s *Server) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.calls...)
}

// Pushed returns the JSON documents received through PushData.
func (s *Server) Pushed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.pushed...)
}

// HeaderSets returns every header list received, one entry per SetTableHeader call.
func (s *Server) HeaderSets() [][]sdkpb.TableHeaderItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]sdkpb.TableHeaderItem, len(s.headers))
	for i, set := range s.headers {
		out[i] = append([]sdkpb.TableHeaderItem(nil), set...)
	}
	return out
}

// Logs returns the received log lines, optionally filtered by level ("" for all).
func (s *Server) Logs(level string) []LogEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LogEntry, 0, len(s.logs))
	for _, e := range s.logs {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

// Serve listens on addr and serves until ctx is cancelled. ready, when non-nil,
// receives the bound address once the listener is up.
func (s *Server) Serve(ctx context.Context, addr, servicePackage string, ready func(net.Addr)) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	gs := grpc.NewServer()
	s.Register(gs, servicePackage)
	if ready != nil {
		ready(lis.Addr())
	}

	go func() {
		<-ctx.Done()
		gs.GracefulStop()
	}()

	s.logger.Info().Str("address", lis.Addr().String()).Str("service_package", servicePackage).Msg("Mock host serving.")
	if err := gs.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
		return err
	}
	return nil
}
