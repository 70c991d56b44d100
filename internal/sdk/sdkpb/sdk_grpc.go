package sdkpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/dynamicpb"
	"google.golang.org/protobuf/types/known/emptypb"
)

const (
	ParameterService = "Parameter"
	ResultService    = "Result"
	LogService       = "Log"

	MethodGetInputJSONString = "GetInputJSONString"
	MethodSetTableHeader     = "SetTableHeader"
	MethodPushData           = "PushData"
	MethodDebug              = "Debug"
	MethodInfo               = "Info"
	MethodWarn               = "Warn"
	MethodError              = "Error"
)

// ServiceName qualifies service with the proto package the host registered it under.
// An empty pkg yields the bare service name.
func ServiceName(pkg, service string) string {
	if pkg == "" {
		return service
	}
	return pkg + "." + service
}

// FullMethodName builds the "/pkg.Service/Method" path used on the wire.
func FullMethodName(pkg, service, method string) string {
	return "/" + ServiceName(pkg, service) + "/" + method
}

// ---------------------------------------------------------------------------
// Clients

// ParameterClient is the client API for the Parameter service.
type ParameterClient interface {
	GetInputJSONString(ctx context.Context, opts ...grpc.CallOption) (*Data, error)
}

type parameterClient struct {
	cc  grpc.ClientConnInterface
	pkg string
}

func NewParameterClient(cc grpc.ClientConnInterface, pkg string) ParameterClient {
	return &parameterClient{cc: cc, pkg: pkg}
}

func (c *parameterClient) GetInputJSONString(ctx context.Context, opts ...grpc.CallOption) (*Data, error) {
	out := dynamicpb.NewMessage(dataDesc)
	err := c.cc.Invoke(ctx, FullMethodName(c.pkg, ParameterService, MethodGetInputJSONString), &emptypb.Empty{}, out, opts...)
	if err != nil {
		return nil, err
	}
	return dataFromProto(out), nil
}

// ResultClient is the client API for the Result service.
type ResultClient interface {
	SetTableHeader(ctx context.Context, in *TableHeader, opts ...grpc.CallOption) (*Response, error)
	PushData(ctx context.Context, in *Data, opts ...grpc.CallOption) (*Response, error)
}

type resultClient struct {
	cc  grpc.ClientConnInterface
	pkg string
}

func NewResultClient(cc grpc.ClientConnInterface, pkg string) ResultClient {
	return &resultClient{cc: cc, pkg: pkg}
}

func (c *resultClient) SetTableHeader(ctx context.Context, in *TableHeader, opts ...grpc.CallOption) (*Response, error) {
	return invokeForResponse(ctx, c.cc, FullMethodName(c.pkg, ResultService, MethodSetTableHeader), in.toProto(), opts)
}

func (c *resultClient) PushData(ctx context.Context, in *Data, opts ...grpc.CallOption) (*Response, error) {
	return invokeForResponse(ctx, c.cc, FullMethodName(c.pkg, ResultService, MethodPushData), in.toProto(), opts)
}

// LogClient is the client API for the Log service. method is one of MethodDebug,
// MethodInfo, MethodWarn or MethodError.
type LogClient interface {
	Log(ctx context.Context, method string, in *LogBody, opts ...grpc.CallOption) (*Response, error)
}

type logClient struct {
	cc  grpc.ClientConnInterface
	pkg string
}

func NewLogClient(cc grpc.ClientConnInterface, pkg string) LogClient {
	return &logClient{cc: cc, pkg: pkg}
}

func (c *logClient) Log(ctx context.Context, method string, in *LogBody, opts ...grpc.CallOption) (*Response, error) {
	return invokeForResponse(ctx, c.cc, FullMethodName(c.pkg, LogService, method), in.toProto(), opts)
}

func invokeForResponse(ctx context.Context, cc grpc.ClientConnInterface, method string, in proto.Message, opts []grpc.CallOption) (*Response, error) {
	out := dynamicpb.NewMessage(responseDesc)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return responseFromProto(out), nil
}

// ---------------------------------------------------------------------------
// Servers (implemented by the host; used here by the mock host)

// ParameterServer is the server API for the Parameter service.
type ParameterServer interface {
	GetInputJSONString(context.Context) (*Data, error)
}

// ResultServer is the server API for the Result service.
type ResultServer interface {
	SetTableHeader(context.Context, *TableHeader) (*Response, error)
	PushData(context.Context, *Data) (*Response, error)
}

// LogServer is the server API for the Log service. level is the method name.
type LogServer interface {
	Log(ctx context.Context, level string, in *LogBody) (*Response, error)
}

func RegisterParameterServer(s grpc.ServiceRegistrar, pkg string, srv ParameterServer) {
	getInput := FullMethodName(pkg, ParameterService, MethodGetInputJSONString)
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName(pkg, ParameterService),
		HandlerType: (*ParameterServer)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: MethodGetInputJSONString,
			Handler: unaryHandler(getInput,
				func() proto.Message { return &emptypb.Empty{} },
				func(srv any, ctx context.Context, _ proto.Message) (proto.Message, error) {
					out, err := srv.(ParameterServer).GetInputJSONString(ctx)
					if err != nil {
						return nil, err
					}
					return out.toProto(), nil
				}),
		}},
		Metadata: protoFileName,
	}, srv)
}

func RegisterResultServer(s grpc.ServiceRegistrar, pkg string, srv ResultServer) {
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName(pkg, ResultService),
		HandlerType: (*ResultServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: MethodSetTableHeader,
				Handler: unaryHandler(FullMethodName(pkg, ResultService, MethodSetTableHeader),
					func() proto.Message { return dynamicpb.NewMessage(tableHeaderDesc) },
					func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
						return respond(srv.(ResultServer).SetTableHeader(ctx, tableHeaderFromProto(in.(*dynamicpb.Message))))
					}),
			},
			{
				MethodName: MethodPushData,
				Handler: unaryHandler(FullMethodName(pkg, ResultService, MethodPushData),
					func() proto.Message { return dynamicpb.NewMessage(dataDesc) },
					func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
						return respond(srv.(ResultServer).PushData(ctx, dataFromProto(in.(*dynamicpb.Message))))
					}),
			},
		},
		Metadata: protoFileName,
	}, srv)
}

func RegisterLogServer(s grpc.ServiceRegistrar, pkg string, srv LogServer) {
	levels := []string{MethodDebug, MethodInfo, MethodWarn, MethodError}
	methods := make([]grpc.MethodDesc, 0, len(levels))
	for _, level := range levels {
		methods = append(methods, grpc.MethodDesc{
			MethodName: level,
			Handler: unaryHandler(FullMethodName(pkg, LogService, level),
				func() proto.Message { return dynamicpb.NewMessage(logBodyDesc) },
				func(srv any, ctx context.Context, in proto.Message) (proto.Message, error) {
					return respond(srv.(LogServer).Log(ctx, level, logBodyFromProto(in.(*dynamicpb.Message))))
				}),
		})
	}
	s.RegisterService(&grpc.ServiceDesc{
		ServiceName: ServiceName(pkg, LogService),
		HandlerType: (*LogServer)(nil),
		Methods:     methods,
		Metadata:    protoFileName,
	}, srv)
}

func respond(out *Response, err error) (proto.Message, error) {
	if err != nil {
		return nil, err
	}
	return out.toProto(), nil
}

func unaryHandler(
	fullMethod string,
	newIn func() proto.Message,
	invoke func(srv any, ctx context.Context, in proto.Message) (proto.Message, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := newIn()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return invoke(srv, ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
			return invoke(srv, ctx, req.(proto.Message))
		})
	}
}
