// Package proto describes the certledger.Ledger gRPC service. The service
// has a single method that dispatches on a function name. Request and
// response are google.protobuf.Struct values:
//
//	request:  {"function": "ReadCourse", "args": ["course-1"]}
//	response: {"payload": {...}}
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	ServiceName       = "certledger.Ledger"
	InvokeFullMethod  = "/" + ServiceName + "/Invoke"
	FieldFunction     = "function"
	FieldArgs         = "args"
	FieldPayload      = "payload"
	invokeMethodName  = "Invoke"
	serviceDescSource = "certledger/ledger.proto"
)

// LedgerServer is the server API for the Ledger service.
type LedgerServer interface {
	Invoke(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

// LedgerClient is the client API for the Ledger service.
type LedgerClient interface {
	Invoke(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type ledgerClient struct {
	cc grpc.ClientConnInterface
}

func NewLedgerClient(cc grpc.ClientConnInterface) LedgerClient {
	return &ledgerClient{cc: cc}
}

func (c *ledgerClient) Invoke(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, InvokeFullMethod, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterLedgerServer registers srv on s.
func RegisterLedgerServer(s grpc.ServiceRegistrar, srv LedgerServer) {
	s.RegisterService(&LedgerServiceDesc, srv)
}

// NewInvokeRequest builds a request for function with the given arguments.
func NewInvokeRequest(function string, args ...string) *structpb.Struct {
	values := make([]*structpb.Value, 0, len(args))
	for _, arg := range args {
		values = append(values, structpb.NewStringValue(arg))
	}
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		FieldFunction: structpb.NewStringValue(function),
		FieldArgs:     structpb.NewListValue(&structpb.ListValue{Values: values}),
	}}
}

func invokeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(LedgerServer).Invoke(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: InvokeFullMethod,
	}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(LedgerServer).Invoke(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// LedgerServiceDesc is the grpc.ServiceDesc for the Ledger service.
var LedgerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LedgerServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: invokeMethodName,
			Handler:    invokeHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceDescSource,
}
