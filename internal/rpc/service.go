// Package rpc carries the gRPC plumbing shared by the domain handlers.
//
// Services are registered from hand-written descriptors. Every method takes
// and returns a google.protobuf.Struct holding the same JSON document the
// HTTP API uses, so no generated stubs are needed.
package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const Package = "communitystore.v1"

type Handler func(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)

// Service is implemented by each domain's gRPC handler.
type Service interface {
	ServiceDesc() *grpc.ServiceDesc
}

// Register adds every service to the server.
func Register(s *grpc.Server, services ...Service) {
	for _, svc := range services {
		s.RegisterService(svc.ServiceDesc(), svc)
	}
}

func NewServiceDesc(service string, methods ...grpc.MethodDesc) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: Package + "." + service,
		HandlerType: (*Service)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "communitystore/v1/" + service,
	}
}

// Unary adapts h to a method of service, running it through the server's
// interceptor chain.
func Unary(service, method string, h Handler) grpc.MethodDesc {
	fullMethod := "/" + Package + "." + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return h(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return h(ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Decode copies the request document into dst using its json tags.
func Decode(req *structpb.Struct, dst interface{}) error {
	raw, err := protojson.Marshal(req)
	if err != nil {
		return status.Error(codes.InvalidArgument, err.Error())
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return status.Error(codes.InvalidArgument, fmt.Sprintf("malformed request: %v", err))
	}
	return nil
}

// Encode renders v as a response document. Slices are wrapped under key.
func Encode(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(raw, out); err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return out, nil
}

// EncodeList renders a slice under key, with its length as "total".
func EncodeList(key string, items interface{}, total int) (*structpb.Struct, error) {
	return Encode(map[string]interface{}{key: items, "total": total})
}
