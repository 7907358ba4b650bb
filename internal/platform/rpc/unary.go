package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// Unary builds the MethodDesc for one unary RPC of service. The request is decoded into a
// fresh Req, passed through the server's interceptor chain, validated, and handed to call.
//
// call is usually a method expression such as (*Handler).CreateTeam.
func Unary[S, Req, Resp any](service, method string, call func(S, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			handler := func(ctx context.Context, req any) (any, error) {
				r := req.(*Req)
				if err := Validate(r); err != nil {
					return nil, err
				}
				resp, err := call(srv.(S), ctx, r)
				if err != nil {
					return nil, err
				}
				return resp, nil
			}
			if interceptor == nil {
				return handler(ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Invoke calls a unary JSON RPC on cc. method is the full method name, e.g. "/pkg.Service/Method".
func Invoke[Req, Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, req *Req, opts ...grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, req, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
