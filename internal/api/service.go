package api

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "tweeter.v1.Tweeter"

// Full method names, as seen by interceptors.
const (
	MethodSignup      = "/" + ServiceName + "/Signup"
	MethodSignin      = "/" + ServiceName + "/Signin"
	MethodLogout      = "/" + ServiceName + "/Logout"
	MethodRefresh     = "/" + ServiceName + "/Refresh"
	MethodGetUser     = "/" + ServiceName + "/GetUser"
	MethodCreateTweet = "/" + ServiceName + "/CreateTweet"
	MethodGetTweet    = "/" + ServiceName + "/GetTweet"
	MethodUpdateTweet = "/" + ServiceName + "/UpdateTweet"
	MethodDeleteTweet = "/" + ServiceName + "/DeleteTweet"
)

// TweeterServer is implemented by the server side of the service.
type TweeterServer interface {
	Signup(context.Context, *SignupRequest) (*TokensResponse, error)
	Signin(context.Context, *SigninRequest) (*TokensResponse, error)
	Logout(context.Context, *LogoutRequest) (*Empty, error)
	Refresh(context.Context, *RefreshRequest) (*TokensResponse, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	CreateTweet(context.Context, *CreateTweetRequest) (*Tweet, error)
	GetTweet(context.Context, *GetTweetRequest) (*Tweet, error)
	UpdateTweet(context.Context, *UpdateTweetRequest) (*Tweet, error)
	DeleteTweet(context.Context, *DeleteTweetRequest) (*Empty, error)
}

// RegisterTweeterServer attaches srv to s.
func RegisterTweeterServer(s grpc.ServiceRegistrar, srv TweeterServer) {
	s.RegisterService(&tweeterServiceDesc, srv)
}

var tweeterServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TweeterServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Signup", Handler: unary(MethodSignup, TweeterServer.Signup)},
		{MethodName: "Signin", Handler: unary(MethodSignin, TweeterServer.Signin)},
		{MethodName: "Logout", Handler: unary(MethodLogout, TweeterServer.Logout)},
		{MethodName: "Refresh", Handler: unary(MethodRefresh, TweeterServer.Refresh)},
		{MethodName: "GetUser", Handler: unary(MethodGetUser, TweeterServer.GetUser)},
		{MethodName: "CreateTweet", Handler: unary(MethodCreateTweet, TweeterServer.CreateTweet)},
		{MethodName: "GetTweet", Handler: unary(MethodGetTweet, TweeterServer.GetTweet)},
		{MethodName: "UpdateTweet", Handler: unary(MethodUpdateTweet, TweeterServer.UpdateTweet)},
		{MethodName: "DeleteTweet", Handler: unary(MethodDeleteTweet, TweeterServer.DeleteTweet)},
	},
	Streams: []grpc.StreamDesc{},
}

// unary adapts a typed server method to grpc.MethodHandler, running it
// through the server's interceptor chain.
func unary[Req, Resp any](fullMethod string, call func(TweeterServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TweeterServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TweeterServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// TweeterClient is the client side of the service.
type TweeterClient interface {
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*TokensResponse, error)
	Signin(ctx context.Context, in *SigninRequest, opts ...grpc.CallOption) (*TokensResponse, error)
	Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error)
	Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokensResponse, error)
	GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error)
	CreateTweet(ctx context.Context, in *CreateTweetRequest, opts ...grpc.CallOption) (*Tweet, error)
	GetTweet(ctx context.Context, in *GetTweetRequest, opts ...grpc.CallOption) (*Tweet, error)
	UpdateTweet(ctx context.Context, in *UpdateTweetRequest, opts ...grpc.CallOption) (*Tweet, error)
	DeleteTweet(ctx context.Context, in *DeleteTweetRequest, opts ...grpc.CallOption) (*Empty, error)
}

type tweeterClient struct {
	cc grpc.ClientConnInterface
}

func NewTweeterClient(cc grpc.ClientConnInterface) TweeterClient {
	return &tweeterClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tweeterClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodSignup, in, opts)
}

func (c *tweeterClient) Signin(ctx context.Context, in *SigninRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodSignin, in, opts)
}

func (c *tweeterClient) Logout(ctx context.Context, in *LogoutRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodLogout, in, opts)
}

func (c *tweeterClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*TokensResponse, error) {
	return invoke[TokensResponse](ctx, c.cc, MethodRefresh, in, opts)
}

func (c *tweeterClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpc.CallOption) (*User, error) {
	return invoke[User](ctx, c.cc, MethodGetUser, in, opts)
}

func (c *tweeterClient) CreateTweet(ctx context.Context, in *CreateTweetRequest, opts ...grpc.CallOption) (*Tweet, error) {
	return invoke[Tweet](ctx, c.cc, MethodCreateTweet, in, opts)
}

func (c *tweeterClient) GetTweet(ctx context.Context, in *GetTweetRequest, opts ...grpc.CallOption) (*Tweet, error) {
	return invoke[Tweet](ctx, c.cc, MethodGetTweet, in, opts)
}

func (c *tweeterClient) UpdateTweet(ctx context.Context, in *UpdateTweetRequest, opts ...grpc.CallOption) (*Tweet, error) {
	return invoke[Tweet](ctx, c.cc, MethodUpdateTweet, in, opts)
}

func (c *tweeterClient) DeleteTweet(ctx context.Context, in *DeleteTweetRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteTweet, in, opts)
}
