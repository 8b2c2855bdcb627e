package client

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/sync/singleflight"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// tokenlessMethods never carry the access token.
var tokenlessMethods = map[string]bool{
	api.MethodSignup:  true,
	api.MethodSignin:  true,
	api.MethodRefresh: true,
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	api         api.TweeterClient
	health      healthpb.HealthClient

	mu           sync.Mutex
	accessToken  string
	refreshToken string

	// refreshes collapses concurrent refreshes into one; the server
	// accepts each refresh token only once.
	refreshes singleflight.Group
}

var _ Client = (*GRPCClient)(nil)

// NewGRPCClient dials endpointURL lazily. Extra dial options are appended
// after the defaults (insecure transport, token interceptor).
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.api = api.NewTweeterClient(conn)
	c.health = healthpb.NewHealthClient(conn)
	return c, nil
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AccessTokenHeaderName, token)
	return metadata.NewOutgoingContext(ctx, md)
}

func (c *GRPCClient) tokens() (string, string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken, c.refreshToken
}

func (c *GRPCClient) setTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = access
	c.refreshToken = refresh
}

func (c *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if tokenlessMethods[method] {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	access, _ := c.tokens()
	if access == "" {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
	if err == nil {
		return err
	}

	st, ok := status.FromError(err)
	if !ok || st.Code() != codes.Unauthenticated || st.Message() != common.ErrTokenExpired.Error() {
		return err
	}

	if rerr := c.refreshExpired(ctx, access); rerr != nil {
		return err
	}

	access, _ = c.tokens()
	return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)
}

// refreshExpired replaces the pair whose access token was staleAccess.
// If another call already replaced it, there is nothing to do.
func (c *GRPCClient) refreshExpired(ctx context.Context, staleAccess string) error {
	_, err, _ := c.refreshes.Do("refresh", func() (any, error) {
		access, refresh := c.tokens()
		if access != staleAccess {
			return nil, nil
		}
		if refresh == "" {
			return nil, ErrNotLoggedIn
		}
		return nil, c.refresh(ctx, refresh)
	})
	return err
}

func (c *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	ctx = metadata.NewOutgoingContext(ctx, metadata.Pairs(common.RefreshTokenHeaderName, refreshToken))
	resp, err := c.api.Refresh(ctx, &api.RefreshRequest{})
	if err != nil {
		return err
	}
	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// Ping asks the health service whether the tweeter service is serving.
func (c *GRPCClient) Ping(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{Service: api.ServiceName})
	if err != nil {
		return c.mapError(err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return ErrUnavailable
	}
	return nil
}

func (c *GRPCClient) Signup(ctx context.Context, username, password string) error {
	resp, err := c.api.Signup(ctx, &api.SignupRequest{Username: username, Password: password})
	if err != nil {
		return c.mapError(err)
	}
	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

func (c *GRPCClient) Signin(ctx context.Context, username, password string) error {
	resp, err := c.api.Signin(ctx, &api.SigninRequest{Username: username, Password: password})
	if err != nil {
		return c.mapError(err)
	}
	c.setTokens(resp.AccessToken, resp.RefreshToken)
	return nil
}

// Logout ends the session on the server and forgets the local tokens.
func (c *GRPCClient) Logout(ctx context.Context) error {
	if !c.LoggedIn() {
		return ErrNotLoggedIn
	}
	if _, err := c.api.Logout(ctx, &api.LogoutRequest{}); err != nil {
		return c.mapError(err)
	}
	c.setTokens("", "")
	return nil
}

// Refresh exchanges the current refresh token for a new pair.
func (c *GRPCClient) Refresh(ctx context.Context) error {
	_, refresh := c.tokens()
	if refresh == "" {
		return ErrNotLoggedIn
	}
	if err := c.refresh(ctx, refresh); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) LoggedIn() bool {
	access, _ := c.tokens()
	return access != ""
}

// CurrentUserID reads the subject of the held access token. The signature
// is not checked here; the server does that on every call.
func (c *GRPCClient) CurrentUserID() (string, error) {
	access, _ := c.tokens()
	if access == "" {
		return "", ErrNotLoggedIn
	}
	token, _, err := jwt.NewParser().ParseUnverified(access, &jwt.RegisteredClaims{})
	if err != nil {
		return "", fmt.Errorf("parse access token: %w", err)
	}
	sub, err := token.Claims.GetSubject()
	if err != nil || sub == "" {
		return "", fmt.Errorf("access token has no subject")
	}
	return sub, nil
}

func (c *GRPCClient) GetUser(ctx context.Context, id string) (*api.User, error) {
	resp, err := c.api.GetUser(ctx, &api.GetUserRequest{ID: id})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) CreateTweet(ctx context.Context, text string) (*api.Tweet, error) {
	resp, err := c.api.CreateTweet(ctx, &api.CreateTweetRequest{Text: text})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) GetTweet(ctx context.Context, id string) (*api.Tweet, error) {
	resp, err := c.api.GetTweet(ctx, &api.GetTweetRequest{ID: id})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) UpdateTweet(ctx context.Context, id, text string) (*api.Tweet, error) {
	resp, err := c.api.UpdateTweet(ctx, &api.UpdateTweetRequest{ID: id, Text: text})
	if err != nil {
		return nil, c.mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) DeleteTweet(ctx context.Context, id string) error {
	if _, err := c.api.DeleteTweet(ctx, &api.DeleteTweetRequest{ID: id}); err != nil {
		return c.mapError(err)
	}
	return nil
}

func (c *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.AlreadyExists:
		return common.ErrorConflict
	case codes.NotFound:
		return common.ErrorNotFound
	case codes.InvalidArgument:
		msg := strings.TrimPrefix(st.Message(), common.ErrorValidation.Error()+": ")
		return fmt.Errorf("%w: %s", common.ErrorValidation, msg)
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
