package client

import (
	"context"
	"errors"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

const expiredToken = "EXPIRED"

/*************
 * Fake server
 *************/

type fakeServer struct {
	mu sync.Mutex

	validAccess  string
	validRefresh string

	refreshCalls     int
	signinSawAccess  bool

	// refreshGate, when set, holds Refresh until closed. expiredSeen gets a
	// signal each time an expired token is rejected.
	refreshGate chan struct{}
	expiredSeen chan struct{}
	lastCreatedTweet string
}

func (f *fakeServer) issue(access, refresh string) *api.TokensResponse {
	f.validAccess = access
	f.validRefresh = refresh
	return &api.TokensResponse{AccessToken: access, RefreshToken: refresh}
}

func mdValue(ctx context.Context, key string) string {
	md, _ := metadata.FromIncomingContext(ctx)
	if v := md.Get(key); len(v) > 0 {
		return v[0]
	}
	return ""
}

func (f *fakeServer) checkAccess(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	switch tok := mdValue(ctx, common.AccessTokenHeaderName); {
	case tok == "":
		return status.Error(codes.Unauthenticated, "missing token")
	case tok == expiredToken:
		if f.expiredSeen != nil {
			select {
			case f.expiredSeen <- struct{}{}:
			default:
			}
		}
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	case tok != f.validAccess:
		return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}
	return nil
}

func (f *fakeServer) Signup(ctx context.Context, in *api.SignupRequest) (*api.TokensResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if in.Username == "taken" {
		return nil, status.Error(codes.AlreadyExists, common.ErrorConflict.Error())
	}
	return f.issue("A1", "R1"), nil
}

func (f *fakeServer) Signin(ctx context.Context, in *api.SigninRequest) (*api.TokensResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signinSawAccess = mdValue(ctx, common.AccessTokenHeaderName) != ""
	if in.Password != "Secret1!" {
		return nil, status.Error(codes.PermissionDenied, common.ErrorUnauthorized.Error())
	}
	return f.issue("A1", "R1"), nil
}

func (f *fakeServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.Empty, error) {
	if err := f.checkAccess(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.validRefresh = ""
	return &api.Empty{}, nil
}

func (f *fakeServer) Refresh(ctx context.Context, _ *api.RefreshRequest) (*api.TokensResponse, error) {
	if f.refreshGate != nil {
		<-f.refreshGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshCalls++
	if mdValue(ctx, common.AccessTokenHeaderName) != "" {
		return nil, status.Error(codes.Internal, "refresh carried access token")
	}
	tok := mdValue(ctx, common.RefreshTokenHeaderName)
	if tok == "" || tok != f.validRefresh {
		return nil, status.Error(codes.PermissionDenied, common.ErrorUnauthorized.Error())
	}
	return f.issue("A2", "R2"), nil
}

func (f *fakeServer) GetUser(ctx context.Context, in *api.GetUserRequest) (*api.User, error) {
	if in.ID == "missing" {
		return nil, status.Error(codes.NotFound, common.ErrorNotFound.Error())
	}
	return &api.User{ID: in.ID, Username: "alice"}, nil
}

func (f *fakeServer) CreateTweet(ctx context.Context, in *api.CreateTweetRequest) (*api.Tweet, error) {
	if err := f.checkAccess(ctx); err != nil {
		return nil, err
	}
	if in.Text == "" {
		return nil, status.Error(codes.InvalidArgument, "validation error: text is empty")
	}
	f.mu.Lock()
	f.lastCreatedTweet = in.Text
	f.mu.Unlock()
	return &api.Tweet{ID: "t-1", AuthorID: "u-1", Text: in.Text}, nil
}

func (f *fakeServer) GetTweet(ctx context.Context, in *api.GetTweetRequest) (*api.Tweet, error) {
	if err := f.checkAccess(ctx); err != nil {
		return nil, err
	}
	if in.ID != "t-1" {
		return nil, status.Error(codes.NotFound, common.ErrorNotFound.Error())
	}
	return &api.Tweet{ID: "t-1", AuthorID: "u-1", Text: "hello"}, nil
}

func (f *fakeServer) UpdateTweet(ctx context.Context, in *api.UpdateTweetRequest) (*api.Tweet, error) {
	if err := f.checkAccess(ctx); err != nil {
		return nil, err
	}
	return &api.Tweet{ID: in.ID, AuthorID: "u-1", Text: in.Text}, nil
}

func (f *fakeServer) DeleteTweet(ctx context.Context, in *api.DeleteTweetRequest) (*api.Empty, error) {
	if err := f.checkAccess(ctx); err != nil {
		return nil, err
	}
	if in.ID != "t-1" {
		return nil, status.Error(codes.NotFound, common.ErrorNotFound.Error())
	}
	return &api.Empty{}, nil
}

func newTestClient(t *testing.T, f *fakeServer) (*GRPCClient, *health.Server) {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	api.RegisterTweeterServer(s, f)
	hs := health.NewServer()
	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, hs
}

func testCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

/*************
 * Interceptor
 *************/

func TestInterceptor_RefreshesOnExpiredAndRetries(t *testing.T) {
	f := &fakeServer{validRefresh: "R1"}
	c, _ := newTestClient(t, f)
	c.setTokens(expiredToken, "R1")

	tw, err := c.CreateTweet(testCtx(t), "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", tw.Text)

	assert.Equal(t, 1, f.refreshCalls)
	access, refresh := c.tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)
}

func TestInterceptor_ConcurrentExpiredCallsRefreshOnce(t *testing.T) {
	f := &fakeServer{
		validRefresh: "R1",
		refreshGate:  make(chan struct{}),
		expiredSeen:  make(chan struct{}, 2),
	}
	c, _ := newTestClient(t, f)
	c.setTokens(expiredToken, "R1")
	ctx := testCtx(t)

	const callers = 2
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		go func() {
			_, err := c.CreateTweet(ctx, "hello")
			errs <- err
		}()
	}

	for i := 0; i < callers; i++ {
		select {
		case <-f.expiredSeen:
		case <-ctx.Done():
			t.Fatal("calls did not reach the server")
		}
	}
	close(f.refreshGate)

	for i := 0; i < callers; i++ {
		require.NoError(t, <-errs)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, 1, f.refreshCalls)
	access, refresh := c.tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)
}

func TestInterceptor_RefreshFailureReturnsOriginalError(t *testing.T) {
	f := &fakeServer{validRefresh: "R1"}
	c, _ := newTestClient(t, f)
	c.setTokens(expiredToken, "stale")

	_, err := c.CreateTweet(testCtx(t), "hello")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, 1, f.refreshCalls)

	access, refresh := c.tokens()
	assert.Equal(t, expiredToken, access)
	assert.Equal(t, "stale", refresh)
}

func TestInterceptor_InvalidTokenDoesNotRefresh(t *testing.T) {
	f := &fakeServer{validAccess: "A1", validRefresh: "R1"}
	c, _ := newTestClient(t, f)
	c.setTokens("forged", "R1")

	_, err := c.GetTweet(testCtx(t), "t-1")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.refreshCalls)
}

func TestInterceptor_NoRefreshTokenNoRetry(t *testing.T) {
	f := &fakeServer{}
	c, _ := newTestClient(t, f)
	c.setTokens(expiredToken, "")

	_, err := c.GetTweet(testCtx(t), "t-1")
	require.ErrorIs(t, err, ErrUnauthorized)
	assert.Zero(t, f.refreshCalls)
}

func TestInterceptor_SigninCarriesNoAccessToken(t *testing.T) {
	f := &fakeServer{}
	c, _ := newTestClient(t, f)
	c.setTokens("A0", "R0")

	require.NoError(t, c.Signin(testCtx(t), "alice", "Secret1!"))
	assert.False(t, f.signinSawAccess)
}

/*************
 * Operations
 *************/

func TestSignupSigninLogout(t *testing.T) {
	f := &fakeServer{}
	c, _ := newTestClient(t, f)
	ctx := testCtx(t)

	assert.False(t, c.LoggedIn())
	require.NoError(t, c.Signup(ctx, "alice", "Secret1!"))
	assert.True(t, c.LoggedIn())

	require.NoError(t, c.Logout(ctx))
	assert.False(t, c.LoggedIn())
	require.ErrorIs(t, c.Logout(ctx), ErrNotLoggedIn)

	require.ErrorIs(t, c.Signin(ctx, "alice", "wrong"), ErrUnauthorized)
	assert.False(t, c.LoggedIn())

	require.NoError(t, c.Signin(ctx, "alice", "Secret1!"))
	assert.True(t, c.LoggedIn())
}

func TestSignup_Conflict(t *testing.T) {
	c, _ := newTestClient(t, &fakeServer{})

	err := c.Signup(testCtx(t), "taken", "Secret1!")
	require.ErrorIs(t, err, common.ErrorConflict)
	assert.False(t, c.LoggedIn())
}

func TestRefresh(t *testing.T) {
	f := &fakeServer{}
	c, _ := newTestClient(t, f)
	ctx := testCtx(t)

	require.ErrorIs(t, c.Refresh(ctx), ErrNotLoggedIn)

	require.NoError(t, c.Signin(ctx, "alice", "Secret1!"))
	require.NoError(t, c.Refresh(ctx))
	access, refresh := c.tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)

	c.setTokens("A2", "R1")
	require.ErrorIs(t, c.Refresh(ctx), ErrUnauthorized)
}

func TestGetUser(t *testing.T) {
	c, _ := newTestClient(t, &fakeServer{})
	ctx := testCtx(t)

	u, err := c.GetUser(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", u.Username)

	_, err = c.GetUser(ctx, "missing")
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestTweetCRUD(t *testing.T) {
	f := &fakeServer{}
	c, _ := newTestClient(t, f)
	ctx := testCtx(t)
	require.NoError(t, c.Signin(ctx, "alice", "Secret1!"))

	tw, err := c.CreateTweet(ctx, "hello")
	require.NoError(t, err)
	assert.Equal(t, "t-1", tw.ID)
	assert.Equal(t, "hello", f.lastCreatedTweet)

	_, err = c.CreateTweet(ctx, "")
	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "validation error: text is empty", err.Error())

	got, err := c.GetTweet(ctx, "t-1")
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Text)

	upd, err := c.UpdateTweet(ctx, "t-1", "bye")
	require.NoError(t, err)
	assert.Equal(t, "bye", upd.Text)

	require.NoError(t, c.DeleteTweet(ctx, "t-1"))
	require.ErrorIs(t, c.DeleteTweet(ctx, "t-2"), common.ErrorNotFound)
}

func TestPing(t *testing.T) {
	c, hs := newTestClient(t, &fakeServer{})

	require.NoError(t, c.Ping(testCtx(t)))

	hs.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	require.ErrorIs(t, c.Ping(testCtx(t)), ErrUnavailable)
}

func TestPing_ServerDown(t *testing.T) {
	lis := bufconn.Listen(1 << 10)
	require.NoError(t, lis.Close())

	c, err := NewGRPCClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.ErrorIs(t, c.Ping(ctx), ErrUnavailable)
}

func TestCurrentUserID(t *testing.T) {
	c := &GRPCClient{}

	_, err := c.CurrentUserID()
	require.ErrorIs(t, err, ErrNotLoggedIn)

	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "u-42"}).SignedString([]byte("k"))
	require.NoError(t, err)
	c.setTokens(tok, "r")

	id, err := c.CurrentUserID()
	require.NoError(t, err)
	assert.Equal(t, "u-42", id)

	c.setTokens("garbage", "r")
	_, err = c.CurrentUserID()
	require.Error(t, err)
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{"permission denied", status.Error(codes.PermissionDenied, "x"), ErrUnauthorized},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
		{"already exists", status.Error(codes.AlreadyExists, "x"), common.ErrorConflict},
		{"not found", status.Error(codes.NotFound, "x"), common.ErrorNotFound},
		{"invalid argument", status.Error(codes.InvalidArgument, "x"), common.ErrorValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.mapError(tt.in), tt.want)
		})
	}

	assert.NoError(t, c.mapError(nil))

	internal := status.Error(codes.Internal, "boom")
	got := c.mapError(internal)
	assert.True(t, errors.Is(got, internal))
	assert.Contains(t, got.Error(), "rpc error")
}
