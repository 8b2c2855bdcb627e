// Package grpc exposes the services over gRPC using the api package's
// service descriptor.
package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/services"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

type AuthService interface {
	Signup(ctx context.Context, username, password string) (*services.TokenPair, error)
	Signin(ctx context.Context, username, password string) (*services.TokenPair, error)
	Logout(ctx context.Context, userID string) error
	Refresh(ctx context.Context, userID, refreshToken string) (*services.TokenPair, error)
}

type UserService interface {
	GetUser(ctx context.Context, id string) (*models.User, error)
}

type TweetService interface {
	Create(ctx context.Context, authorID, text string) (*models.Tweet, error)
	Get(ctx context.Context, id string) (*models.Tweet, error)
	Update(ctx context.Context, id, text string) (*models.Tweet, error)
	Delete(ctx context.Context, id string) error
}

// TokenVerifier checks access and refresh tokens.
type TokenVerifier interface {
	VerifyAccess(token string) (*auth.Claims, error)
	VerifyRefresh(token string) (*auth.Claims, error)
}

type GRPCServer struct {
	address string
	auth    AuthService
	users   UserService
	tweets  TweetService
	tokens  TokenVerifier
	logger  logging.Logger
	health  *health.Server
}

func NewGRPCServer(address string, l logging.Logger, as AuthService, us UserService, ts TweetService, tokens TokenVerifier) *GRPCServer {
	return &GRPCServer{
		address: address,
		logger:  l.With("module", "grpc_server"),
		auth:    as,
		users:   us,
		tweets:  ts,
		tokens:  tokens,
	}
}

// newServer builds the grpc.Server with the tweeter and health services.
func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.authInterceptor))

	api.RegisterTweeterServer(srv, s)

	s.health = health.NewServer()
	s.health.SetServingStatus(api.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, s.health)

	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listen)
}

// Serve serves on lis until ctx is done, then stops gracefully.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {
	srv := s.newServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		s.health.Shutdown()
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	return srv.Serve(lis)
}
