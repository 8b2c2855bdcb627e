package grpc

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const (
	claimsKey        ctxKey = "claims"
	refreshClaimsKey ctxKey = "refreshClaims"
)

// publicMethods need no token. Refresh authenticates with the refresh token
// instead of the access token. Any other tweeter method requires an access
// token; methods of other services (health) are left alone.
var (
	publicMethods = map[string]bool{
		api.MethodSignup:  true,
		api.MethodSignin:  true,
		api.MethodGetUser: true,
	}
	refreshMethods = map[string]bool{
		api.MethodRefresh: true,
	}
)

const servicePrefix = "/" + api.ServiceName + "/"

func (s *GRPCServer) authInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	method := info.FullMethod

	switch {
	case !strings.HasPrefix(method, servicePrefix):
		return handler(ctx, req)
	case publicMethods[method]:
		return handler(ctx, req)
	case refreshMethods[method]:
		token := tokenFromMetadata(ctx, common.RefreshTokenHeaderName)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		claims, err := s.tokens.VerifyRefresh(token)
		if err != nil {
			return nil, tokenError(err)
		}
		ctx = context.WithValue(ctx, refreshClaimsKey, &auth.RefreshClaims{Claims: *claims, RefreshToken: token})
	default:
		token := tokenFromMetadata(ctx, common.AccessTokenHeaderName)
		if token == "" {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		claims, err := s.tokens.VerifyAccess(token)
		if err != nil {
			return nil, tokenError(err)
		}
		ctx = context.WithValue(ctx, claimsKey, claims)
	}

	return handler(ctx, req)
}

func (s *GRPCServer) loggingInterceptor(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
	start := time.Now()
	resp, err := handler(ctx, req)

	s.logger.Info(ctx, "request",
		"method", info.FullMethod,
		"code", status.Code(err).String(),
		"duration", time.Since(start),
	)
	return resp, err
}

func tokenFromMetadata(ctx context.Context, key string) string {
	md, ok := metadata.FromIncomingContext(ctx)
	if !ok {
		return ""
	}
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

// tokenError tells the client whether refreshing can help.
func tokenError(err error) error {
	if errors.Is(err, common.ErrTokenExpired) {
		return status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
	}
	return status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
}

// ClaimsFromContext returns the access-token claims put there by the
// interceptor.
func ClaimsFromContext(ctx context.Context) (*auth.Claims, bool) {
	c, ok := ctx.Value(claimsKey).(*auth.Claims)
	return c, ok
}

// RefreshClaimsFromContext returns the verified refresh claims of a
// Refresh call.
func RefreshClaimsFromContext(ctx context.Context) (*auth.RefreshClaims, bool) {
	c, ok := ctx.Value(refreshClaimsKey).(*auth.RefreshClaims)
	return c, ok
}
