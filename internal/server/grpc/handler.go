package grpc

import (
	"context"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *api.SignupRequest) (*api.TokensResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	pair, err := s.auth.Signup(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", req.Username)
	return tokensResponse(pair), nil
}

func (s *GRPCServer) Signin(ctx context.Context, req *api.SigninRequest) (*api.TokensResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, s.toStatus(ctx, err)
	}

	pair, err := s.auth.Signin(ctx, req.Username, req.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokensResponse(pair), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *api.LogoutRequest) (*api.Empty, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	if err := s.auth.Logout(ctx, claims.UserID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) Refresh(ctx context.Context, _ *api.RefreshRequest) (*api.TokensResponse, error) {
	claims, ok := RefreshClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	pair, err := s.auth.Refresh(ctx, claims.UserID, claims.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tokensResponse(pair), nil
}

func (s *GRPCServer) GetUser(ctx context.Context, req *api.GetUserRequest) (*api.User, error) {
	u, err := s.users.GetUser(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.User{ID: u.ID, Username: u.UserName, CreatedAt: u.CreatedAt, UpdatedAt: u.UpdatedAt}, nil
}

func (s *GRPCServer) CreateTweet(ctx context.Context, req *api.CreateTweetRequest) (*api.Tweet, error) {
	claims, ok := ClaimsFromContext(ctx)
	if !ok {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	t, err := s.tweets.Create(ctx, claims.UserID, req.Text)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tweetResponse(t), nil
}

func (s *GRPCServer) GetTweet(ctx context.Context, req *api.GetTweetRequest) (*api.Tweet, error) {
	t, err := s.tweets.Get(ctx, req.ID)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tweetResponse(t), nil
}

func (s *GRPCServer) UpdateTweet(ctx context.Context, req *api.UpdateTweetRequest) (*api.Tweet, error) {
	t, err := s.tweets.Update(ctx, req.ID, req.Text)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return tweetResponse(t), nil
}

func (s *GRPCServer) DeleteTweet(ctx context.Context, req *api.DeleteTweetRequest) (*api.Empty, error) {
	if err := s.tweets.Delete(ctx, req.ID); err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return &api.Empty{}, nil
}

func tokensResponse(p *services.TokenPair) *api.TokensResponse {
	return &api.TokensResponse{AccessToken: p.AccessToken, RefreshToken: p.RefreshToken}
}

func tweetResponse(t *models.Tweet) *api.Tweet {
	return &api.Tweet{ID: t.ID, AuthorID: t.AuthorID, Text: t.Text, CreatedAt: t.CreatedAt, UpdatedAt: t.UpdatedAt}
}
