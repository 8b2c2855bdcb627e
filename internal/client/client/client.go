package client

import (
	"context"

	"github.com/dmitrijs2005/tweeter/internal/api"
)

// Client is the transport-agnostic contract the CLI talks to.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Signup(ctx context.Context, username, password string) error
	Signin(ctx context.Context, username, password string) error
	Logout(ctx context.Context) error
	Refresh(ctx context.Context) error
	LoggedIn() bool
	CurrentUserID() (string, error)

	GetUser(ctx context.Context, id string) (*api.User, error)

	CreateTweet(ctx context.Context, text string) (*api.Tweet, error)
	GetTweet(ctx context.Context, id string) (*api.Tweet, error)
	UpdateTweet(ctx context.Context, id, text string) (*api.Tweet, error)
	DeleteTweet(ctx context.Context, id string) error
}
