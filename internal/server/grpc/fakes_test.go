package grpc

import (
	"context"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/services"
)

func testCodec() *auth.Codec {
	return &auth.Codec{
		Access:  auth.Profile{Secret: []byte("access"), TTL: time.Hour},
		Refresh: auth.Profile{Secret: []byte("refresh"), TTL: 24 * time.Hour},
	}
}

// fakeAuth records the arguments it was called with and returns canned
// results.
type fakeAuth struct {
	pair *services.TokenPair
	err  error

	gotUserID       string
	gotRefreshToken string
	gotUsername     string
}

func (f *fakeAuth) Signup(_ context.Context, username, _ string) (*services.TokenPair, error) {
	f.gotUsername = username
	return f.pair, f.err
}

func (f *fakeAuth) Signin(_ context.Context, username, _ string) (*services.TokenPair, error) {
	f.gotUsername = username
	return f.pair, f.err
}

func (f *fakeAuth) Logout(_ context.Context, userID string) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeAuth) Refresh(_ context.Context, userID, refreshToken string) (*services.TokenPair, error) {
	f.gotUserID = userID
	f.gotRefreshToken = refreshToken
	return f.pair, f.err
}

type fakeUsers struct {
	user *models.User
	err  error
}

func (f *fakeUsers) GetUser(context.Context, string) (*models.User, error) {
	return f.user, f.err
}

type fakeTweets struct {
	tweets map[string]*models.Tweet
	err    error
}

func newFakeTweets() *fakeTweets { return &fakeTweets{tweets: map[string]*models.Tweet{}} }

func (f *fakeTweets) Create(_ context.Context, authorID, text string) (*models.Tweet, error) {
	if f.err != nil {
		return nil, f.err
	}
	t := &models.Tweet{ID: "t1", AuthorID: authorID, Text: text, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.tweets[t.ID] = t
	return t, nil
}

func (f *fakeTweets) Get(_ context.Context, id string) (*models.Tweet, error) {
	if f.err != nil {
		return nil, f.err
	}
	t, ok := f.tweets[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return t, nil
}

func (f *fakeTweets) Update(_ context.Context, id, text string) (*models.Tweet, error) {
	t, err := f.Get(context.Background(), id)
	if err != nil {
		return nil, err
	}
	t.Text = text
	return t, nil
}

func (f *fakeTweets) Delete(_ context.Context, id string) error {
	if _, err := f.Get(context.Background(), id); err != nil {
		return err
	}
	delete(f.tweets, id)
	return nil
}

func newTestServer(a *fakeAuth, u *fakeUsers, t *fakeTweets) *GRPCServer {
	return NewGRPCServer("127.0.0.1:0", logging.Nop{}, a, u, t, testCodec())
}
