package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/dbx"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/password"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/tweets"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/users"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

// fakeUsers is an in-memory users.Repository. Setting the *Err fields makes
// the corresponding method fail.
type fakeUsers struct {
	mu    sync.Mutex
	byID  map[string]*models.User
	calls map[string]int

	createErr error
	getErr    error
	updateErr error
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{byID: map[string]*models.User{}, calls: map[string]int{}}
}

func (f *fakeUsers) Create(_ context.Context, userName, passwordHash string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Create"]++

	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.byID {
		if u.UserName == userName {
			return nil, common.ErrorConflict
		}
	}
	now := time.Now()
	u := &models.User{ID: uuid.NewString(), UserName: userName, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	f.byID[u.ID] = u
	return clone(u), nil
}

func (f *fakeUsers) GetUserByLogin(_ context.Context, userName string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetUserByLogin"]++

	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.UserName == userName {
			return clone(u), nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsers) GetUserByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["GetUserByID"]++

	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(u), nil
}

func (f *fakeUsers) Update(_ context.Context, id string, upd models.UserUpdate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls["Update"]++

	if f.updateErr != nil {
		return f.updateErr
	}
	u, ok := f.byID[id]
	if !ok {
		return common.ErrorNotFound
	}
	if upd.UserName != nil {
		u.UserName = *upd.UserName
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.RefreshHash = upd.RefreshHash
	u.UpdatedAt = time.Now()
	return nil
}

func (f *fakeUsers) stored(t *testing.T, userName string) *models.User {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.byID {
		if u.UserName == userName {
			return clone(u)
		}
	}
	t.Fatalf("user %q not stored", userName)
	return nil
}

func clone(u *models.User) *models.User {
	c := *u
	if u.RefreshHash != nil {
		h := *u.RefreshHash
		c.RefreshHash = &h
	}
	return &c
}

// fakeTweets is an in-memory tweets.Repository.
type fakeTweets struct {
	mu   sync.Mutex
	byID map[string]*models.Tweet

	createErr error
	getErr    error
	updateErr error
	deleteErr error
	updates   int
}

func newFakeTweets() *fakeTweets {
	return &fakeTweets{byID: map[string]*models.Tweet{}}
}

func (f *fakeTweets) Create(_ context.Context, authorID, text string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	now := time.Now()
	t := &models.Tweet{ID: uuid.NewString(), AuthorID: authorID, Text: text, CreatedAt: now, UpdatedAt: now}
	f.byID[t.ID] = t
	c := *t
	return &c, nil
}

func (f *fakeTweets) GetByID(_ context.Context, id string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *t
	return &c, nil
}

func (f *fakeTweets) Update(_ context.Context, id, text string) (*models.Tweet, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updates++
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	t, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	t.Text = text
	t.UpdatedAt = time.Now()
	c := *t
	return &c, nil
}

func (f *fakeTweets) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.byID, id)
	return nil
}

type fakeRepoManager struct {
	u *fakeUsers
	t *fakeTweets
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Tweets(dbx.DBTX) tweets.Repository           { return m.t }

// recLogger records Error calls.
type recLogger struct {
	logging.Nop
	mu     sync.Mutex
	errors [][]any
}

func (l *recLogger) Error(_ context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, append([]any{msg}, args...))
}

func (l *recLogger) With(...any) logging.Logger { return l }

func (l *recLogger) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.errors)
}

func testHasher(t *testing.T) *password.Argon2 {
	t.Helper()
	h, err := password.NewArgon2(password.Params{Memory: 1024, Time: 1, Threads: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	return h
}

func testCodec() *auth.Codec {
	return &auth.Codec{
		Access:  auth.Profile{Secret: []byte("access-secret"), TTL: 15 * time.Minute},
		Refresh: auth.Profile{Secret: []byte("refresh-secret"), TTL: 7 * 24 * time.Hour},
	}
}
