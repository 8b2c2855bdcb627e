// Package services contains server-side business logic. This file implements
// AuthService: signup, signin, logout and refresh with rotating
// server-side refresh-token hashes.
package services

import (
	"context"
	"database/sql"
	"errors"
	"sync"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/auth"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/repomanager"
	"golang.org/x/sync/errgroup"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// Hasher turns secrets into one-way hashes and checks candidates against them.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) (bool, error)
}

// TokenIssuer signs access and refresh tokens.
type TokenIssuer interface {
	IssueAccess(claims auth.Claims) (string, error)
	IssueRefresh(claims auth.Claims) (string, error)
}

// AuthService manages user sessions. The session state lives entirely in the
// user's refresh hash: nil means logged out, otherwise it fingerprints the
// only refresh token that will be accepted.
type AuthService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	tokens      TokenIssuer
	hasher      Hasher
	log         logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

// NewAuthService constructs an AuthService.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, tokens TokenIssuer, hasher Hasher, log logging.Logger) *AuthService {
	return &AuthService{
		db:          db,
		repomanager: m,
		tokens:      tokens,
		hasher:      hasher,
		log:         log.With("module", "AuthService"),
	}
}

// Signup registers username and opens its first session. A taken username
// yields common.ErrorConflict.
func (s *AuthService) Signup(ctx context.Context, username, password string) (*TokenPair, error) {
	const op = "AuthService.Signup"

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, s.internal(ctx, op, err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, s.internal(ctx, op, err)
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, s.internal(ctx, op, err)
	}
	return pair, nil
}

// Signin checks the credentials and rotates the session. Unknown users and
// wrong passwords both yield common.ErrorUnauthorized.
func (s *AuthService) Signin(ctx context.Context, username, password string) (*TokenPair, error) {
	const op = "AuthService.Signin"

	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnVerify(password)
			return nil, common.ErrorUnauthorized
		}
		return nil, s.internal(ctx, op, err)
	}

	ok, err := s.hasher.Verify(user.PasswordHash, password)
	if err != nil {
		return nil, s.internal(ctx, op, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.openSession(ctx, user)
	if err != nil {
		return nil, s.internal(ctx, op, err)
	}
	return pair, nil
}

// burnVerify runs one Verify against a fixed hash so that an unknown
// username costs as much as a wrong password.
func (s *AuthService) burnVerify(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("tweeter-unknown-user")
	})
	if s.dummyHash == "" {
		return
	}
	_, _ = s.hasher.Verify(s.dummyHash, password)
}

// Logout clears the refresh hash so no refresh token is accepted until the
// next signin.
func (s *AuthService) Logout(ctx context.Context, userID string) error {
	const op = "AuthService.Logout"

	err := s.repomanager.Users(s.db).Update(ctx, userID, models.UserUpdate{RefreshHash: nil})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.internal(ctx, op, err)
	}
	return nil
}

// GetTokens signs a new access/refresh pair. The two signatures are
// independent and computed concurrently. Nothing is persisted.
func (s *AuthService) GetTokens(ctx context.Context, userID, username string) (*TokenPair, error) {
	claims := auth.Claims{UserID: userID, Username: username}
	pair := &TokenPair{}

	var g errgroup.Group
	g.Go(func() error {
		var err error
		pair.AccessToken, err = s.tokens.IssueAccess(claims)
		return err
	})
	g.Go(func() error {
		var err error
		pair.RefreshToken, err = s.tokens.IssueRefresh(claims)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, s.internal(ctx, "AuthService.GetTokens", err)
	}
	return pair, nil
}

// Refresh exchanges refreshToken for a new pair. It is accepted only if it
// matches the stored hash, which is then rotated, so every refresh token
// works once.
func (s *AuthService) Refresh(ctx context.Context, userID, refreshToken string) (*TokenPair, error) {
	const op = "AuthService.Refresh"

	user, err := s.repomanager.Users(s.db).GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorUnauthorized
		}
		return nil, s.internal(ctx, op, err)
	}
	if user.RefreshHash == nil {
		return nil, common.ErrorUnauthorized
	}

	ok, err := s.hasher.Verify(*user.RefreshHash, refreshToken)
	if err != nil {
		return nil, s.internal(ctx, op, err)
	}
	if !ok {
		return nil, common.ErrorUnauthorized
	}

	pair, err := s.GetTokens(ctx, user.ID, user.UserName)
	if err != nil {
		return nil, err
	}

	if err := s.updateRefreshHash(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// openSession issues a pair for user and makes its refresh token the only
// accepted one.
func (s *AuthService) openSession(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.GetTokens(ctx, user.ID, user.UserName)
	if err != nil {
		return nil, err
	}
	if err := s.updateRefreshHash(ctx, user.ID, pair.RefreshToken); err != nil {
		return nil, err
	}
	return pair, nil
}

// updateRefreshHash stores the hash of refreshToken on the user.
func (s *AuthService) updateRefreshHash(ctx context.Context, userID, refreshToken string) error {
	const op = "AuthService.updateRefreshHash"

	hash, err := s.hasher.Hash(refreshToken)
	if err != nil {
		return s.internal(ctx, op, err)
	}

	err = s.repomanager.Users(s.db).Update(ctx, userID, models.UserUpdate{RefreshHash: &hash})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return common.ErrorNotFound
		}
		return s.internal(ctx, op, err)
	}
	return nil
}

func (s *AuthService) internal(ctx context.Context, op string, err error) error {
	return internalError(ctx, s.log, op, err)
}
