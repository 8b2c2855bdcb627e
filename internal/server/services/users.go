package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/repomanager"
)

// UserService serves public user profiles.
type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *UserService {
	return &UserService{db: db, repomanager: m, log: log.With("module", "UserService")}
}

// GetUser returns the user with the given id or common.ErrorNotFound.
// The result includes credential hashes; callers must not expose them.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.repomanager.Users(s.db).GetUserByID(ctx, id)
	if err != nil {
		return nil, passThrough(ctx, s.log, "UserService.GetUser", err, common.ErrorNotFound)
	}
	return u, nil
}
