package services

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/dbx"
	"github.com/dmitrijs2005/tweeter/internal/logging"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/dmitrijs2005/tweeter/internal/server/repositories/repomanager"
)

// TweetService implements tweet CRUD. Any authenticated user may edit or
// delete any tweet.
type TweetService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewTweetService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *TweetService {
	return &TweetService{db: db, repomanager: m, log: log.With("module", "TweetService")}
}

// Create posts text on behalf of authorID, who must exist.
func (s *TweetService) Create(ctx context.Context, authorID, text string) (*models.Tweet, error) {
	const op = "TweetService.Create"

	if err := validateText(text); err != nil {
		return nil, err
	}

	if _, err := s.repomanager.Users(s.db).GetUserByID(ctx, authorID); err != nil {
		return nil, passThrough(ctx, s.log, op, err, common.ErrorNotFound)
	}

	t, err := s.repomanager.Tweets(s.db).Create(ctx, authorID, text)
	if err != nil {
		return nil, internalError(ctx, s.log, op, err)
	}
	return t, nil
}

func (s *TweetService) Get(ctx context.Context, id string) (*models.Tweet, error) {
	t, err := s.repomanager.Tweets(s.db).GetByID(ctx, id)
	if err != nil {
		return nil, passThrough(ctx, s.log, "TweetService.Get", err, common.ErrorNotFound)
	}
	return t, nil
}

// Update replaces the text of tweet id. The read and the write share one
// transaction.
func (s *TweetService) Update(ctx context.Context, id, text string) (*models.Tweet, error) {
	const op = "TweetService.Update"

	if err := validateText(text); err != nil {
		return nil, err
	}

	var updated *models.Tweet
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Tweets(tx)

		current, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current.Text == text {
			updated = current
			return nil
		}

		updated, err = repo.Update(ctx, id, text)
		return err
	})
	if err != nil {
		return nil, passThrough(ctx, s.log, op, err, common.ErrorNotFound)
	}
	return updated, nil
}

func (s *TweetService) Delete(ctx context.Context, id string) error {
	if err := s.repomanager.Tweets(s.db).Delete(ctx, id); err != nil {
		return passThrough(ctx, s.log, "TweetService.Delete", err, common.ErrorNotFound)
	}
	return nil
}

func validateText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("%w: tweet text is empty", common.ErrorValidation)
	}
	if n := utf8.RuneCountInString(text); n > common.MaxTweetLength {
		return fmt.Errorf("%w: tweet text is %d characters, limit is %d", common.ErrorValidation, n, common.MaxTweetLength)
	}
	return nil
}
