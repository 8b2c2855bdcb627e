package tweets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tweeter/internal/common"
	"github.com/dmitrijs2005/tweeter/internal/dbx"
	"github.com/dmitrijs2005/tweeter/internal/server/models"
	"github.com/google/uuid"
)

// PostgresRepository implements Repository over dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, authorID, text string) (*models.Tweet, error) {
	query :=
		`INSERT INTO tweets (id, author_id, text)
		 VALUES ($1, $2, $3)
		 RETURNING created_at, updated_at
		 `

	t := &models.Tweet{ID: uuid.NewString(), AuthorID: authorID, Text: text}
	if err := r.db.QueryRowContext(ctx, query, t.ID, t.AuthorID, t.Text).Scan(&t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Tweet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, author_id, text, created_at, updated_at
		 FROM tweets
		 WHERE id = $1
		 `
	return scanTweet(r.db.QueryRowContext(ctx, query, id))
}

func (r *PostgresRepository) Update(ctx context.Context, id, text string) (*models.Tweet, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE tweets
		 SET text = $2, updated_at = now()
		 WHERE id = $1
		 RETURNING id, author_id, text, created_at, updated_at
		 `
	return scanTweet(r.db.QueryRowContext(ctx, query, id, text))
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return common.ErrorNotFound
	}

	res, err := r.db.ExecContext(ctx, `DELETE FROM tweets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func scanTweet(row *sql.Row) (*models.Tweet, error) {
	t := &models.Tweet{}
	if err := row.Scan(&t.ID, &t.AuthorID, &t.Text, &t.CreatedAt, &t.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}
