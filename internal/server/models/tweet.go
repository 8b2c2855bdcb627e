package models

import "time"

type Tweet struct {
	ID        string
	AuthorID  string
	Text      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
