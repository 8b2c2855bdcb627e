package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/tweeter/internal/api"
	"github.com/dmitrijs2005/tweeter/internal/client/client"
	"github.com/dmitrijs2005/tweeter/internal/common"
)

var getMultiline = GetMultiline

// idArg takes the id from the command arguments or asks for it.
func (a *App) idArg(args []string, prompt string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	id, err := getSimpleText(a.reader, prompt, a.out)
	if err != nil {
		return "", err
	}
	if id == "" {
		return "", errors.New("id is required")
	}
	return id, nil
}

// tweetText reads the tweet body and checks its length locally so the user
// does not wait for a round trip to learn it is too long.
func (a *App) tweetText() (string, error) {
	text, err := getMultiline(a.reader, "Enter tweet text", a.out)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: tweet is empty", common.ErrorValidation)
	}
	if n := utf8.RuneCountInString(text); n > common.MaxTweetLength {
		return "", fmt.Errorf("%w: tweet is %d characters, max %d", common.ErrorValidation, n, common.MaxTweetLength)
	}
	return text, nil
}

func (a *App) requireLogin() error {
	if !a.isLoggedIn() {
		return a.fail(client.ErrNotLoggedIn)
	}
	return nil
}

// Tweet posts a new tweet as the current user.
func (a *App) Tweet(ctx context.Context) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	text, err := a.tweetText()
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tw, err := a.client.CreateTweet(ctx, text)
	if err != nil {
		return a.fail(err)
	}
	printTweet(a.out, tw)
	return nil
}

func (a *App) ShowTweet(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args, "Enter tweet id")
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tw, err := a.client.GetTweet(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	printTweet(a.out, tw)
	return nil
}

func (a *App) EditTweet(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args, "Enter tweet id")
	if err != nil {
		return a.fail(err)
	}
	text, err := a.tweetText()
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	tw, err := a.client.UpdateTweet(ctx, id, text)
	if err != nil {
		return a.fail(err)
	}
	printTweet(a.out, tw)
	return nil
}

func (a *App) DeleteTweet(ctx context.Context, args []string) error {
	if err := a.requireLogin(); err != nil {
		return err
	}
	id, err := a.idArg(args, "Enter tweet id")
	if err != nil {
		return a.fail(err)
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.DeleteTweet(ctx, id); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Deleted")
	return nil
}

// ShowUser prints a user profile. Without an id it shows the current user.
func (a *App) ShowUser(ctx context.Context, args []string) error {
	var id string
	if len(args) > 0 {
		id = args[0]
	} else {
		self, err := a.client.CurrentUserID()
		if err != nil {
			return a.fail(err)
		}
		id = self
	}

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	u, err := a.client.GetUser(ctx, id)
	if err != nil {
		return a.fail(err)
	}
	printUser(a.out, u)
	return nil
}

func printTweet(w io.Writer, t *api.Tweet) {
	fmt.Fprintf(w, "ID:      %s\n", t.ID)
	fmt.Fprintf(w, "Author:  %s\n", t.AuthorID)
	fmt.Fprintf(w, "Created: %s\n", t.CreatedAt.Format(time.DateTime))
	if !t.UpdatedAt.Equal(t.CreatedAt) {
		fmt.Fprintf(w, "Edited:  %s\n", t.UpdatedAt.Format(time.DateTime))
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, t.Text)
}

func printUser(w io.Writer, u *api.User) {
	fmt.Fprintf(w, "ID:       %s\n", u.ID)
	fmt.Fprintf(w, "Username: %s\n", u.Username)
	fmt.Fprintf(w, "Joined:   %s\n", u.CreatedAt.Format(time.DateTime))
}
