package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/tweeter/internal/client/client"
	"github.com/dmitrijs2005/tweeter/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

func (a *App) credentials() (string, []byte, error) {
	userName, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return "", nil, err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return "", nil, err
	}
	return userName, password, nil
}

// Signup creates an account and starts a session for it.
// The password byte slice is wiped before returning.
func (a *App) Signup(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Signup(ctx, userName, string(password)); err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return a.fail(fmt.Errorf("user %q already exists", userName))
		}
		return a.fail(err)
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Success!")
	return nil
}

func (a *App) Signin(ctx context.Context) error {
	userName, password, err := a.credentials()
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Signin(ctx, userName, string(password)); err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			return a.fail(errors.New("wrong username or password"))
		}
		return a.fail(err)
	}

	a.userName = userName
	fmt.Fprintln(a.out, "Login successful")
	return nil
}

// Refresh rotates the token pair explicitly. Expired access tokens are
// refreshed automatically, so this is rarely needed.
func (a *App) Refresh(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Refresh(ctx); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Tokens refreshed")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	ctx, cancel := a.withTimeout(ctx)
	defer cancel()

	if err := a.client.Logout(ctx); err != nil {
		return a.fail(err)
	}
	a.userName = ""
	fmt.Fprintln(a.out, "Logged out")
	return nil
}
