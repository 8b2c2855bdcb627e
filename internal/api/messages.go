package api

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrijs2005/tweeter/internal/common"
)

const (
	maxUsernameLength = 200
	minPasswordLength = 8
)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate requires a non-empty username and a password of at least eight
// characters mixing upper and lower case letters, digits and symbols.
func (r *SignupRequest) Validate() error {
	if err := validateUsername(r.Username); err != nil {
		return err
	}
	return validatePassword(r.Password)
}

type SigninRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (r *SigninRequest) Validate() error {
	if r.Username == "" || r.Password == "" {
		return fmt.Errorf("%w: username and password are required", common.ErrorValidation)
	}
	return nil
}

type TokensResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type LogoutRequest struct{}

type RefreshRequest struct{}

type Empty struct{}

type GetUserRequest struct {
	ID string `json:"id"`
}

// User is the public view of an account. It never carries credential hashes.
type User struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateTweetRequest struct {
	Text string `json:"text"`
}

type GetTweetRequest struct {
	ID string `json:"id"`
}

type UpdateTweetRequest struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

type DeleteTweetRequest struct {
	ID string `json:"id"`
}

type Tweet struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func validateUsername(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: username is required", common.ErrorValidation)
	}
	if utf8.RuneCountInString(name) > maxUsernameLength {
		return fmt.Errorf("%w: username is longer than %d characters", common.ErrorValidation, maxUsernameLength)
	}
	return nil
}

func validatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLength {
		return fmt.Errorf("%w: password must be at least %d characters", common.ErrorValidation, minPasswordLength)
	}

	var upper, lower, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	if !(upper && lower && digit && symbol) {
		return fmt.Errorf("%w: password needs upper and lower case letters, a digit and a symbol", common.ErrorValidation)
	}
	return nil
}
