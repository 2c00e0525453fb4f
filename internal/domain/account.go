package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// Account is a wallet transactions are recorded against. Its balance is
// always derived from transaction history, never stored: a stored balance
// can drift from the entries that are supposed to explain it.
type Account struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name string `json:"name"`
	Type string `json:"type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// AccountInput carries the caller-supplied fields of an account.
type AccountInput struct {
	Name string `json:"name"`
	Type string `json:"type,omitempty"`
}

var ErrAccountNameTooShort = errors.New("account name must be at least 2 characters")

func (in AccountInput) Validate() error {
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) < 2 {
		return ErrAccountNameTooShort
	}
	return nil
}
