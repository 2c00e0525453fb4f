package domain

import (
	"errors"
	"time"

	"cloud.google.com/go/civil"
)

// Kind distinguishes money coming in from money going out.
type Kind string

const (
	KindIncome  Kind = "income"
	KindExpense Kind = "expense"
)

// Valid reports whether k is one of the two supported kinds.
func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

// Transaction is one recorded income or expense entry. The store assigns
// ID, UserID and the timestamps; callers never set them on input.
type Transaction struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Kind   Kind  `json:"kind"`
	Amount Money `json:"amount"`

	CategoryID  string `json:"category_id,omitempty"`
	AccountID   string `json:"account_id,omitempty"`
	Description string `json:"description,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`

	Date civil.Date `json:"date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TransactionInput carries the caller-supplied fields of a transaction.
// Future dates are allowed; the UI may warn but the core does not enforce.
type TransactionInput struct {
	Kind        Kind       `json:"kind"`
	Amount      Money      `json:"amount"`
	CategoryID  string     `json:"category_id,omitempty"`
	AccountID   string     `json:"account_id,omitempty"`
	Description string     `json:"description,omitempty"`
	ImageURL    string     `json:"image_url,omitempty"`
	Date        civil.Date `json:"date"`
}

var (
	ErrInvalidKind   = errors.New("kind must be income or expense")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
	ErrZeroDate      = errors.New("date is required")
)

func (in TransactionInput) Validate() error {
	if !in.Kind.Valid() {
		return ErrInvalidKind
	}
	if err := in.Amount.Validate(); err != nil {
		return err
	}
	if !in.Date.IsValid() {
		return ErrZeroDate
	}
	return nil
}
