package domain

import (
	"errors"
	"strings"
	"time"
)

// Category labels transactions for breakdowns and charts. Categories are
// kind-agnostic: the same category may appear on income and expense entries.
// Seeded default categories carry IsDefault and cannot be edited or deleted.
type Category struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`

	IsDefault bool `json:"is_default"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryInput carries the caller-supplied fields of a category.
type CategoryInput struct {
	Name  string `json:"name"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

var (
	ErrEmptyCategoryName = errors.New("category name is required")
	ErrEmptyIcon         = errors.New("category icon is required")
	ErrEmptyColor        = errors.New("category color is required")
)

func (in CategoryInput) Validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return ErrEmptyCategoryName
	}
	if strings.TrimSpace(in.Icon) == "" {
		return ErrEmptyIcon
	}
	if strings.TrimSpace(in.Color) == "" {
		return ErrEmptyColor
	}
	return nil
}
