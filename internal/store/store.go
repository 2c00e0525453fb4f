// Package store defines the boundary to the remote data store: owner-scoped
// CRUD on the three record kinds plus object upload. The BigQuery and GCS
// adapters under internal/infra and internal/gcsimages implement it; tests
// substitute the in-memory fake.
package store

import (
	"context"
	"errors"
	"io"

	"github.com/wchaiyo/pocketledger/internal/domain"
)

var (
	// ErrNotFound means no record with the given id is owned by the user.
	ErrNotFound = errors.New("record not found")

	// ErrProtectedCategory means the target is a seeded default category,
	// which cannot be edited or deleted.
	ErrProtectedCategory = errors.New("default categories cannot be modified")
)

// RecordStore is the persistence half of the remote backend. Every call is
// scoped to an owning user id; implementations must never return or touch
// another user's records. List results are ordered deterministically:
// transactions by date descending, categories by name ascending, accounts by
// creation time ascending.
type RecordStore interface {
	ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error)
	InsertTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error)
	UpdateTransaction(ctx context.Context, userID, id string, in domain.TransactionInput) (domain.Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id string) error

	ListCategories(ctx context.Context, userID string) ([]domain.Category, error)
	InsertCategory(ctx context.Context, userID string, in domain.CategoryInput) (domain.Category, error)
	// UpdateCategory and DeleteCategory reject seeded defaults with
	// ErrProtectedCategory. The protection predicate runs inside the store's
	// own write, not as a separate read, so there is no window for a
	// concurrent edit to slip through.
	UpdateCategory(ctx context.Context, userID, id string, in domain.CategoryInput) (domain.Category, error)
	DeleteCategory(ctx context.Context, userID, id string) error

	// SeedDefaultCategories writes seeds for the user only if the user has no
	// categories at all. Calling it repeatedly never creates duplicates.
	SeedDefaultCategories(ctx context.Context, userID string, seeds []domain.CategorySeed) error

	ListAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	InsertAccount(ctx context.Context, userID string, in domain.AccountInput) (domain.Account, error)
	UpdateAccount(ctx context.Context, userID, id string, in domain.AccountInput) (domain.Account, error)
	DeleteAccount(ctx context.Context, userID, id string) error
}

// ObjectStore uploads binary blobs (receipt images) and returns a publicly
// resolvable URL. There is no delete path: an uploaded image orphaned by a
// failed transaction write stays in the bucket.
type ObjectStore interface {
	UploadImage(ctx context.Context, userID, filename string, r io.Reader) (string, error)
}
