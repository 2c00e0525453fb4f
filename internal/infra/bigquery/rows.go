package bigquery

import (
	"math/big"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/wchaiyo/pocketledger/internal/domain"
)

// TransactionRow maps one row of the transactions table.
type TransactionRow struct {
	TransactionID string `bigquery:"transaction_id"` // REQUIRED
	UserID        string `bigquery:"user_id"`        // REQUIRED

	Kind   string   `bigquery:"kind"`   // REQUIRED, "income" | "expense"
	Amount *big.Rat `bigquery:"amount"` // REQUIRED NUMERIC

	CategoryID  bigquery.NullString `bigquery:"category_id"` // NULLABLE
	AccountID   bigquery.NullString `bigquery:"account_id"`  // NULLABLE
	Description bigquery.NullString `bigquery:"description"` // NULLABLE
	ImageURL    bigquery.NullString `bigquery:"image_url"`   // NULLABLE

	TransactionDate civil.Date `bigquery:"transaction_date"` // REQUIRED DATE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

// CategoryRow maps one row of the categories table.
type CategoryRow struct {
	CategoryID string `bigquery:"category_id"` // REQUIRED
	UserID     string `bigquery:"user_id"`     // REQUIRED

	Name  string `bigquery:"name"`  // REQUIRED
	Icon  string `bigquery:"icon"`  // REQUIRED
	Color string `bigquery:"color"` // REQUIRED

	IsDefault bool `bigquery:"is_default"` // REQUIRED

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
	UpdatedTS time.Time `bigquery:"updated_ts"` // REQUIRED
}

// AccountRow maps one row of the accounts table. There is no balance column:
// balances are derived from transactions.
type AccountRow struct {
	AccountID string `bigquery:"account_id"` // REQUIRED
	UserID    string `bigquery:"user_id"`    // REQUIRED

	AccountName string              `bigquery:"account_name"` // REQUIRED
	AccountType bigquery.NullString `bigquery:"account_type"` // NULLABLE

	CreatedTS time.Time `bigquery:"created_ts"` // REQUIRED
}

// centsToRat converts integer cents to the NUMERIC wire representation.
func centsToRat(cents int64) *big.Rat {
	return big.NewRat(cents, 100)
}

// ratToCents converts a NUMERIC value back to cents, rounding half away from
// zero. Amounts are written from cents so this is normally exact.
func ratToCents(r *big.Rat) int64 {
	if r == nil {
		return 0
	}
	scaled := new(big.Rat).Mul(r, big.NewRat(100, 1))
	num := new(big.Int).Mul(scaled.Num(), big.NewInt(2))
	den := new(big.Int).Mul(scaled.Denom(), big.NewInt(2))
	if num.Sign() < 0 {
		num.Sub(num, scaled.Denom())
	} else {
		num.Add(num, scaled.Denom())
	}
	return new(big.Int).Quo(num, den).Int64()
}

func nullString(s string) bigquery.NullString {
	return bigquery.NullString{StringVal: s, Valid: s != ""}
}

func (r TransactionRow) toDomain() domain.Transaction {
	return domain.Transaction{
		ID:          r.TransactionID,
		UserID:      r.UserID,
		Kind:        domain.Kind(r.Kind),
		Amount:      domain.Money{Cents: ratToCents(r.Amount)},
		CategoryID:  r.CategoryID.StringVal,
		AccountID:   r.AccountID.StringVal,
		Description: r.Description.StringVal,
		ImageURL:    r.ImageURL.StringVal,
		Date:        r.TransactionDate,
		CreatedAt:   r.CreatedTS,
		UpdatedAt:   r.UpdatedTS,
	}
}

func (r CategoryRow) toDomain() domain.Category {
	return domain.Category{
		ID:        r.CategoryID,
		UserID:    r.UserID,
		Name:      r.Name,
		Icon:      r.Icon,
		Color:     r.Color,
		IsDefault: r.IsDefault,
		CreatedAt: r.CreatedTS,
		UpdatedAt: r.UpdatedTS,
	}
}

func (r AccountRow) toDomain() domain.Account {
	return domain.Account{
		ID:        r.AccountID,
		UserID:    r.UserID,
		Name:      r.AccountName,
		Type:      r.AccountType.StringVal,
		CreatedAt: r.CreatedTS,
	}
}
