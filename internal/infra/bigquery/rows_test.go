package bigquery

import (
	"math/big"
	"testing"
	"time"

	bq "cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/wchaiyo/pocketledger/internal/domain"
)

func TestCentsRatRoundTrip(t *testing.T) {
	for _, cents := range []int64{0, 1, 99, 100, 1234, -5, -1234, 999999999} {
		if got := ratToCents(centsToRat(cents)); got != cents {
			t.Errorf("round trip of %d cents = %d", cents, got)
		}
	}
}

func TestRatToCents(t *testing.T) {
	tests := []struct {
		name string
		rat  *big.Rat
		want int64
	}{
		{name: "nil", rat: nil, want: 0},
		{name: "exact", rat: big.NewRat(1234, 100), want: 1234},
		{name: "sub-cent rounds up", rat: big.NewRat(12345, 1000), want: 1235}, // 12.345
		{name: "sub-cent rounds down", rat: big.NewRat(12344, 1000), want: 1234},
		{name: "negative half away from zero", rat: big.NewRat(-12345, 1000), want: -1235},
		{name: "whole number", rat: big.NewRat(7, 1), want: 700},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ratToCents(tt.rat); got != tt.want {
				t.Errorf("ratToCents(%v) = %d, want %d", tt.rat, got, tt.want)
			}
		})
	}
}

func TestNullString(t *testing.T) {
	if got := nullString(""); got.Valid {
		t.Error("empty string should map to NULL")
	}
	if got := nullString("x"); !got.Valid || got.StringVal != "x" {
		t.Errorf("nullString(x) = %+v", got)
	}
}

func TestTransactionRowToDomain(t *testing.T) {
	created := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	row := TransactionRow{
		TransactionID:   "tx-1",
		UserID:          "alice",
		Kind:            "expense",
		Amount:          big.NewRat(4550, 100),
		CategoryID:      bq.NullString{StringVal: "cat-1", Valid: true},
		Description:     bq.NullString{}, // NULL maps to empty string
		TransactionDate: civil.Date{Year: 2024, Month: 3, Day: 1},
		CreatedTS:       created,
		UpdatedTS:       created,
	}

	got := row.toDomain()
	want := domain.Transaction{
		ID:         "tx-1",
		UserID:     "alice",
		Kind:       domain.KindExpense,
		Amount:     domain.Money{Cents: 4550},
		CategoryID: "cat-1",
		Date:       civil.Date{Year: 2024, Month: 3, Day: 1},
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	if got != want {
		t.Errorf("toDomain() = %+v, want %+v", got, want)
	}
}

func TestAccountRowToDomain(t *testing.T) {
	row := AccountRow{
		AccountID:   "acc-1",
		UserID:      "alice",
		AccountName: "Cash",
		AccountType: bq.NullString{},
	}

	got := row.toDomain()
	if got.Type != "" {
		t.Errorf("NULL account_type should map to empty string, got %q", got.Type)
	}
	if got.Name != "Cash" || got.ID != "acc-1" {
		t.Errorf("toDomain() = %+v", got)
	}
}
