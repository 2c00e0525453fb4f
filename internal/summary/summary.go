// Package summary computes period totals and breakdowns from a transaction
// slice. Everything here is pure: no store access, no mutation of inputs.
package summary

import (
	"math"
	"sort"
	"time"

	"github.com/wchaiyo/pocketledger/internal/domain"
)

// Totals is the income/expense/balance triple for a set of transactions.
type Totals struct {
	Income  domain.Money `json:"income"`
	Expense domain.Money `json:"expense"`
	Balance domain.Money `json:"balance"`
}

// CategoryShare is the total recorded against one category within a group,
// with its rounded share of the group total.
type CategoryShare struct {
	CategoryID string       `json:"category_id"`
	Total      domain.Money `json:"total"`
	Percent    int          `json:"percent"`
}

// AccountFlow is the per-account income/expense/balance within a period.
type AccountFlow struct {
	AccountID string       `json:"account_id"`
	Income    domain.Money `json:"income"`
	Expense   domain.Money `json:"expense"`
	Balance   domain.Money `json:"balance"`
}

// ForMonth returns the transactions dated within the given year and month.
func ForMonth(txs []domain.Transaction, year int, month time.Month) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txs {
		if t.Date.Year == year && t.Date.Month == month {
			out = append(out, t)
		}
	}
	return out
}

// ForYear returns the transactions dated within the given year.
func ForYear(txs []domain.Transaction, year int) []domain.Transaction {
	var out []domain.Transaction
	for _, t := range txs {
		if t.Date.Year == year {
			out = append(out, t)
		}
	}
	return out
}

// Compute sums incomes and expenses in one pass. An empty slice yields all
// zeroes.
func Compute(txs []domain.Transaction) Totals {
	var income, expense int64
	for _, t := range txs {
		switch t.Kind {
		case domain.KindIncome:
			income += t.Amount.Cents
		case domain.KindExpense:
			expense += t.Amount.Cents
		}
	}
	return Totals{
		Income:  domain.Money{Cents: income},
		Expense: domain.Money{Cents: expense},
		Balance: domain.Money{Cents: income - expense},
	}
}

// ByCategory groups transactions of the given kind by category and computes
// each category's share of the kind total. Transactions without a category
// are grouped under the empty id; callers render a fallback label for it.
// Results are ordered by total descending, id ascending on ties.
func ByCategory(txs []domain.Transaction, kind domain.Kind) []CategoryShare {
	sums := make(map[string]int64)
	var whole int64
	for _, t := range txs {
		if t.Kind != kind {
			continue
		}
		sums[t.CategoryID] += t.Amount.Cents
		whole += t.Amount.Cents
	}

	out := make([]CategoryShare, 0, len(sums))
	for id, cents := range sums {
		out = append(out, CategoryShare{
			CategoryID: id,
			Total:      domain.Money{Cents: cents},
			Percent:    Percent(cents, whole),
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Total.Cents != out[j].Total.Cents {
			return out[i].Total.Cents > out[j].Total.Cents
		}
		return out[i].CategoryID < out[j].CategoryID
	})
	return out
}

// ByAccount computes per-account flows, ordered by account id.
func ByAccount(txs []domain.Transaction) []AccountFlow {
	type flow struct{ income, expense int64 }
	sums := make(map[string]*flow)
	for _, t := range txs {
		f := sums[t.AccountID]
		if f == nil {
			f = &flow{}
			sums[t.AccountID] = f
		}
		switch t.Kind {
		case domain.KindIncome:
			f.income += t.Amount.Cents
		case domain.KindExpense:
			f.expense += t.Amount.Cents
		}
	}

	out := make([]AccountFlow, 0, len(sums))
	for id, f := range sums {
		out = append(out, AccountFlow{
			AccountID: id,
			Income:    domain.Money{Cents: f.income},
			Expense:   domain.Money{Cents: f.expense},
			Balance:   domain.Money{Cents: f.income - f.expense},
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AccountID < out[j].AccountID })
	return out
}

// AccountBalance is the rolling balance of one account across all of its
// transactions, regardless of period.
func AccountBalance(txs []domain.Transaction, accountID string) domain.Money {
	var cents int64
	for _, t := range txs {
		if t.AccountID != accountID {
			continue
		}
		switch t.Kind {
		case domain.KindIncome:
			cents += t.Amount.Cents
		case domain.KindExpense:
			cents -= t.Amount.Cents
		}
	}
	return domain.Money{Cents: cents}
}

// Percent returns round(part/whole × 100). A zero whole yields 0, never a
// division error.
func Percent(part, whole int64) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
