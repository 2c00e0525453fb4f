package datasync

import (
	"context"
	"sort"

	"github.com/wchaiyo/pocketledger/internal/domain"
)

// Write-through contract, shared by every mutation below: validate, require
// an identity, write to the store, and on success merge the store's returned
// canonical record into the mirror by id. Store failures propagate to the
// caller unmodified and leave the mirror untouched.

// AddTransaction records a new transaction.
func (s *Syncer) AddTransaction(ctx context.Context, in domain.TransactionInput) (domain.Transaction, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	rec, err := s.records.InsertTransaction(ctx, userID, in)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.patchTransactions(userID, func(txs []domain.Transaction) []domain.Transaction {
		return append(txs, rec)
	})
	return rec, nil
}

// UpdateTransaction replaces the caller-supplied fields of an existing
// transaction.
func (s *Syncer) UpdateTransaction(ctx context.Context, id string, in domain.TransactionInput) (domain.Transaction, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Transaction{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Transaction{}, err
	}

	rec, err := s.records.UpdateTransaction(ctx, userID, id, in)
	if err != nil {
		return domain.Transaction{}, err
	}

	s.patchTransactions(userID, func(txs []domain.Transaction) []domain.Transaction {
		for i := range txs {
			if txs[i].ID == id {
				txs[i] = rec
				return txs
			}
		}
		return append(txs, rec)
	})
	return rec, nil
}

// DeleteTransaction removes a transaction permanently.
func (s *Syncer) DeleteTransaction(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.records.DeleteTransaction(ctx, userID, id); err != nil {
		return err
	}

	s.patchTransactions(userID, func(txs []domain.Transaction) []domain.Transaction {
		out := txs[:0]
		for _, t := range txs {
			if t.ID != id {
				out = append(out, t)
			}
		}
		return out
	})
	return nil
}

// AddCategory creates a user category.
func (s *Syncer) AddCategory(ctx context.Context, in domain.CategoryInput) (domain.Category, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Category{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Category{}, err
	}

	rec, err := s.records.InsertCategory(ctx, userID, in)
	if err != nil {
		return domain.Category{}, err
	}

	s.patchCategories(userID, func(cats []domain.Category) []domain.Category {
		return append(cats, rec)
	})
	return rec, nil
}

// UpdateCategory edits a user category. Seeded defaults are rejected by the
// store with store.ErrProtectedCategory; the mirror stays unchanged.
func (s *Syncer) UpdateCategory(ctx context.Context, id string, in domain.CategoryInput) (domain.Category, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Category{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Category{}, err
	}

	rec, err := s.records.UpdateCategory(ctx, userID, id, in)
	if err != nil {
		return domain.Category{}, err
	}

	s.patchCategories(userID, func(cats []domain.Category) []domain.Category {
		for i := range cats {
			if cats[i].ID == id {
				cats[i] = rec
				return cats
			}
		}
		return append(cats, rec)
	})
	return rec, nil
}

// DeleteCategory removes a user category. Transactions referencing it keep
// their category id; readers render a fallback label for orphaned references.
func (s *Syncer) DeleteCategory(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.records.DeleteCategory(ctx, userID, id); err != nil {
		return err
	}

	s.patchCategories(userID, func(cats []domain.Category) []domain.Category {
		out := cats[:0]
		for _, c := range cats {
			if c.ID != id {
				out = append(out, c)
			}
		}
		return out
	})
	return nil
}

// AddAccount creates a wallet.
func (s *Syncer) AddAccount(ctx context.Context, in domain.AccountInput) (domain.Account, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Account{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Account{}, err
	}

	rec, err := s.records.InsertAccount(ctx, userID, in)
	if err != nil {
		return domain.Account{}, err
	}

	s.patchAccounts(userID, func(accs []domain.Account) []domain.Account {
		return append(accs, rec)
	})
	return rec, nil
}

// UpdateAccount edits a wallet's name and type.
func (s *Syncer) UpdateAccount(ctx context.Context, id string, in domain.AccountInput) (domain.Account, error) {
	userID, err := s.currentUser()
	if err != nil {
		return domain.Account{}, err
	}
	if err := in.Validate(); err != nil {
		return domain.Account{}, err
	}

	rec, err := s.records.UpdateAccount(ctx, userID, id, in)
	if err != nil {
		return domain.Account{}, err
	}

	s.patchAccounts(userID, func(accs []domain.Account) []domain.Account {
		for i := range accs {
			if accs[i].ID == id {
				accs[i] = rec
				return accs
			}
		}
		return append(accs, rec)
	})
	return rec, nil
}

// DeleteAccount removes a wallet. Transactions recorded against it survive.
func (s *Syncer) DeleteAccount(ctx context.Context, id string) error {
	userID, err := s.currentUser()
	if err != nil {
		return err
	}
	if err := s.records.DeleteAccount(ctx, userID, id); err != nil {
		return err
	}

	s.patchAccounts(userID, func(accs []domain.Account) []domain.Account {
		out := accs[:0]
		for _, a := range accs {
			if a.ID != id {
				out = append(out, a)
			}
		}
		return out
	})
	return nil
}

// patchTransactions applies fn to the mirrored transactions if the mirror
// still belongs to userID, then restores the date-descending order. When the
// identity changed mid-flight the confirmed write is dropped locally and a
// background refresh reconciles the new user's view instead.
func (s *Syncer) patchTransactions(userID string, fn func([]domain.Transaction) []domain.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.userID != userID {
		s.refresher.Request(collTransactions)
		return
	}
	s.cur.transactions = fn(s.cur.transactions)
	sort.SliceStable(s.cur.transactions, func(i, j int) bool {
		return s.cur.transactions[j].Date.Before(s.cur.transactions[i].Date)
	})
}

func (s *Syncer) patchCategories(userID string, fn func([]domain.Category) []domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.userID != userID {
		s.refresher.Request(collCategories)
		return
	}
	s.cur.categories = fn(s.cur.categories)
	sort.SliceStable(s.cur.categories, func(i, j int) bool {
		return s.cur.categories[i].Name < s.cur.categories[j].Name
	})
}

func (s *Syncer) patchAccounts(userID string, fn func([]domain.Account) []domain.Account) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.userID != userID {
		s.refresher.Request(collAccounts)
		return
	}
	s.cur.accounts = fn(s.cur.accounts)
}
