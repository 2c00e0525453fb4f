package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"

	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/store"
)

// ListTransactions returns the user's transactions, date descending with
// newest-created first within a date.
func (r *Repository) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id, user_id, kind, amount,
			category_id, account_id, description, image_url,
			transaction_date, created_ts, updated_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY transaction_date DESC, created_ts DESC
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListTransactions: query read: %w", err)
	}

	var out []domain.Transaction
	for {
		var row TransactionRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListTransactions: iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertTransaction writes a new transaction and returns the stored record.
func (r *Repository) InsertTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error) {
	now := time.Now().UTC()
	rec := domain.Transaction{
		ID:          uuid.NewString(),
		UserID:      userID,
		Kind:        in.Kind,
		Amount:      in.Amount,
		CategoryID:  in.CategoryID,
		AccountID:   in.AccountID,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Date:        in.Date,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO %s (
			transaction_id, user_id, kind, amount,
			category_id, account_id, description, image_url,
			transaction_date, created_ts, updated_ts
		)
		VALUES (
			@transaction_id, @user_id, @kind, @amount,
			@category_id, @account_id, @description, @image_url,
			@transaction_date, @created_ts, @updated_ts
		)
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: rec.ID},
		{Name: "user_id", Value: userID},
		{Name: "kind", Value: string(rec.Kind)},
		{Name: "amount", Value: centsToRat(rec.Amount.Cents)},
		{Name: "category_id", Value: nullString(rec.CategoryID)},
		{Name: "account_id", Value: nullString(rec.AccountID)},
		{Name: "description", Value: nullString(rec.Description)},
		{Name: "image_url", Value: nullString(rec.ImageURL)},
		{Name: "transaction_date", Value: rec.Date},
		{Name: "created_ts", Value: now},
		{Name: "updated_ts", Value: now},
	}

	if _, err := r.runDML(ctx, q); err != nil {
		return domain.Transaction{}, fmt.Errorf("InsertTransaction: %w", err)
	}
	return rec, nil
}

// UpdateTransaction patches a transaction owned by the user and returns the
// stored record. A missing or foreign-owned id yields store.ErrNotFound.
func (r *Repository) UpdateTransaction(ctx context.Context, userID, id string, in domain.TransactionInput) (domain.Transaction, error) {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s SET
			kind = @kind,
			amount = @amount,
			category_id = @category_id,
			account_id = @account_id,
			description = @description,
			image_url = @image_url,
			transaction_date = @transaction_date,
			updated_ts = @updated_ts
		WHERE transaction_id = @transaction_id
		  AND user_id = @user_id
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "kind", Value: string(in.Kind)},
		{Name: "amount", Value: centsToRat(in.Amount.Cents)},
		{Name: "category_id", Value: nullString(in.CategoryID)},
		{Name: "account_id", Value: nullString(in.AccountID)},
		{Name: "description", Value: nullString(in.Description)},
		{Name: "image_url", Value: nullString(in.ImageURL)},
		{Name: "transaction_date", Value: in.Date},
		{Name: "updated_ts", Value: time.Now().UTC()},
		{Name: "transaction_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("UpdateTransaction: %w", err)
	}
	if affected == 0 {
		return domain.Transaction{}, store.ErrNotFound
	}
	return r.getTransaction(ctx, userID, id)
}

// DeleteTransaction removes a transaction owned by the user. Deletion is
// permanent; there is no soft-delete.
func (r *Repository) DeleteTransaction(ctx context.Context, userID, id string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE transaction_id = @transaction_id
		  AND user_id = @user_id
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteTransaction: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) getTransaction(ctx context.Context, userID, id string) (domain.Transaction, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			transaction_id, user_id, kind, amount,
			category_id, account_id, description, image_url,
			transaction_date, created_ts, updated_ts
		FROM %s
		WHERE transaction_id = @transaction_id
		  AND user_id = @user_id
		LIMIT 1
	`, r.table(transactionsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "transaction_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("getTransaction: query read: %w", err)
	}

	var row TransactionRow
	err = it.Next(&row)
	if err == iterator.Done {
		return domain.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("getTransaction: iter next: %w", err)
	}
	return row.toDomain(), nil
}
