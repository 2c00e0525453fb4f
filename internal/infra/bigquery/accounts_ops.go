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

// ListAccounts returns the user's accounts, oldest first.
func (r *Repository) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT account_id, user_id, account_name, account_type, created_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY created_ts ASC
	`, r.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListAccounts: query read: %w", err)
	}

	var out []domain.Account
	for {
		var row AccountRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListAccounts: iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertAccount writes a new account and returns the stored record.
func (r *Repository) InsertAccount(ctx context.Context, userID string, in domain.AccountInput) (domain.Account, error) {
	now := time.Now().UTC()
	rec := domain.Account{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		CreatedAt: now,
	}

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO %s (account_id, user_id, account_name, account_type, created_ts)
		VALUES (@account_id, @user_id, @account_name, @account_type, @created_ts)
	`, r.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: rec.ID},
		{Name: "user_id", Value: userID},
		{Name: "account_name", Value: rec.Name},
		{Name: "account_type", Value: nullString(rec.Type)},
		{Name: "created_ts", Value: now},
	}

	if _, err := r.runDML(ctx, q); err != nil {
		return domain.Account{}, fmt.Errorf("InsertAccount: %w", err)
	}
	return rec, nil
}

// UpdateAccount patches an account owned by the user and returns the stored
// record.
func (r *Repository) UpdateAccount(ctx context.Context, userID, id string, in domain.AccountInput) (domain.Account, error) {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s SET
			account_name = @account_name,
			account_type = @account_type
		WHERE account_id = @account_id
		  AND user_id = @user_id
	`, r.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_name", Value: in.Name},
		{Name: "account_type", Value: nullString(in.Type)},
		{Name: "account_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return domain.Account{}, fmt.Errorf("UpdateAccount: %w", err)
	}
	if affected == 0 {
		return domain.Account{}, store.ErrNotFound
	}
	return r.getAccount(ctx, userID, id)
}

// DeleteAccount removes an account owned by the user. Transactions recorded
// against it keep their account reference.
func (r *Repository) DeleteAccount(ctx context.Context, userID, id string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE account_id = @account_id
		  AND user_id = @user_id
	`, r.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteAccount: %w", err)
	}
	if affected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (r *Repository) getAccount(ctx context.Context, userID, id string) (domain.Account, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT account_id, user_id, account_name, account_type, created_ts
		FROM %s
		WHERE account_id = @account_id
		  AND user_id = @user_id
		LIMIT 1
	`, r.table(accountsTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "account_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.Account{}, fmt.Errorf("getAccount: query read: %w", err)
	}

	var row AccountRow
	err = it.Next(&row)
	if err == iterator.Done {
		return domain.Account{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Account{}, fmt.Errorf("getAccount: iter next: %w", err)
	}
	return row.toDomain(), nil
}
