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

// ListCategories returns the user's categories ordered by name.
func (r *Repository) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			category_id, user_id, name, icon, color, is_default,
			created_ts, updated_ts
		FROM %s
		WHERE user_id = @user_id
		ORDER BY name ASC
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListCategories: query read: %w", err)
	}

	var out []domain.Category
	for {
		var row CategoryRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListCategories: iter next: %w", err)
		}
		out = append(out, row.toDomain())
	}
	return out, nil
}

// InsertCategory writes a new user category and returns the stored record.
func (r *Repository) InsertCategory(ctx context.Context, userID string, in domain.CategoryInput) (domain.Category, error) {
	now := time.Now().UTC()
	rec := domain.Category{
		ID:        uuid.NewString(),
		UserID:    userID,
		Name:      in.Name,
		Icon:      in.Icon,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO %s (
			category_id, user_id, name, icon, color, is_default,
			created_ts, updated_ts
		)
		VALUES (
			@category_id, @user_id, @name, @icon, @color, FALSE,
			@created_ts, @updated_ts
		)
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category_id", Value: rec.ID},
		{Name: "user_id", Value: userID},
		{Name: "name", Value: rec.Name},
		{Name: "icon", Value: rec.Icon},
		{Name: "color", Value: rec.Color},
		{Name: "created_ts", Value: now},
		{Name: "updated_ts", Value: now},
	}

	if _, err := r.runDML(ctx, q); err != nil {
		return domain.Category{}, fmt.Errorf("InsertCategory: %w", err)
	}
	return rec, nil
}

// UpdateCategory patches a user category. The is_default predicate is part
// of the UPDATE itself, so a seeded default can never be modified, not even
// by two racing clients.
func (r *Repository) UpdateCategory(ctx context.Context, userID, id string, in domain.CategoryInput) (domain.Category, error) {
	q := r.client.Query(fmt.Sprintf(`
		UPDATE %s SET
			name = @name,
			icon = @icon,
			color = @color,
			updated_ts = @updated_ts
		WHERE category_id = @category_id
		  AND user_id = @user_id
		  AND is_default = FALSE
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "name", Value: in.Name},
		{Name: "icon", Value: in.Icon},
		{Name: "color", Value: in.Color},
		{Name: "updated_ts", Value: time.Now().UTC()},
		{Name: "category_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return domain.Category{}, fmt.Errorf("UpdateCategory: %w", err)
	}
	if affected == 0 {
		return domain.Category{}, r.classifyCategoryMiss(ctx, userID, id)
	}
	return r.getCategory(ctx, userID, id)
}

// DeleteCategory removes a user category. Seeded defaults are refused via
// the same in-statement predicate as UpdateCategory. Transactions keep their
// category reference; orphans are tolerated by readers.
func (r *Repository) DeleteCategory(ctx context.Context, userID, id string) error {
	q := r.client.Query(fmt.Sprintf(`
		DELETE FROM %s
		WHERE category_id = @category_id
		  AND user_id = @user_id
		  AND is_default = FALSE
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	affected, err := r.runDML(ctx, q)
	if err != nil {
		return fmt.Errorf("DeleteCategory: %w", err)
	}
	if affected == 0 {
		return r.classifyCategoryMiss(ctx, userID, id)
	}
	return nil
}

// SeedDefaultCategories inserts the seed table for a user who has no
// categories at all. The NOT EXISTS guard runs inside the single INSERT
// statement, so running the bootstrap twice cannot create duplicates.
func (r *Repository) SeedDefaultCategories(ctx context.Context, userID string, seeds []domain.CategorySeed) error {
	if len(seeds) == 0 {
		return nil
	}

	names := make([]string, len(seeds))
	icons := make([]string, len(seeds))
	colors := make([]string, len(seeds))
	for i, s := range seeds {
		names[i] = s.Name
		icons[i] = s.Icon
		colors[i] = s.Color
	}

	q := r.client.Query(fmt.Sprintf(`
		INSERT INTO %[1]s (
			category_id, user_id, name, icon, color, is_default,
			created_ts, updated_ts
		)
		SELECT
			GENERATE_UUID(), @user_id, name, @icons[OFFSET(off)], @colors[OFFSET(off)], TRUE,
			CURRENT_TIMESTAMP(), CURRENT_TIMESTAMP()
		FROM UNNEST(@names) AS name WITH OFFSET off
		WHERE NOT EXISTS (
			SELECT 1 FROM %[1]s WHERE user_id = @user_id
		)
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "user_id", Value: userID},
		{Name: "names", Value: names},
		{Name: "icons", Value: icons},
		{Name: "colors", Value: colors},
	}

	if _, err := r.runDML(ctx, q); err != nil {
		return fmt.Errorf("SeedDefaultCategories: %w", err)
	}
	return nil
}

// classifyCategoryMiss distinguishes "no such category" from "category is
// protected" after a zero-row mutation. The mutation itself was already
// race-free; this read only picks the error message.
func (r *Repository) classifyCategoryMiss(ctx context.Context, userID, id string) error {
	cat, err := r.getCategory(ctx, userID, id)
	if err != nil {
		return err
	}
	if cat.IsDefault {
		return store.ErrProtectedCategory
	}
	return store.ErrNotFound
}

func (r *Repository) getCategory(ctx context.Context, userID, id string) (domain.Category, error) {
	q := r.client.Query(fmt.Sprintf(`
		SELECT
			category_id, user_id, name, icon, color, is_default,
			created_ts, updated_ts
		FROM %s
		WHERE category_id = @category_id
		  AND user_id = @user_id
		LIMIT 1
	`, r.table(categoriesTable)))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "category_id", Value: id},
		{Name: "user_id", Value: userID},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return domain.Category{}, fmt.Errorf("getCategory: query read: %w", err)
	}

	var row CategoryRow
	err = it.Next(&row)
	if err == iterator.Done {
		return domain.Category{}, store.ErrNotFound
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("getCategory: iter next: %w", err)
	}
	return row.toDomain(), nil
}
