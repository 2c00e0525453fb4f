package datasync

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"cloud.google.com/go/civil"
	"github.com/rs/zerolog"

	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/identity"
	"github.com/wchaiyo/pocketledger/internal/store"
)

// fakeStore is an in-memory RecordStore honoring the same contract as the
// BigQuery adapter: owner scoping, deterministic ordering, protected
// defaults, idempotent seeding.
type fakeStore struct {
	mu     sync.Mutex
	nextID int

	transactions map[string][]domain.Transaction
	categories   map[string][]domain.Category
	accounts     map[string][]domain.Account

	listTxErr error // injected failure for ListTransactions
	seedCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		transactions: make(map[string][]domain.Transaction),
		categories:   make(map[string][]domain.Category),
		accounts:     make(map[string][]domain.Account),
	}
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return fmt.Sprintf("%s-%d", prefix, f.nextID)
}

func (f *fakeStore) ListTransactions(ctx context.Context, userID string) ([]domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listTxErr != nil {
		return nil, f.listTxErr
	}
	out := make([]domain.Transaction, len(f.transactions[userID]))
	copy(out, f.transactions[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[j].Date.Before(out[i].Date) })
	return out, nil
}

func (f *fakeStore) InsertTransaction(ctx context.Context, userID string, in domain.TransactionInput) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	rec := domain.Transaction{
		ID:          f.id("tx"),
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
	f.transactions[userID] = append(f.transactions[userID], rec)
	return rec, nil
}

func (f *fakeStore) UpdateTransaction(ctx context.Context, userID, id string, in domain.TransactionInput) (domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs := f.transactions[userID]
	for i := range txs {
		if txs[i].ID == id {
			txs[i].Kind = in.Kind
			txs[i].Amount = in.Amount
			txs[i].CategoryID = in.CategoryID
			txs[i].AccountID = in.AccountID
			txs[i].Description = in.Description
			txs[i].ImageURL = in.ImageURL
			txs[i].Date = in.Date
			txs[i].UpdatedAt = time.Now().UTC()
			return txs[i], nil
		}
	}
	return domain.Transaction{}, store.ErrNotFound
}

func (f *fakeStore) DeleteTransaction(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	txs := f.transactions[userID]
	for i := range txs {
		if txs[i].ID == id {
			f.transactions[userID] = append(txs[:i], txs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) ListCategories(ctx context.Context, userID string) ([]domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Category, len(f.categories[userID]))
	copy(out, f.categories[userID])
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeStore) InsertCategory(ctx context.Context, userID string, in domain.CategoryInput) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	now := time.Now().UTC()
	rec := domain.Category{
		ID:        f.id("cat"),
		UserID:    userID,
		Name:      in.Name,
		Icon:      in.Icon,
		Color:     in.Color,
		CreatedAt: now,
		UpdatedAt: now,
	}
	f.categories[userID] = append(f.categories[userID], rec)
	return rec, nil
}

func (f *fakeStore) UpdateCategory(ctx context.Context, userID, id string, in domain.CategoryInput) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cats := f.categories[userID]
	for i := range cats {
		if cats[i].ID == id {
			if cats[i].IsDefault {
				return domain.Category{}, store.ErrProtectedCategory
			}
			cats[i].Name = in.Name
			cats[i].Icon = in.Icon
			cats[i].Color = in.Color
			cats[i].UpdatedAt = time.Now().UTC()
			return cats[i], nil
		}
	}
	return domain.Category{}, store.ErrNotFound
}

func (f *fakeStore) DeleteCategory(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	cats := f.categories[userID]
	for i := range cats {
		if cats[i].ID == id {
			if cats[i].IsDefault {
				return store.ErrProtectedCategory
			}
			f.categories[userID] = append(cats[:i], cats[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (f *fakeStore) SeedDefaultCategories(ctx context.Context, userID string, seeds []domain.CategorySeed) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seedCalls++
	if len(f.categories[userID]) > 0 {
		return nil
	}
	now := time.Now().UTC()
	for _, s := range seeds {
		f.categories[userID] = append(f.categories[userID], domain.Category{
			ID:        f.id("cat"),
			UserID:    userID,
			Name:      s.Name,
			Icon:      s.Icon,
			Color:     s.Color,
			IsDefault: true,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return nil
}

func (f *fakeStore) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Account, len(f.accounts[userID]))
	copy(out, f.accounts[userID])
	return out, nil
}

func (f *fakeStore) InsertAccount(ctx context.Context, userID string, in domain.AccountInput) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec := domain.Account{
		ID:        f.id("acc"),
		UserID:    userID,
		Name:      in.Name,
		Type:      in.Type,
		CreatedAt: time.Now().UTC(),
	}
	f.accounts[userID] = append(f.accounts[userID], rec)
	return rec, nil
}

func (f *fakeStore) UpdateAccount(ctx context.Context, userID, id string, in domain.AccountInput) (domain.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	accs := f.accounts[userID]
	for i := range accs {
		if accs[i].ID == id {
			accs[i].Name = in.Name
			accs[i].Type = in.Type
			return accs[i], nil
		}
	}
	return domain.Account{}, store.ErrNotFound
}

func (f *fakeStore) DeleteAccount(ctx context.Context, userID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	accs := f.accounts[userID]
	for i := range accs {
		if accs[i].ID == id {
			f.accounts[userID] = append(accs[:i], accs[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeObjects records uploads and returns a predictable URL.
type fakeObjects struct {
	uploads []string
}

func (f *fakeObjects) UploadImage(ctx context.Context, userID, filename string, r io.Reader) (string, error) {
	f.uploads = append(f.uploads, userID+"/"+filename)
	return "https://objects.test/" + userID + "/" + filename, nil
}

var testSeeds = []domain.CategorySeed{
	{Name: "Food", Icon: "🍔", Color: "#EF4444"},
	{Name: "Salary", Icon: "💰", Color: "#22C55E"},
}

func newTestSyncer(t *testing.T, records store.RecordStore, objects store.ObjectStore) (*Syncer, *identity.Manager) {
	t.Helper()
	ids := identity.NewManager()
	s := New(records, objects, ids, testSeeds, zerolog.Nop())
	s.Start(context.Background())
	t.Cleanup(s.Stop)
	return s, ids
}

func txInput(cents int64, categoryID, accountID string, date civil.Date) domain.TransactionInput {
	return domain.TransactionInput{
		Kind:       domain.KindExpense,
		Amount:     domain.Money{Cents: cents},
		CategoryID: categoryID,
		AccountID:  accountID,
		Date:       date,
	}
}

func TestGuestViewBeforeSignIn(t *testing.T) {
	s, _ := newTestSyncer(t, newFakeStore(), nil)

	if s.Loading() {
		t.Error("guest view should not be loading")
	}
	if got := len(s.Transactions()); got != 0 {
		t.Errorf("guest transactions = %d, want 0", got)
	}
	if got := len(s.Accounts()); got != 0 {
		t.Errorf("guest accounts = %d, want 0", got)
	}

	cats := s.Categories()
	if len(cats) != len(testSeeds) {
		t.Fatalf("guest categories = %d, want %d", len(cats), len(testSeeds))
	}
	for _, c := range cats {
		if !c.IsDefault {
			t.Errorf("guest category %q should be marked default", c.Name)
		}
		if strings.Contains(c.ID, " ") || c.ID != strings.ToLower(c.ID) {
			t.Errorf("guest category id %q should be a lowercase slug", c.ID)
		}
	}
}

func TestMutationsRequireIdentity(t *testing.T) {
	s, _ := newTestSyncer(t, newFakeStore(), nil)
	ctx := context.Background()
	date := civil.Date{Year: 2024, Month: 3, Day: 1}

	if _, err := s.AddTransaction(ctx, txInput(100, "", "", date)); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("AddTransaction = %v, want ErrNotAuthenticated", err)
	}
	if _, err := s.AddCategory(ctx, domain.CategoryInput{Name: "x", Icon: "y", Color: "z"}); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("AddCategory = %v, want ErrNotAuthenticated", err)
	}
	if err := s.DeleteAccount(ctx, "acc-1"); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("DeleteAccount = %v, want ErrNotAuthenticated", err)
	}
	if _, err := s.UploadImage(ctx, "receipt.jpg", strings.NewReader("img")); !errors.Is(err, ErrNotAuthenticated) {
		t.Errorf("UploadImage = %v, want ErrNotAuthenticated", err)
	}
}

func TestBootstrapSeedsNewUser(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)

	ids.SignIn("alice")

	if s.Loading() {
		t.Error("bootstrap should have settled")
	}
	if err := s.Err(); err != nil {
		t.Fatalf("bootstrap error: %v", err)
	}

	cats := s.Categories()
	if len(cats) != len(testSeeds) {
		t.Fatalf("seeded categories = %d, want %d", len(cats), len(testSeeds))
	}
	for _, c := range cats {
		if !c.IsDefault || c.UserID != "alice" {
			t.Errorf("seeded category %+v should be a default owned by alice", c)
		}
	}
}

func TestSeedingIsIdempotent(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)

	ids.SignIn("alice")
	ids.SignOut()
	ids.SignIn("alice")

	if got := len(s.Categories()); got != len(testSeeds) {
		t.Errorf("categories after repeated bootstrap = %d, want %d", got, len(testSeeds))
	}
	if fs.seedCalls < 1 {
		t.Error("seeding was never attempted")
	}
}

func TestIdentitySwitchIsolatesData(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	date := civil.Date{Year: 2024, Month: 3, Day: 1}

	ids.SignIn("alice")
	if _, err := s.AddTransaction(ctx, txInput(5000, "", "", date)); err != nil {
		t.Fatalf("AddTransaction for alice failed: %v", err)
	}
	if _, err := s.AddAccount(ctx, domain.AccountInput{Name: "Cash"}); err != nil {
		t.Fatalf("AddAccount for alice failed: %v", err)
	}

	ids.SignIn("bob")
	if got := len(s.Transactions()); got != 0 {
		t.Errorf("bob sees %d of alice's transactions, want 0", got)
	}
	if got := len(s.Accounts()); got != 0 {
		t.Errorf("bob sees %d of alice's accounts, want 0", got)
	}

	ids.SignIn("alice")
	if got := len(s.Transactions()); got != 1 {
		t.Errorf("alice's mirror has %d transactions after switching back, want 1", got)
	}
}

func TestSignOutResetsToGuestView(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()

	ids.SignIn("alice")
	if _, err := s.AddTransaction(ctx, txInput(100, "", "", civil.Date{Year: 2024, Month: 1, Day: 1})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	ids.SignOut()
	if got := len(s.Transactions()); got != 0 {
		t.Errorf("guest view has %d transactions, want 0", got)
	}
	if got := s.Categories(); len(got) != len(testSeeds) || got[0].UserID != "" {
		t.Errorf("guest view categories = %+v, want unowned built-ins", got)
	}
}

func TestAddTransactionReflectsImmediately(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	older := civil.Date{Year: 2024, Month: 3, Day: 1}
	newer := civil.Date{Year: 2024, Month: 3, Day: 15}

	if _, err := s.AddTransaction(ctx, txInput(100, "", "", older)); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	rec, err := s.AddTransaction(ctx, txInput(200, "", "", newer))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if rec.ID == "" || rec.UserID != "alice" {
		t.Errorf("returned record %+v should carry store-assigned id and owner", rec)
	}

	txs := s.Transactions()
	if len(txs) != 2 {
		t.Fatalf("mirror has %d transactions, want 2", len(txs))
	}
	if txs[0].Date != newer {
		t.Errorf("mirror order = %v first, want newest date first", txs[0].Date)
	}
}

func TestUpdateTransactionMergesById(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	date := civil.Date{Year: 2024, Month: 3, Day: 1}
	rec, err := s.AddTransaction(ctx, txInput(100, "", "", date))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	in := txInput(999, "cat-x", "", date)
	in.Description = "groceries"
	updated, err := s.UpdateTransaction(ctx, rec.ID, in)
	if err != nil {
		t.Fatalf("UpdateTransaction failed: %v", err)
	}
	if updated.Amount.Cents != 999 || updated.Description != "groceries" {
		t.Errorf("updated record = %+v, want new field values", updated)
	}

	txs := s.Transactions()
	if len(txs) != 1 {
		t.Fatalf("mirror has %d transactions after update, want 1", len(txs))
	}
	if txs[0].Amount.Cents != 999 {
		t.Errorf("mirror amount = %d, want 999", txs[0].Amount.Cents)
	}
}

func TestUpdateMissingTransaction(t *testing.T) {
	s, ids := newTestSyncer(t, newFakeStore(), nil)
	ids.SignIn("alice")

	_, err := s.UpdateTransaction(context.Background(), "tx-999", txInput(100, "", "", civil.Date{Year: 2024, Month: 1, Day: 1}))
	if !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateTransaction = %v, want ErrNotFound", err)
	}
}

func TestDeleteTransactionRemovesFromMirror(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	rec, err := s.AddTransaction(ctx, txInput(100, "", "", civil.Date{Year: 2024, Month: 1, Day: 1}))
	if err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if err := s.DeleteTransaction(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteTransaction failed: %v", err)
	}
	if got := len(s.Transactions()); got != 0 {
		t.Errorf("mirror has %d transactions after delete, want 0", got)
	}
}

func TestProtectedCategoryRejection(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	cats := s.Categories()
	if len(cats) == 0 {
		t.Fatal("no seeded categories")
	}
	protected := cats[0]

	in := domain.CategoryInput{Name: "Renamed", Icon: "✏️", Color: "#000000"}
	if _, err := s.UpdateCategory(ctx, protected.ID, in); !errors.Is(err, store.ErrProtectedCategory) {
		t.Errorf("UpdateCategory on default = %v, want ErrProtectedCategory", err)
	}
	if err := s.DeleteCategory(ctx, protected.ID); !errors.Is(err, store.ErrProtectedCategory) {
		t.Errorf("DeleteCategory on default = %v, want ErrProtectedCategory", err)
	}

	// The mirror must be exactly as before the rejected writes.
	after := s.Categories()
	if len(after) != len(cats) {
		t.Fatalf("mirror categories = %d after rejection, want %d", len(after), len(cats))
	}
	if after[0].Name != protected.Name {
		t.Errorf("mirror category renamed to %q despite rejection", after[0].Name)
	}
}

func TestCustomCategoryLifecycle(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	seeded := len(s.Categories())

	rec, err := s.AddCategory(ctx, domain.CategoryInput{Name: "Pets", Icon: "🐈", Color: "#AABBCC"})
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if rec.IsDefault {
		t.Error("user-created category must not be marked default")
	}
	if got := len(s.Categories()); got != seeded+1 {
		t.Errorf("mirror categories = %d, want %d", got, seeded+1)
	}

	updated, err := s.UpdateCategory(ctx, rec.ID, domain.CategoryInput{Name: "Cats", Icon: "🐈", Color: "#AABBCC"})
	if err != nil {
		t.Fatalf("UpdateCategory failed: %v", err)
	}
	if updated.Name != "Cats" {
		t.Errorf("updated name = %q, want Cats", updated.Name)
	}

	if err := s.DeleteCategory(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}
	if got := len(s.Categories()); got != seeded {
		t.Errorf("mirror categories = %d after delete, want %d", got, seeded)
	}
}

func TestDeleteCategoryKeepsTransactionReference(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	cat, err := s.AddCategory(ctx, domain.CategoryInput{Name: "Pets", Icon: "🐈", Color: "#AABBCC"})
	if err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}
	if _, err := s.AddTransaction(ctx, txInput(100, cat.ID, "", civil.Date{Year: 2024, Month: 1, Day: 1})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if err := s.DeleteCategory(ctx, cat.ID); err != nil {
		t.Fatalf("DeleteCategory failed: %v", err)
	}

	txs := s.Transactions()
	if len(txs) != 1 || txs[0].CategoryID != cat.ID {
		t.Errorf("transaction lost its category reference: %+v", txs)
	}
}

func TestCategoriesStaySortedByName(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	if _, err := s.AddCategory(ctx, domain.CategoryInput{Name: "Aquarium", Icon: "🐟", Color: "#0000FF"}); err != nil {
		t.Fatalf("AddCategory failed: %v", err)
	}

	cats := s.Categories()
	for i := 1; i < len(cats); i++ {
		if cats[i-1].Name > cats[i].Name {
			t.Fatalf("categories out of order: %q before %q", cats[i-1].Name, cats[i].Name)
		}
	}
}

func TestAccountLifecycle(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	rec, err := s.AddAccount(ctx, domain.AccountInput{Name: "Cash", Type: "cash"})
	if err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}

	updated, err := s.UpdateAccount(ctx, rec.ID, domain.AccountInput{Name: "Wallet", Type: "cash"})
	if err != nil {
		t.Fatalf("UpdateAccount failed: %v", err)
	}
	if updated.Name != "Wallet" {
		t.Errorf("updated name = %q, want Wallet", updated.Name)
	}

	if err := s.DeleteAccount(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if got := len(s.Accounts()); got != 0 {
		t.Errorf("mirror accounts = %d after delete, want 0", got)
	}
}

func TestDeleteAccountKeepsTransactions(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	acc, err := s.AddAccount(ctx, domain.AccountInput{Name: "Cash"})
	if err != nil {
		t.Fatalf("AddAccount failed: %v", err)
	}
	if _, err := s.AddTransaction(ctx, txInput(100, "", acc.ID, civil.Date{Year: 2024, Month: 1, Day: 1})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}
	if err := s.DeleteAccount(ctx, acc.ID); err != nil {
		t.Fatalf("DeleteAccount failed: %v", err)
	}
	if got := len(s.Transactions()); got != 1 {
		t.Errorf("transactions = %d after account delete, want 1", got)
	}
}

func TestInvalidInputNeverReachesStore(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()
	ids.SignIn("alice")

	if _, err := s.AddTransaction(ctx, domain.TransactionInput{Kind: "transfer"}); !errors.Is(err, domain.ErrInvalidKind) {
		t.Errorf("AddTransaction = %v, want ErrInvalidKind", err)
	}
	if _, err := s.AddCategory(ctx, domain.CategoryInput{}); !errors.Is(err, domain.ErrEmptyCategoryName) {
		t.Errorf("AddCategory = %v, want ErrEmptyCategoryName", err)
	}
	if _, err := s.AddAccount(ctx, domain.AccountInput{Name: "x"}); !errors.Is(err, domain.ErrAccountNameTooShort) {
		t.Errorf("AddAccount = %v, want ErrAccountNameTooShort", err)
	}
	if got := len(fs.transactions["alice"]); got != 0 {
		t.Errorf("store received %d transactions from invalid input, want 0", got)
	}
}

func TestBootstrapFailureKeepsPreviousMirror(t *testing.T) {
	fs := newFakeStore()
	s, ids := newTestSyncer(t, fs, nil)
	ctx := context.Background()

	ids.SignIn("alice")
	if _, err := s.AddTransaction(ctx, txInput(100, "", "", civil.Date{Year: 2024, Month: 1, Day: 1})); err != nil {
		t.Fatalf("AddTransaction failed: %v", err)
	}

	fs.mu.Lock()
	fs.listTxErr = errors.New("backend unavailable")
	fs.mu.Unlock()

	ids.SignIn("bob")
	if err := s.Err(); err == nil {
		t.Error("failed bootstrap should surface an error")
	}
	// Alice's mirror is stale but intact; it was never half-replaced.
	if got := len(s.Transactions()); got != 1 {
		t.Errorf("mirror transactions = %d after failed bootstrap, want 1", got)
	}
}

func TestUploadImageScopesToUser(t *testing.T) {
	objects := &fakeObjects{}
	s, ids := newTestSyncer(t, newFakeStore(), objects)
	ids.SignIn("alice")

	url, err := s.UploadImage(context.Background(), "receipt.jpg", strings.NewReader("img"))
	if err != nil {
		t.Fatalf("UploadImage failed: %v", err)
	}
	if url != "https://objects.test/alice/receipt.jpg" {
		t.Errorf("url = %q", url)
	}
	if len(objects.uploads) != 1 || objects.uploads[0] != "alice/receipt.jpg" {
		t.Errorf("uploads = %v, want one alice-scoped upload", objects.uploads)
	}
}
