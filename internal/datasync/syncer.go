// Package datasync owns the in-memory mirror of the signed-in user's
// transactions, categories and accounts. All writes go through the remote
// store first; the mirror is only patched with what the store confirmed.
package datasync

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/wchaiyo/pocketledger/internal/domain"
	"github.com/wchaiyo/pocketledger/internal/identity"
	"github.com/wchaiyo/pocketledger/internal/refresh"
	"github.com/wchaiyo/pocketledger/internal/store"
)

// ErrNotAuthenticated is returned by every mutation attempted without a
// signed-in identity. Mutations never silently no-op.
var ErrNotAuthenticated = errors.New("not authenticated")

// Collection keys used for targeted refreshes.
const (
	collTransactions = "transactions"
	collCategories   = "categories"
	collAccounts     = "accounts"
)

// mirror is one immutable-by-convention snapshot of a user's data. A new
// identity always gets a new mirror; the old one is discarded wholesale, so
// presentation code can never observe a mix of two users' records.
type mirror struct {
	userID       string
	transactions []domain.Transaction
	categories   []domain.Category
	accounts     []domain.Account
}

// Syncer is the data-sync layer. Presentation code reads snapshots and calls
// the mutation methods; it never touches the mirror directly.
type Syncer struct {
	records store.RecordStore
	objects store.ObjectStore
	ids     identity.Provider
	seeds   []domain.CategorySeed
	log     zerolog.Logger

	mu      sync.RWMutex
	cur     *mirror
	loading bool
	lastErr error

	refresher *refresh.Refresher
	baseCtx   context.Context
}

// New wires a Syncer. seeds is the default-category table written for brand
// new users; pass domain.DefaultCategories() outside of tests.
func New(records store.RecordStore, objects store.ObjectStore, ids identity.Provider, seeds []domain.CategorySeed, log zerolog.Logger) *Syncer {
	s := &Syncer{
		records: records,
		objects: objects,
		ids:     ids,
		seeds:   seeds,
		log:     log,
		cur:     guestMirror(seeds),
		loading: true,
		baseCtx: context.Background(),
	}
	s.refresher = refresh.New(s.refreshCollection)
	return s
}

// Start performs the initial bootstrap for the current identity, subscribes
// to identity changes and launches the background refresher.
func (s *Syncer) Start(ctx context.Context) {
	s.baseCtx = ctx
	s.refresher.Start(ctx)
	s.ids.Subscribe(func(userID string) {
		s.bootstrap(s.baseCtx, userID)
	})
	s.bootstrap(ctx, s.ids.CurrentUserID())
}

// Stop shuts down the background refresher.
func (s *Syncer) Stop() {
	s.refresher.Stop()
}

// Loading is true until the first bootstrap for the current identity has
// settled. Background refreshes never flip it back.
func (s *Syncer) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Err returns the error of the last bootstrap, if any.
func (s *Syncer) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Transactions returns a copy of the mirrored transactions, date descending.
func (s *Syncer) Transactions() []domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Transaction, len(s.cur.transactions))
	copy(out, s.cur.transactions)
	return out
}

// Categories returns a copy of the mirrored categories, name ascending.
func (s *Syncer) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Category, len(s.cur.categories))
	copy(out, s.cur.categories)
	return out
}

// Accounts returns a copy of the mirrored accounts.
func (s *Syncer) Accounts() []domain.Account {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.Account, len(s.cur.accounts))
	copy(out, s.cur.accounts)
	return out
}

// RequestRefresh schedules a background re-fetch of all three collections.
// This is the explicit, user-initiated reconcile path; ordinary mutations
// rely on the store's returned record instead.
func (s *Syncer) RequestRefresh() {
	s.refresher.Request(collTransactions)
	s.refresher.Request(collCategories)
	s.refresher.Request(collAccounts)
}

// bootstrap rebuilds the mirror for userID. With no identity the mirror is
// the read-only guest view: empty transactions and accounts, the built-in
// default categories. With an identity the three collections are fetched in
// parallel and defaults are seeded for a user with no categories at all.
func (s *Syncer) bootstrap(ctx context.Context, userID string) {
	if userID == "" {
		s.mu.Lock()
		s.cur = guestMirror(s.seeds)
		s.loading = false
		s.lastErr = nil
		s.mu.Unlock()
		s.log.Info().Msg("Signed out, mirror reset to guest view")
		return
	}

	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()

	next := &mirror{userID: userID}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		txs, err := s.records.ListTransactions(gctx, userID)
		next.transactions = txs
		return err
	})
	g.Go(func() error {
		cats, err := s.records.ListCategories(gctx, userID)
		next.categories = cats
		return err
	})
	g.Go(func() error {
		accs, err := s.records.ListAccounts(gctx, userID)
		next.accounts = accs
		return err
	})
	err := g.Wait()

	if err == nil && len(next.categories) == 0 {
		if err = s.records.SeedDefaultCategories(ctx, userID, s.seeds); err == nil {
			next.categories, err = s.records.ListCategories(ctx, userID)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.ids.CurrentUserID(); cur != userID {
		// Identity changed while we were fetching; a newer bootstrap owns
		// the mirror now.
		return
	}
	s.loading = false
	s.lastErr = err
	if err != nil {
		s.log.Error().Err(err).Str("user_id", userID).Msg("Bootstrap failed")
		return
	}
	s.cur = next
	s.log.Info().
		Str("user_id", userID).
		Int("transactions", len(next.transactions)).
		Int("categories", len(next.categories)).
		Int("accounts", len(next.accounts)).
		Msg("Mirror bootstrapped")
}

// refreshCollection re-fetches one collection for the current user and
// replaces it wholesale. Runs on the refresher worker.
func (s *Syncer) refreshCollection(ctx context.Context, key string) {
	userID := s.ids.CurrentUserID()
	if userID == "" {
		return
	}

	var err error
	var txs []domain.Transaction
	var cats []domain.Category
	var accs []domain.Account

	switch key {
	case collTransactions:
		txs, err = s.records.ListTransactions(ctx, userID)
	case collCategories:
		cats, err = s.records.ListCategories(ctx, userID)
	case collAccounts:
		accs, err = s.records.ListAccounts(ctx, userID)
	default:
		return
	}
	if err != nil {
		s.log.Warn().Err(err).Str("collection", key).Msg("Background refresh failed")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur.userID != userID {
		return
	}
	switch key {
	case collTransactions:
		s.cur.transactions = txs
	case collCategories:
		s.cur.categories = cats
	case collAccounts:
		s.cur.accounts = accs
	}
}

func guestMirror(seeds []domain.CategorySeed) *mirror {
	cats := make([]domain.Category, 0, len(seeds))
	for _, seed := range seeds {
		cats = append(cats, domain.Category{
			ID:        seedID(seed.Name),
			Name:      seed.Name,
			Icon:      seed.Icon,
			Color:     seed.Color,
			IsDefault: true,
		})
	}
	return &mirror{categories: cats}
}

func seedID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "-")
}

// currentUser returns the identity every mutation is scoped to, or
// ErrNotAuthenticated when signed out.
func (s *Syncer) currentUser() (string, error) {
	userID := s.ids.CurrentUserID()
	if userID == "" {
		return "", ErrNotAuthenticated
	}
	return userID, nil
}

// UploadImage stores a receipt image and returns its public URL. The caller
// passes the URL to AddTransaction/UpdateTransaction afterwards; a failed
// follow-up write leaves the uploaded object behind.
func (s *Syncer) UploadImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	userID, err := s.currentUser()
	if err != nil {
		return "", err
	}
	return s.objects.UploadImage(ctx, userID, filename, r)
}
