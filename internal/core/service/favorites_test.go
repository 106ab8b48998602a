package service

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/infrastructure/db/memory"
)

var (
	modelA = domain.Product{ID: "A", Name: "Porsche 911 GT3", Brand: "Mini GT", Price: 14}
	modelB = domain.Product{ID: "B", Name: "Ford GT40", Brand: "Hot Wheels", Price: 6}
	modelC = domain.Product{ID: "C", Name: "Lamborghini Countach", Brand: "Bburago", Price: 22}
	modelD = domain.Product{ID: "D", Name: "VW Type 2", Brand: "Greenlight", Price: 11}

	alice = &domain.User{ID: "u1", Name: "Alice", Email: "alice@example.com"}
)

type favoritesFixture struct {
	svc    *FavoritesService
	cache  *memory.LocalCache
	store  *memory.DocumentStore
	queue  *inlineQueue
	notify *recordingNotifier
}

func newFavoritesFixture(t *testing.T) *favoritesFixture {
	t.Helper()
	f := &favoritesFixture{
		cache:  memory.NewLocalCache(),
		store:  memory.NewDocumentStore(),
		queue:  &inlineQueue{},
		notify: &recordingNotifier{},
	}
	f.svc = NewFavoritesService("s1", f.cache, f.store, f.queue, f.notify, zerolog.Nop())
	f.svc.Load(context.Background())
	return f
}

func (f *favoritesFixture) remote(t *testing.T, userID string) []domain.Product {
	t.Helper()
	doc, err := f.store.GetDocument(context.Background(), FavoritesCollection, userID)
	require.NoError(t, err)
	return domain.FavoritesFromRecord(doc.Data["products"])
}

func (f *favoritesFixture) local(t *testing.T) []domain.Product {
	t.Helper()
	raw, ok, err := f.cache.Get(context.Background(), "s1", FavoritesCacheKey)
	require.NoError(t, err)
	require.True(t, ok)
	var items []domain.Product
	require.NoError(t, json.Unmarshal(raw, &items))
	return items
}

func TestFavorites_GuestAddIsImmediateAndLocal(t *testing.T) {
	f := newFavoritesFixture(t)

	changed := f.svc.AddToFavorites(context.Background(), modelA)

	assert.True(t, changed)
	assert.True(t, f.svc.IsFavorite("A"))
	assert.Equal(t, []string{"A"}, ids(f.local(t)))
	assert.Equal(t, 0, f.queue.Jobs(), "guests never write remotely")
	assert.Len(t, f.notify.withTitle("Added to favorites"), 1)
}

func TestFavorites_DuplicateAddIsNoop(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.OnAuthChange(ctx, alice)
	f.svc.AddToFavorites(ctx, modelA)
	jobs := f.queue.Jobs()

	changed := f.svc.AddToFavorites(ctx, modelA)

	assert.False(t, changed)
	assert.Equal(t, jobs, f.queue.Jobs())
	assert.Equal(t, 1, f.svc.Count())
	assert.Len(t, f.notify.withTitle("Added to favorites"), 1)
}

func TestFavorites_RemoveAbsentIsNoop(t *testing.T) {
	f := newFavoritesFixture(t)
	f.svc.AddToFavorites(context.Background(), modelA)

	assert.False(t, f.svc.RemoveFromFavorites(context.Background(), "zzz"))
	assert.Empty(t, f.notify.withTitle("Removed from favorites"))
}

func TestFavorites_LoginMigratesLocalList(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.AddToFavorites(ctx, modelA)
	f.svc.AddToFavorites(ctx, modelB)

	f.svc.OnAuthChange(ctx, alice)

	assert.Equal(t, []string{"A", "B"}, ids(f.remote(t, "u1")))
	assert.Equal(t, []string{"A", "B"}, ids(f.svc.List()))

	synced := f.notify.withTitle("Favorites synchronized")
	require.Len(t, synced, 1)
	assert.Equal(t, domain.KindSuccess, synced[0].kind)
	assert.Equal(t, "2 products were synchronized with your account", synced[0].message)

	doc, err := f.store.GetDocument(ctx, FavoritesCollection, "u1")
	require.NoError(t, err)
	assert.NotEmpty(t, doc.Data["createdAt"])
	assert.Equal(t, doc.Data["createdAt"], doc.Data["updatedAt"])
}

func TestFavorites_LoginWithEmptyLocalCreatesRecordSilently(t *testing.T) {
	f := newFavoritesFixture(t)

	f.svc.OnAuthChange(context.Background(), alice)

	assert.Empty(t, f.remote(t, "u1"))
	assert.Empty(t, f.notify.withTitle("Favorites synchronized"))
}

func TestFavorites_RemoteRecordWins(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetDocument(ctx, FavoritesCollection, "u1", map[string]any{
		"products": domain.FavoritesRecord([]domain.Product{modelC}),
	}))
	f.svc.AddToFavorites(ctx, modelD)

	f.svc.OnAuthChange(ctx, alice)

	assert.Equal(t, []string{"C"}, ids(f.svc.List()))
	assert.Equal(t, []string{"C"}, ids(f.local(t)), "local mirror follows the account")
	assert.Equal(t, []string{"C"}, ids(f.remote(t, "u1")), "local-only items are not merged")
	assert.Empty(t, f.notify.withTitle("Favorites synchronized"))
}

func TestFavorites_SignedInChangesArePushed(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.OnAuthChange(ctx, alice)

	f.svc.AddToFavorites(ctx, modelA)
	f.svc.AddToFavorites(ctx, modelB)
	f.svc.RemoveFromFavorites(ctx, "A")

	assert.Equal(t, []string{"B"}, ids(f.remote(t, "u1")))
	assert.Equal(t, 3, f.queue.Jobs())
	removed := f.notify.withTitle("Removed from favorites")
	require.Len(t, removed, 1)
	assert.Equal(t, modelA.Name, removed[0].message)
}

func TestFavorites_RemoteWriteFailureKeepsLocalChange(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.OnAuthChange(ctx, alice)
	f.store.FailWith = func(op, _ string) error {
		if op == "update" {
			return memory.ErrUnavailable
		}
		return nil
	}

	changed := f.svc.AddToFavorites(ctx, modelA)

	assert.True(t, changed)
	assert.True(t, f.svc.IsFavorite("A"))
	assert.Equal(t, []string{"A"}, ids(f.local(t)))
	require.Len(t, f.queue.errors, 1)
	assert.ErrorIs(t, f.queue.errors[0], memory.ErrUnavailable)
}

func TestFavorites_RemoteReadFailureFallsBackToLocal(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.AddToFavorites(ctx, modelD)
	f.store.FailWith = func(string, string) error { return memory.ErrUnavailable }

	f.svc.OnAuthChange(ctx, alice)

	assert.Equal(t, []string{"D"}, ids(f.svc.List()))
	assert.Empty(t, f.notify.withTitle("Favorites synchronized"))
}

func TestFavorites_LogoutReloadsLocalCache(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetDocument(ctx, FavoritesCollection, "u1", map[string]any{
		"products": domain.FavoritesRecord([]domain.Product{modelC}),
	}))
	f.svc.OnAuthChange(ctx, alice)
	jobs := f.queue.Jobs()

	f.svc.OnAuthChange(ctx, nil)
	f.svc.AddToFavorites(ctx, modelA)

	assert.Equal(t, []string{"C", "A"}, ids(f.svc.List()))
	assert.Equal(t, jobs, f.queue.Jobs(), "signed-out changes stay local")
	assert.Equal(t, []string{"C"}, ids(f.remote(t, "u1")))
}

func TestFavorites_SameIdentityIsNoop(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	f.svc.AddToFavorites(ctx, modelA)
	f.svc.OnAuthChange(ctx, alice)

	f.svc.OnAuthChange(ctx, &domain.User{ID: "u1"})

	assert.Len(t, f.notify.withTitle("Favorites synchronized"), 1)
}

func TestFavorites_ChangeDuringSignInDoesNotOverwriteRemote(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx := context.Background()
	require.NoError(t, f.store.SetDocument(ctx, FavoritesCollection, alice.ID, map[string]any{
		"products": domain.FavoritesRecord([]domain.Product{modelC}),
	}))

	entered := make(chan struct{})
	release := make(chan struct{})
	var hold sync.Once
	f.store.FailWith = func(op, collection string) error {
		if op == "get" && collection == FavoritesCollection {
			hold.Do(func() {
				close(entered)
				<-release
			})
		}
		return nil
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		f.svc.OnAuthChange(ctx, alice)
	}()
	<-entered

	assert.True(t, f.svc.AddToFavorites(ctx, modelD))
	assert.Equal(t, 0, f.queue.Jobs(), "no push while the remote list is loading")

	close(release)
	<-done

	assert.Equal(t, []string{"C"}, ids(f.remote(t, alice.ID)))
	assert.Equal(t, []string{"C"}, ids(f.svc.List()))
	assert.Equal(t, []string{"C"}, ids(f.local(t)))
}

// blockingQueue holds the first Enqueue until release is closed.
type blockingQueue struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

func (q *blockingQueue) Enqueue(_ string, job func(ctx context.Context) error) {
	q.once.Do(func() {
		close(q.entered)
		<-q.release
	})
	_ = job(context.Background())
}

func TestFavorites_FullQueueDoesNotBlockReads(t *testing.T) {
	q := &blockingQueue{entered: make(chan struct{}), release: make(chan struct{})}
	store := memory.NewDocumentStore()
	svc := NewFavoritesService("s1", memory.NewLocalCache(), store, q, &recordingNotifier{}, zerolog.Nop())
	ctx := context.Background()
	svc.OnAuthChange(ctx, alice)

	added := make(chan struct{})
	go func() {
		defer close(added)
		svc.AddToFavorites(ctx, modelA)
	}()
	<-q.entered

	read := make(chan bool)
	go func() { read <- svc.IsFavorite("A") }()
	select {
	case ok := <-read:
		assert.True(t, ok)
	case <-time.After(time.Second):
		t.Fatal("IsFavorite blocked behind a pending enqueue")
	}

	close(q.release)
	<-added
	doc, err := store.GetDocument(ctx, FavoritesCollection, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A"}, ids(domain.FavoritesFromRecord(doc.Data["products"])))
}

func TestFavorites_MirrorSurvivesCancelledRequest(t *testing.T) {
	f := newFavoritesFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	f.svc.AddToFavorites(ctx, modelB)

	assert.Equal(t, ids(f.svc.List()), ids(f.local(t)))
}
