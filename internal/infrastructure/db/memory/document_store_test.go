package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

func TestDocumentStore_GetReturnsCopies(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	require.NoError(t, s.SetDocument(ctx, "c", "1", map[string]any{
		"tags": []any{map[string]any{"id": "a"}},
	}))

	doc, err := s.GetDocument(ctx, "c", "1")
	require.NoError(t, err)
	doc.Data["tags"].([]any)[0].(map[string]any)["id"] = "mutated"

	again, err := s.GetDocument(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, "a", again.Data["tags"].([]any)[0].(map[string]any)["id"])
}

func TestDocumentStore_MissingDocuments(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()

	_, err := s.GetDocument(ctx, "c", "nope")
	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.ErrorIs(t, s.UpdateDocument(ctx, "c", "nope", map[string]any{"x": 1}), domain.ErrDocumentNotFound)
	assert.NoError(t, s.DeleteDocument(ctx, "c", "nope"))
}

func TestDocumentStore_UpdateMergesTopLevel(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	require.NoError(t, s.SetDocument(ctx, "c", "1", map[string]any{"a": 1, "b": 2}))

	require.NoError(t, s.UpdateDocument(ctx, "c", "1", map[string]any{"b": 3}))

	doc, err := s.GetDocument(ctx, "c", "1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1, "b": 3}, doc.Data)
}

func TestDocumentStore_QueryFiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	for id, price := range map[string]float64{"a": 5, "b": 15, "c": 25} {
		require.NoError(t, s.SetDocument(ctx, "p", id, map[string]any{"price": price}))
	}

	docs, err := s.QueryCollection(ctx, "p", ports.Query{
		Filters: []ports.Filter{{Field: "price", Op: ports.OpGreater, Value: 10}},
		OrderBy: "price",
		Desc:    true,
	})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "c", docs[0].ID)
	assert.Equal(t, "b", docs[1].ID)
}

func TestDocumentStore_SubscribeDeliversSnapshots(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s := NewDocumentStore()
	require.NoError(t, s.SetDocument(ctx, "p", "a", map[string]any{"n": 1}))

	var sizes []int
	unsub, err := s.Subscribe(ctx, "p", ports.Query{}, func(docs []ports.Document) {
		sizes = append(sizes, len(docs))
	}, func(error) { t.Fatal("unexpected error callback") })
	require.NoError(t, err)

	_, err = s.AddDocument(ctx, "p", map[string]any{"n": 2})
	require.NoError(t, err)
	require.NoError(t, s.SetDocument(ctx, "other", "x", map[string]any{}))
	require.NoError(t, s.DeleteDocument(ctx, "p", "a"))

	unsub()
	require.NoError(t, s.SetDocument(ctx, "p", "z", map[string]any{}))

	assert.Equal(t, []int{1, 2, 1}, sizes)
	assert.Zero(t, s.Subscribers())
}

func TestDocumentStore_FailWith(t *testing.T) {
	ctx := context.Background()
	s := NewDocumentStore()
	s.FailWith = func(op, _ string) error {
		if op == "set" {
			return ErrUnavailable
		}
		return nil
	}

	assert.ErrorIs(t, s.SetDocument(ctx, "c", "1", map[string]any{}), ErrUnavailable)
	_, err := s.AddDocument(ctx, "c", map[string]any{})
	assert.NoError(t, err)
}

func TestLocalCache_ScopesAreIsolated(t *testing.T) {
	ctx := context.Background()
	c := NewLocalCache()
	require.NoError(t, c.Set(ctx, "s1", "cart", []byte("[1]")))

	_, ok, err := c.Get(ctx, "s2", "cart")
	require.NoError(t, err)
	assert.False(t, ok)

	v, ok, err := c.Get(ctx, "s1", "cart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "[1]", string(v))

	require.NoError(t, c.Delete(ctx, "s1", "cart"))
	_, ok, _ = c.Get(ctx, "s1", "cart")
	assert.False(t, ok)
}

func TestLocalCache_RefusesDoneContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewLocalCache()

	assert.ErrorIs(t, c.Set(ctx, "s1", "cart", []byte("[]")), context.Canceled)
	_, _, err := c.Get(ctx, "s1", "cart")
	assert.ErrorIs(t, err, context.Canceled)
}
