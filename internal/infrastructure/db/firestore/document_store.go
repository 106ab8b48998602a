package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/rs/zerolog"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

const defaultTimeout = 10 * time.Second

// DocumentStore implements ports.DocumentStore on Cloud Firestore.
type DocumentStore struct {
	client *firestore.Client
	log    zerolog.Logger
}

func NewDocumentStore(client *firestore.Client, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{client: client, log: log}
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return &ports.Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.client.Collection(collection).Doc(id).Set(ctx, data); err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) AddDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	ref, _, err := s.client.Collection(collection).Add(ctx, data)
	if err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return ref.ID, nil
}

// UpdateDocument merges top-level fields; Firestore rejects updates of
// missing documents with NotFound.
func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	updates := make([]firestore.Update, 0, len(partial))
	for k, v := range partial {
		updates = append(updates, firestore.Update{Path: k, Value: v})
	}
	if _, err := s.client.Collection(collection).Doc(id).Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return domain.ErrDocumentNotFound
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.client.Collection(collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) QueryCollection(ctx context.Context, collection string, q ports.Query) ([]ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	it := s.query(collection, q).Documents(ctx)
	defer it.Stop()

	out := make([]ports.Document, 0)
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("query %s: %w", collection, err)
		}
		out = append(out, ports.Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	return out, nil
}

// Subscribe listens with query snapshots. The first snapshot is delivered
// from the listener goroutine; the listener ends on the first error.
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, q ports.Query, onSnapshot ports.SnapshotFunc, onError ports.ErrorFunc) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)
	it := s.query(collection, q).Snapshots(ctx)

	go func() {
		defer it.Stop()
		for {
			snap, err := it.Next()
			if err != nil {
				if ctx.Err() == nil && status.Code(err) != codes.Canceled {
					onError(fmt.Errorf("listen %s: %w", collection, err))
				}
				return
			}
			docs, err := snap.Documents.GetAll()
			if err != nil {
				if ctx.Err() == nil {
					onError(fmt.Errorf("read snapshot %s: %w", collection, err))
				}
				return
			}
			out := make([]ports.Document, 0, len(docs))
			for _, d := range docs {
				out = append(out, ports.Document{ID: d.Ref.ID, Data: d.Data()})
			}
			onSnapshot(out)
		}
	}()

	return cancel, nil
}

// Ping reads a non-existent document; NotFound proves the backend answered.
func (s *DocumentStore) Ping(ctx context.Context) error {
	_, err := s.client.Collection("_health").Doc("ping").Get(ctx)
	if err == nil || status.Code(err) == codes.NotFound {
		return nil
	}
	return err
}

func (s *DocumentStore) query(collection string, q ports.Query) firestore.Query {
	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}
	return query
}

var _ ports.DocumentStore = (*DocumentStore)(nil)
