package mongo

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/diecastgarage/storefront/internal/core/domain"
	"github.com/diecastgarage/storefront/internal/core/ports"
)

// DocumentStore implements ports.DocumentStore on MongoDB. Document ids are
// stored as string _id values; Subscribe relies on change streams and so
// needs a replica set.
type DocumentStore struct {
	db  *mongo.Database
	log zerolog.Logger
}

func NewDocumentStore(db *mongo.Database, log zerolog.Logger) *DocumentStore {
	return &DocumentStore{db: db, log: log}
}

func (s *DocumentStore) GetDocument(ctx context.Context, collection, id string) (*ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var raw bson.M
	err := s.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(&raw)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrDocumentNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	doc := toDocument(raw)
	return &doc, nil
}

func (s *DocumentStore) SetDocument(ctx context.Context, collection, id string, data map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := s.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, withoutID(data), options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) AddDocument(ctx context.Context, collection string, data map[string]any) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	id := primitive.NewObjectID().Hex()
	doc := withoutID(data)
	doc["_id"] = id
	if _, err := s.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		return "", fmt.Errorf("add %s: %w", collection, err)
	}
	return id, nil
}

func (s *DocumentStore) UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	res, err := s.db.Collection(collection).UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": withoutID(partial)})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	if res.MatchedCount == 0 {
		return domain.ErrDocumentNotFound
	}
	return nil
}

func (s *DocumentStore) DeleteDocument(ctx context.Context, collection, id string) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	if _, err := s.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return nil
}

func (s *DocumentStore) QueryCollection(ctx context.Context, collection string, q ports.Query) ([]ports.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find()
	if q.OrderBy != "" {
		dir := 1
		if q.Desc {
			dir = -1
		}
		opts.SetSort(bson.D{{Key: q.OrderBy, Value: dir}, {Key: "_id", Value: dir}})
	}

	cur, err := s.db.Collection(collection).Find(ctx, filterFor(q.Filters), opts)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	defer cur.Close(ctx)

	out := make([]ports.Document, 0)
	for cur.Next(ctx) {
		var raw bson.M
		if err := cur.Decode(&raw); err != nil {
			return nil, fmt.Errorf("decode %s: %w", collection, err)
		}
		out = append(out, toDocument(raw))
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("query %s: %w", collection, err)
	}
	return out, nil
}

// Subscribe sends the current result, then re-runs the query after every
// change stream event on the collection. A stream error ends the
// subscription through onError.
func (s *DocumentStore) Subscribe(ctx context.Context, collection string, q ports.Query, onSnapshot ports.SnapshotFunc, onError ports.ErrorFunc) (func(), error) {
	ctx, cancel := context.WithCancel(ctx)

	stream, err := s.db.Collection(collection).Watch(ctx, mongo.Pipeline{})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("watch %s: %w", collection, err)
	}

	initial, err := s.QueryCollection(ctx, collection, q)
	if err != nil {
		_ = stream.Close(context.Background())
		cancel()
		return nil, err
	}
	onSnapshot(initial)

	go func() {
		defer stream.Close(context.Background())
		for stream.Next(ctx) {
			docs, err := s.QueryCollection(ctx, collection, q)
			if err != nil {
				if ctx.Err() == nil {
					onError(err)
				}
				return
			}
			onSnapshot(docs)
		}
		if err := stream.Err(); err != nil && ctx.Err() == nil {
			onError(fmt.Errorf("watch %s: %w", collection, err))
		}
	}()

	return cancel, nil
}

func (s *DocumentStore) Ping(ctx context.Context) error {
	return s.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

func filterFor(filters []ports.Filter) bson.M {
	out := bson.M{}
	for _, f := range filters {
		switch f.Op {
		case ports.OpEqual:
			out[f.Field] = f.Value
		case ports.OpGreater:
			out[f.Field] = bson.M{"$gt": f.Value}
		case ports.OpLess:
			out[f.Field] = bson.M{"$lt": f.Value}
		}
	}
	return out
}

func withoutID(data map[string]any) bson.M {
	out := make(bson.M, len(data))
	for k, v := range data {
		if k == "_id" {
			continue
		}
		out[k] = v
	}
	return out
}

func toDocument(raw bson.M) ports.Document {
	doc := ports.Document{Data: make(map[string]any, len(raw))}
	for k, v := range raw {
		if k == "_id" {
			doc.ID = idString(v)
			continue
		}
		doc.Data[k] = plain(v)
	}
	return doc
}

func idString(v any) string {
	switch id := v.(type) {
	case string:
		return id
	case primitive.ObjectID:
		return id.Hex()
	}
	return fmt.Sprint(v)
}

// plain converts driver types to the map/slice/time values the domain
// decoders understand.
func plain(v any) any {
	switch t := v.(type) {
	case bson.M:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = plain(e)
		}
		return out
	case bson.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case bson.A:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = plain(e)
		}
		return out
	case primitive.DateTime:
		return t.Time().UTC()
	case primitive.ObjectID:
		return t.Hex()
	case primitive.Decimal128:
		return t.String()
	}
	return v
}

var _ ports.DocumentStore = (*DocumentStore)(nil)
