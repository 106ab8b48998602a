package ports

import "context"

// Document is a record held by the remote document store.
type Document struct {
	ID   string
	Data map[string]any
}

// FilterOp is a comparison supported by every store adapter.
type FilterOp string

const (
	OpEqual   FilterOp = "=="
	OpGreater FilterOp = ">"
	OpLess    FilterOp = "<"
)

// Filter restricts a query to documents whose Field compares to Value.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Query selects and orders documents of a collection.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
}

// SnapshotFunc receives the full, ordered contents of a subscribed query.
type SnapshotFunc func(docs []Document)

// ErrorFunc receives the error that ended a subscription.
type ErrorFunc func(err error)

// DocumentStore wraps the hosted document database. GetDocument returns
// domain.ErrDocumentNotFound when the record is absent; UpdateDocument
// fails the same way instead of creating it.
type DocumentStore interface {
	GetDocument(ctx context.Context, collection, id string) (*Document, error)
	SetDocument(ctx context.Context, collection, id string, data map[string]any) error
	AddDocument(ctx context.Context, collection string, data map[string]any) (string, error)
	UpdateDocument(ctx context.Context, collection, id string, partial map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
	QueryCollection(ctx context.Context, collection string, q Query) ([]Document, error)

	// Subscribe delivers a full snapshot now and after every change until
	// the returned function is called or onError fires. It never retries.
	Subscribe(ctx context.Context, collection string, q Query, onSnapshot SnapshotFunc, onError ErrorFunc) (unsubscribe func(), err error)
}

// Pinger is implemented by backends that can report their reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}
