package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
)

// Document is a versioned record read back from the store. Data stays raw
// until the caller decodes it against a concrete type at the boundary.
type Document struct {
	Collection string          `json:"collection"`
	Key        string          `json:"key"`
	Data       json.RawMessage `json:"data"`
	Version    int64           `json:"version"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// ListOptions narrows a List call. An empty Prefix lists the whole
// collection; Limit of 0 means no limit.
type ListOptions struct {
	Prefix string
	Limit  int
}

// Expected-version semantics for Set and Delete:
//   - nil: unconditional write
//   - pointer to VersionAbsent (0): the key must not exist yet
//   - pointer to n > 0: the stored version must equal n
const VersionAbsent int64 = 0

// Store is a versioned key/value document store with optimistic
// concurrency. Set and Delete fail with ErrVersionConflict when the stored
// version no longer matches the caller's expectation.
type Store interface {
	Get(ctx context.Context, collection, key string) (*Document, error)
	Set(ctx context.Context, collection, key string, value interface{}, expectedVersion *int64) (int64, error)
	List(ctx context.Context, collection string, opts ListOptions) ([]*Document, error)
	Delete(ctx context.Context, collection, key string, expectedVersion *int64) error
}

func sortDocumentsByKey(docs []*Document) {
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })
}

// Decode unmarshals a document payload into a typed record, failing fast on
// shape mismatch instead of handing untyped maps downstream.
func Decode[T any](doc *Document) (*T, error) {
	if doc == nil {
		return nil, ierr.NewError("document is nil").
			WithHint("Cannot decode a missing document").
			Mark(ierr.ErrNotFound)
	}

	var out T
	if err := json.Unmarshal(doc.Data, &out); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Stored document does not match the expected shape").
			WithReportableDetails(map[string]interface{}{
				"collection": doc.Collection,
				"key":        doc.Key,
			}).
			Mark(ierr.ErrInternal)
	}
	return &out, nil
}

// GetTyped loads and decodes a document in one step. Returns the decoded
// record plus the document version for subsequent version-checked writes.
func GetTyped[T any](ctx context.Context, s Store, collection, key string) (*T, int64, error) {
	doc, err := s.Get(ctx, collection, key)
	if err != nil {
		return nil, 0, err
	}
	out, err := Decode[T](doc)
	if err != nil {
		return nil, 0, err
	}
	return out, doc.Version, nil
}
