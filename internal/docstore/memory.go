package docstore

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	ierr "github.com/docuforge/docuforge/internal/errors"
)

// InMemoryStore is a mutex-guarded Store used in local mode and tests. It
// honors the same version-conflict semantics as the Redis backend.
type InMemoryStore struct {
	mu   sync.RWMutex
	data map[string]map[string]*Document
}

// NewInMemoryStore creates an empty in-memory document store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		data: make(map[string]map[string]*Document),
	}
}

func copyDocument(doc *Document) *Document {
	if doc == nil {
		return nil
	}
	cp := *doc
	cp.Data = append(json.RawMessage(nil), doc.Data...)
	return &cp
}

func (s *InMemoryStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.data[collection][key]
	if !ok {
		return nil, ierr.NewError("document not found").
			WithHint("Document not found").
			WithReportableDetails(map[string]interface{}{
				"collection": collection,
				"key":        key,
			}).
			Mark(ierr.ErrNotFound)
	}
	return copyDocument(doc), nil
}

func (s *InMemoryStore) Set(ctx context.Context, collection, key string, value interface{}, expectedVersion *int64) (int64, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to encode document").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.data[collection] == nil {
		s.data[collection] = make(map[string]*Document)
	}

	current := s.data[collection][key]
	if err := checkVersion(collection, key, current, expectedVersion); err != nil {
		return 0, err
	}

	var version int64 = 1
	if current != nil {
		version = current.Version + 1
	}

	s.data[collection][key] = &Document{
		Collection: collection,
		Key:        key,
		Data:       data,
		Version:    version,
		UpdatedAt:  time.Now().UTC(),
	}
	return version, nil
}

func (s *InMemoryStore) List(ctx context.Context, collection string, opts ListOptions) ([]*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]*Document, 0)
	for key, doc := range s.data[collection] {
		if opts.Prefix != "" && !strings.HasPrefix(key, opts.Prefix) {
			continue
		}
		docs = append(docs, copyDocument(doc))
	}

	// Keys encode sort order (timestamps, day buckets), so order by key.
	sort.Slice(docs, func(i, j int) bool { return docs[i].Key < docs[j].Key })

	if opts.Limit > 0 && len(docs) > opts.Limit {
		docs = docs[:opts.Limit]
	}
	return docs, nil
}

func (s *InMemoryStore) Delete(ctx context.Context, collection, key string, expectedVersion *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.data[collection][key]
	if current == nil {
		return ierr.NewError("document not found").
			WithHint("Document not found").
			WithReportableDetails(map[string]interface{}{
				"collection": collection,
				"key":        key,
			}).
			Mark(ierr.ErrNotFound)
	}
	if err := checkVersion(collection, key, current, expectedVersion); err != nil {
		return err
	}

	delete(s.data[collection], key)
	return nil
}

func checkVersion(collection, key string, current *Document, expected *int64) error {
	if expected == nil {
		return nil
	}

	var stored int64
	if current != nil {
		stored = current.Version
	}
	if stored != *expected {
		return ierr.NewError("document version conflict").
			WithHint("The document was modified concurrently").
			WithReportableDetails(map[string]interface{}{
				"collection":       collection,
				"key":              key,
				"expected_version": *expected,
				"stored_version":   stored,
			}).
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}
