// Package memory provides in-memory implementations of the metadata
// store ports, used for tests and ephemeral runs.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure DocumentStore implements the interface.
var _ driven.DocumentStore = (*DocumentStore)(nil)

// DocumentStore is an in-memory document store safe for concurrent use.
type DocumentStore struct {
	mu          sync.RWMutex
	documents   map[string]domain.Document
	collections *CollectionStore
}

// NewDocumentStore creates an empty in-memory document store.
// When collections is non-nil, collection counts are kept in sync.
func NewDocumentStore(collections *CollectionStore) *DocumentStore {
	return &DocumentStore{
		documents:   make(map[string]domain.Document),
		collections: collections,
	}
}

// SaveDocument stores or updates a document.
func (s *DocumentStore) SaveDocument(_ context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	s.documents[doc.ID] = *doc
	s.recount()
	return nil
}

// GetDocument retrieves a document by ID.
func (s *DocumentStore) GetDocument(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// ListDocuments returns matching documents plus the unpaginated total.
func (s *DocumentStore) ListDocuments(_ context.Context, filter driven.DocumentFilter) ([]domain.Document, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matched []domain.Document
	for _, doc := range s.documents {
		if filter.CollectionID != "" && doc.CollectionID != filter.CollectionID {
			continue
		}
		if filter.Status != "" && doc.Status != filter.Status {
			continue
		}
		matched = append(matched, doc)
	}

	// Newest first, matching the SQLite store's ordering.
	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && len(matched) > filter.Limit {
		matched = matched[:filter.Limit]
	}

	return matched, total, nil
}

// DeleteDocument removes a document.
func (s *DocumentStore) DeleteDocument(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.documents[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.documents, id)
	s.recount()
	return nil
}

// recount pushes fresh counts into the linked collection store.
// Caller must hold the write lock.
func (s *DocumentStore) recount() {
	if s.collections == nil {
		return
	}

	docCounts := make(map[string]int)
	chunkCounts := make(map[string]int)
	for _, doc := range s.documents {
		if doc.CollectionID == "" {
			continue
		}
		docCounts[doc.CollectionID]++
		chunkCounts[doc.CollectionID] += doc.ChunksCount
	}
	s.collections.setCounts(docCounts, chunkCounts)
}

// Ensure CollectionStore implements the interface.
var _ driven.CollectionStore = (*CollectionStore)(nil)

// CollectionStore is an in-memory collection store safe for concurrent use.
type CollectionStore struct {
	mu          sync.RWMutex
	collections map[string]domain.Collection
}

// NewCollectionStore creates an empty in-memory collection store.
func NewCollectionStore() *CollectionStore {
	return &CollectionStore{
		collections: make(map[string]domain.Collection),
	}
}

// SaveCollection stores or updates a collection.
func (s *CollectionStore) SaveCollection(_ context.Context, col *domain.Collection) error {
	if col == nil || col.ID == "" || col.Name == "" {
		return domain.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for id, existing := range s.collections {
		if existing.Name == col.Name && id != col.ID {
			return fmt.Errorf("%w: collection %q", domain.ErrAlreadyExists, col.Name)
		}
	}

	now := time.Now().UTC()
	if col.CreatedAt.IsZero() {
		col.CreatedAt = now
	}
	col.UpdatedAt = now

	s.collections[col.ID] = *col
	return nil
}

// GetCollection retrieves a collection by ID.
func (s *CollectionStore) GetCollection(_ context.Context, id string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	col, ok := s.collections[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &col, nil
}

// GetCollectionByName retrieves a collection by its unique name.
func (s *CollectionStore) GetCollectionByName(_ context.Context, name string) (*domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, col := range s.collections {
		if col.Name == name {
			return &col, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ListCollections returns all collections ordered by name.
func (s *CollectionStore) ListCollections(_ context.Context) ([]domain.Collection, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]domain.Collection, 0, len(s.collections))
	for _, col := range s.collections {
		list = append(list, col)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// DeleteCollection removes an empty collection.
func (s *CollectionStore) DeleteCollection(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, ok := s.collections[id]
	if !ok {
		return domain.ErrNotFound
	}
	if col.DocumentsCount > 0 {
		return fmt.Errorf("%w: collection still holds %d documents", domain.ErrInvalidInput, col.DocumentsCount)
	}
	delete(s.collections, id)
	return nil
}

// setCounts overwrites the stored counts for every collection.
func (s *CollectionStore) setCounts(docCounts, chunkCounts map[string]int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, col := range s.collections {
		col.DocumentsCount = docCounts[id]
		col.ChunksCount = chunkCounts[id]
		s.collections[id] = col
	}
}
