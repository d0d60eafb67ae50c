package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure CollectionService implements the interface.
var _ driving.CollectionService = (*CollectionService)(nil)

// CollectionService manages document collections.
type CollectionService struct {
	store driven.CollectionStore
}

// NewCollectionService creates a new collection service.
func NewCollectionService(store driven.CollectionStore) *CollectionService {
	return &CollectionService{store: store}
}

// Create makes a new collection with a unique name.
func (s *CollectionService) Create(ctx context.Context, name, description string) (*domain.Collection, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: collection name is required", domain.ErrInvalidInput)
	}

	now := time.Now()
	col := &domain.Collection{
		ID:          uuid.New().String(),
		Name:        name,
		Description: description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.SaveCollection(ctx, col); err != nil {
		return nil, fmt.Errorf("create collection %q: %w", name, err)
	}

	logger.Info("Created collection %q (%s)", name, col.ID)
	return col, nil
}

// Get retrieves a collection by ID.
func (s *CollectionService) Get(ctx context.Context, id string) (*domain.Collection, error) {
	return s.store.GetCollection(ctx, id)
}

// List returns all collections.
func (s *CollectionService) List(ctx context.Context) ([]domain.Collection, error) {
	return s.store.ListCollections(ctx)
}

// Delete removes an empty collection.
func (s *CollectionService) Delete(ctx context.Context, id string) error {
	if err := s.store.DeleteCollection(ctx, id); err != nil {
		return err
	}
	logger.Info("Deleted collection %s", id)
	return nil
}

// GetOrCreateDefault returns the default collection, creating it on first use.
func (s *CollectionService) GetOrCreateDefault(ctx context.Context) (*domain.Collection, error) {
	col, err := s.store.GetCollectionByName(ctx, domain.DefaultCollectionName)
	if err == nil {
		return col, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	return s.Create(ctx, domain.DefaultCollectionName, "Default collection for uploaded documents")
}
