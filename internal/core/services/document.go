package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// MaxFileSizeBytes is the upload size cap (50MB).
const MaxFileSizeBytes = 50 * 1024 * 1024

// filenameSafeChars are the characters kept as-is when sanitising a
// filename for storage; everything else becomes an underscore.
const filenameSafeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789.-_"

// DocumentService manages the document lifecycle: upload, processing,
// retrieval and cascading deletion.
type DocumentService struct {
	docStore    driven.DocumentStore
	fileStore   driven.FileStore
	index       driven.VectorIndex
	collections *CollectionService
	queue       *ProcessingQueue
}

// NewDocumentService creates a new document service.
// The index may be nil; deletion then skips vector cleanup.
func NewDocumentService(
	docStore driven.DocumentStore,
	fileStore driven.FileStore,
	index driven.VectorIndex,
	collections *CollectionService,
	queue *ProcessingQueue,
) *DocumentService {
	return &DocumentService{
		docStore:    docStore,
		fileStore:   fileStore,
		index:       index,
		collections: collections,
		queue:       queue,
	}
}

// Upload stores a file, records the document as pending and enqueues it
// for processing.
func (s *DocumentService) Upload(ctx context.Context, upload driving.DocumentUpload) (*domain.Document, error) {
	if err := validateUpload(upload); err != nil {
		return nil, err
	}

	collection, err := s.resolveCollection(ctx, upload.CollectionID)
	if err != nil {
		return nil, err
	}

	filename := sanitiseFilename(upload.Filename)
	path, err := s.fileStore.Save(ctx, filename, upload.Content)
	if err != nil {
		return nil, fmt.Errorf("storing upload %q: %w", upload.Filename, err)
	}

	now := time.Now()
	doc := &domain.Document{
		ID:               uuid.New().String(),
		Filename:         filename,
		OriginalFilename: upload.Filename,
		ContentType:      upload.ContentType,
		FileSize:         int64(len(upload.Content)),
		FilePath:         path,
		Status:           domain.StatusPending,
		CollectionID:     collection.ID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		// Roll the stored file back so uploads never leak orphans.
		_ = s.fileStore.Delete(ctx, path)
		return nil, fmt.Errorf("recording document %q: %w", upload.Filename, err)
	}

	if err := s.queue.Enqueue(doc.ID); err != nil {
		s.markFailed(ctx, doc, err)
		return nil, fmt.Errorf("enqueueing document %q: %w", upload.Filename, err)
	}

	logger.Info("Uploaded %s (%s), %d bytes, collection %s",
		doc.OriginalFilename, doc.ID, doc.FileSize, collection.Name)
	return doc, nil
}

// UploadAndWait uploads and blocks until processing reaches a terminal
// status, then returns the final document state.
func (s *DocumentService) UploadAndWait(ctx context.Context, upload driving.DocumentUpload) (*domain.Document, error) {
	doc, err := s.Upload(ctx, upload)
	if err != nil {
		return nil, err
	}

	if err := s.queue.Wait(ctx, doc.ID); err != nil {
		return doc, err
	}

	return s.docStore.GetDocument(ctx, doc.ID)
}

// Get retrieves a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return s.docStore.GetDocument(ctx, id)
}

// List returns documents with pagination and optional collection scope.
func (s *DocumentService) List(ctx context.Context, opts driving.ListOptions) (*driving.DocumentList, error) {
	docs, total, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{
		CollectionID: opts.CollectionID,
		Offset:       opts.Offset,
		Limit:        opts.Limit,
	})
	if err != nil {
		return nil, err
	}

	return &driving.DocumentList{
		Documents: docs,
		Total:     total,
		Offset:    opts.Offset,
		Limit:     opts.Limit,
	}, nil
}

// Delete removes a document, its vector points and its stored file.
// Vector cleanup happens first so a partial failure can never leave
// dangling points behind a deleted document.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	doc, err := s.docStore.GetDocument(ctx, id)
	if err != nil {
		return err
	}

	if s.index != nil && len(doc.VectorIDs) > 0 {
		if err := s.index.DeleteByDocument(ctx, doc.ID); err != nil {
			return fmt.Errorf("deleting vectors for document %s: %w", doc.ID, err)
		}
	}

	if err := s.fileStore.Delete(ctx, doc.FilePath); err != nil {
		return fmt.Errorf("deleting stored file for document %s: %w", doc.ID, err)
	}

	if err := s.docStore.DeleteDocument(ctx, id); err != nil {
		return err
	}

	logger.Info("Deleted document %s (%s)", doc.OriginalFilename, doc.ID)
	return nil
}

// resolveCollection returns the target collection, defaulting when unset.
func (s *DocumentService) resolveCollection(ctx context.Context, collectionID string) (*domain.Collection, error) {
	if collectionID != "" {
		return s.collections.Get(ctx, collectionID)
	}
	return s.collections.GetOrCreateDefault(ctx)
}

// markFailed records a terminal failure outside the worker.
func (s *DocumentService) markFailed(ctx context.Context, doc *domain.Document, cause error) {
	now := time.Now()
	doc.Status = domain.StatusFailed
	doc.ErrorMessage = cause.Error()
	doc.ProcessingCompletedAt = &now
	if err := s.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to record failure for document %s: %v", doc.ID, err)
	}
}

// validateUpload rejects uploads before any bytes touch disk.
func validateUpload(upload driving.DocumentUpload) error {
	if strings.TrimSpace(upload.Filename) == "" {
		return fmt.Errorf("%w: no filename provided", domain.ErrInvalidInput)
	}
	if len(upload.Content) == 0 {
		return fmt.Errorf("%w: empty file", domain.ErrInvalidInput)
	}
	if len(upload.Content) > MaxFileSizeBytes {
		return fmt.Errorf("%w: file too large, maximum size is %dMB",
			domain.ErrInvalidInput, MaxFileSizeBytes/(1024*1024))
	}
	return nil
}

// sanitiseFilename replaces unsafe characters and caps length for storage.
func sanitiseFilename(filename string) string {
	var b strings.Builder
	for _, r := range filename {
		if strings.ContainsRune(filenameSafeChars, r) {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}

	sanitised := b.String()
	if len(sanitised) > 255 {
		sanitised = sanitised[:255]
	}
	return sanitised
}
