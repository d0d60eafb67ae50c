package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// queueCapacity bounds pending work. Enqueue fails when the backlog is full
// rather than blocking the uploader.
const queueCapacity = 100

// ProcessingQueue runs the ingestion pipeline off the upload path.
// Documents are enqueued by ID and processed by a single worker goroutine:
// extract text, chunk, embed, upsert vectors, then record the terminal
// status. Every status transition is one store write, so readers observing
// a document mid-pipeline always see a consistent state.
type ProcessingQueue struct {
	docStore    driven.DocumentStore
	fileStore   driven.FileStore
	normalisers driven.NormaliserRegistry
	pipeline    driven.PostProcessorPipeline
	embedder    driven.EmbeddingService
	index       driven.VectorIndex

	queue chan string

	mu       sync.Mutex
	inflight map[string]chan struct{}
	running  bool
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// NewProcessingQueue creates a processing queue.
// The embedder and index may be nil; documents then fail processing with a
// clear error instead of silently skipping vectorisation.
func NewProcessingQueue(
	docStore driven.DocumentStore,
	fileStore driven.FileStore,
	normalisers driven.NormaliserRegistry,
	pipeline driven.PostProcessorPipeline,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
) *ProcessingQueue {
	return &ProcessingQueue{
		docStore:    docStore,
		fileStore:   fileStore,
		normalisers: normalisers,
		pipeline:    pipeline,
		embedder:    embedder,
		index:       index,
		queue:       make(chan string, queueCapacity),
		inflight:    make(map[string]chan struct{}),
	}
}

// Start launches the worker goroutine. Idempotent.
func (q *ProcessingQueue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.running = true
	q.stopCh = make(chan struct{})

	q.wg.Add(1)
	go q.run(ctx)
}

// Stop shuts the worker down after the in-progress document finishes.
func (q *ProcessingQueue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	close(q.stopCh)
	q.mu.Unlock()

	q.wg.Wait()
}

// Enqueue schedules a document for processing.
// A document already queued or processing is not enqueued twice.
func (q *ProcessingQueue) Enqueue(docID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inflight[docID]; ok {
		return nil
	}

	done := make(chan struct{})
	select {
	case q.queue <- docID:
		q.inflight[docID] = done
		return nil
	default:
		return fmt.Errorf("%w: processing queue is full", domain.ErrInvalidInput)
	}
}

// Wait blocks until the document reaches a terminal status or ctx expires.
// Waiting on a document that is not in flight returns immediately.
func (q *ProcessingQueue) Wait(ctx context.Context, docID string) error {
	q.mu.Lock()
	done, ok := q.inflight[docID]
	q.mu.Unlock()

	if !ok {
		return nil
	}

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// run is the worker loop.
func (q *ProcessingQueue) run(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case <-q.stopCh:
			return
		case <-ctx.Done():
			return
		case docID := <-q.queue:
			q.process(ctx, docID)

			q.mu.Lock()
			if done, ok := q.inflight[docID]; ok {
				close(done)
				delete(q.inflight, docID)
			}
			q.mu.Unlock()
		}
	}
}

// process runs one document through the full pipeline.
func (q *ProcessingQueue) process(ctx context.Context, docID string) {
	doc, err := q.docStore.GetDocument(ctx, docID)
	if err != nil {
		logger.Warn("Processing skipped, document %s not found: %v", docID, err)
		return
	}

	logger.Section("Document Processing")
	logger.Info("Processing %s (%s)", doc.OriginalFilename, doc.ID)

	now := time.Now()
	doc.Status = domain.StatusProcessing
	doc.ProcessingStartedAt = &now
	if err := q.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to mark document %s processing: %v", doc.ID, err)
		return
	}

	if err := q.runPipeline(ctx, doc); err != nil {
		q.fail(ctx, doc, err)
		return
	}

	completed := time.Now()
	doc.Status = domain.StatusCompleted
	doc.ErrorMessage = ""
	doc.ProcessingCompletedAt = &completed
	if err := q.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to mark document %s completed: %v", doc.ID, err)
		return
	}

	logger.Info("Completed %s: %d chunks, %d vectors", doc.OriginalFilename, doc.ChunksCount, len(doc.VectorIDs))
}

// runPipeline mutates doc in place with extraction and vectorisation results.
func (q *ProcessingQueue) runPipeline(ctx context.Context, doc *domain.Document) error {
	content, err := q.fileStore.Read(ctx, doc.FilePath)
	if err != nil {
		return fmt.Errorf("reading stored file: %w", err)
	}

	text, err := q.normalisers.Normalise(ctx, &domain.RawDocument{
		URI:      doc.OriginalFilename,
		MIMEType: doc.ContentType,
		Content:  content,
	})
	if err != nil {
		return fmt.Errorf("extracting text: %w", err)
	}
	doc.Content = text
	logger.Debug("Extracted %d characters from %s", len(text), doc.OriginalFilename)

	chunks, err := q.pipeline.Process(ctx, doc)
	if err != nil {
		return fmt.Errorf("chunking: %w", err)
	}
	logger.Debug("Chunked into %d pieces", len(chunks))

	if len(chunks) == 0 {
		doc.ChunksCount = 0
		doc.VectorIDs = nil
		return nil
	}

	if q.embedder == nil || q.index == nil {
		return domain.ErrEmbeddingUnavailable
	}

	texts := make([]string, len(chunks))
	for i, chunk := range chunks {
		texts[i] = chunk.Text
	}

	vectors, err := q.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embedding chunks: %w", err)
	}

	timestamp := time.Now()
	points := make([]driven.VectorPoint, len(chunks))
	vectorIDs := make([]string, len(chunks))
	for i, chunk := range chunks {
		id := uuid.New().String()
		vectorIDs[i] = id
		points[i] = driven.VectorPoint{
			ID:     id,
			Vector: vectors[i],
			Payload: driven.VectorPayload{
				DocumentID:     doc.ID,
				ChunkIndex:     chunk.Index,
				Text:           chunk.Text,
				Timestamp:      timestamp,
				EmbeddingModel: q.embedder.ModelName(),
			},
		}
	}

	if err := q.index.Upsert(ctx, points); err != nil {
		return fmt.Errorf("storing vectors: %w", err)
	}

	doc.ChunksCount = len(chunks)
	doc.VectorIDs = vectorIDs
	doc.EmbeddingModel = q.embedder.ModelName()
	return nil
}

// fail records a terminal failure on the document.
func (q *ProcessingQueue) fail(ctx context.Context, doc *domain.Document, cause error) {
	logger.Warn("Processing failed for %s: %v", doc.OriginalFilename, cause)

	completed := time.Now()
	doc.Status = domain.StatusFailed
	doc.ErrorMessage = cause.Error()
	doc.ProcessingCompletedAt = &completed
	if err := q.docStore.SaveDocument(ctx, doc); err != nil {
		logger.Warn("Failed to record failure for document %s: %v", doc.ID, err)
	}
}
