package services

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/files"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/normalisers"
	"github.com/custodia-labs/docchat/internal/postprocessors"
	"github.com/custodia-labs/docchat/internal/postprocessors/chunker"
)

// testStack wires a full in-memory ingestion stack around mock AI services.
type testStack struct {
	docs        *DocumentService
	collections *CollectionService
	queue       *ProcessingQueue
	docStore    *memory.DocumentStore
	index       *mockVectorIndex
	embedder    *mockEmbeddingService
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	colStore := memory.NewCollectionStore()
	docStore := memory.NewDocumentStore(colStore)

	fileStore, err := files.NewStore(t.TempDir())
	require.NoError(t, err)

	proc, err := chunker.New()
	require.NoError(t, err)

	index := &mockVectorIndex{}
	embedder := &mockEmbeddingService{}

	queue := NewProcessingQueue(
		docStore,
		fileStore,
		normalisers.NewDefaultRegistry(),
		postprocessors.NewPipeline(proc),
		embedder,
		index,
	)
	queue.Start(context.Background())
	t.Cleanup(queue.Stop)

	collections := NewCollectionService(colStore)
	docs := NewDocumentService(docStore, fileStore, index, collections, queue)

	return &testStack{
		docs:        docs,
		collections: collections,
		queue:       queue,
		docStore:    docStore,
		index:       index,
		embedder:    embedder,
	}
}

func textUpload(filename, content string) driving.DocumentUpload {
	return driving.DocumentUpload{
		Filename:    filename,
		ContentType: "text/plain",
		Content:     []byte(content),
	}
}

func TestDocumentService_UploadAndWait_Completes(t *testing.T) {
	stack := newTestStack(t)

	doc, err := stack.docs.UploadAndWait(context.Background(), textUpload("notes.txt", "Hello document world."))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, doc.Status)
	assert.Equal(t, "Hello document world.", doc.Content)
	assert.Equal(t, 1, doc.ChunksCount)
	assert.Len(t, doc.VectorIDs, 1)
	assert.Equal(t, "mock-embed", doc.EmbeddingModel)
	assert.NotNil(t, doc.ProcessingStartedAt)
	assert.NotNil(t, doc.ProcessingCompletedAt)

	// Vectors landed in the index with the document's ID in the payload.
	require.Len(t, stack.index.points, 1)
	assert.Equal(t, doc.ID, stack.index.points[0].Payload.DocumentID)
}

func TestDocumentService_Upload_Pending(t *testing.T) {
	stack := newTestStack(t)

	doc, err := stack.docs.Upload(context.Background(), textUpload("notes.txt", "content"))

	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, doc.Status)
	assert.NotEmpty(t, doc.FilePath)
	assert.Equal(t, int64(7), doc.FileSize)
}

func TestDocumentService_Upload_DefaultCollection(t *testing.T) {
	stack := newTestStack(t)

	doc, err := stack.docs.UploadAndWait(context.Background(), textUpload("notes.txt", "content"))
	require.NoError(t, err)

	col, err := stack.collections.Get(context.Background(), doc.CollectionID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultCollectionName, col.Name)
	assert.Equal(t, 1, col.DocumentsCount)
}

func TestDocumentService_Upload_ExplicitCollection(t *testing.T) {
	stack := newTestStack(t)

	col, err := stack.collections.Create(context.Background(), "Research", "")
	require.NoError(t, err)

	upload := textUpload("notes.txt", "content")
	upload.CollectionID = col.ID

	doc, err := stack.docs.UploadAndWait(context.Background(), upload)
	require.NoError(t, err)
	assert.Equal(t, col.ID, doc.CollectionID)
}

func TestDocumentService_Upload_UnknownCollection(t *testing.T) {
	stack := newTestStack(t)

	upload := textUpload("notes.txt", "content")
	upload.CollectionID = "missing"

	_, err := stack.docs.Upload(context.Background(), upload)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Upload_Validation(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	_, err := stack.docs.Upload(ctx, textUpload("", "content"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = stack.docs.Upload(ctx, textUpload("notes.txt", ""))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	huge := driving.DocumentUpload{
		Filename:    "big.txt",
		ContentType: "text/plain",
		Content:     make([]byte, MaxFileSizeBytes+1),
	}
	_, err = stack.docs.Upload(ctx, huge)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "too large")
}

func TestDocumentService_Upload_UnsupportedFormat(t *testing.T) {
	stack := newTestStack(t)

	upload := driving.DocumentUpload{
		Filename:    "image.png",
		ContentType: "image/png",
		Content:     []byte{0x89, 0x50, 0x4e, 0x47},
	}

	doc, err := stack.docs.UploadAndWait(context.Background(), upload)

	// Upload succeeds; processing records the failure on the document.
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, doc.Status)
	assert.Contains(t, doc.ErrorMessage, "unsupported file format")
}

func TestDocumentService_List_Pagination(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		_, err := stack.docs.UploadAndWait(ctx, textUpload(name, "content of "+name))
		require.NoError(t, err)
	}

	page, err := stack.docs.List(ctx, driving.ListOptions{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Documents, 2)
	assert.Equal(t, 3, page.Total)

	rest, err := stack.docs.List(ctx, driving.ListOptions{Offset: 2, Limit: 2})
	require.NoError(t, err)
	assert.Len(t, rest.Documents, 1)
	assert.Equal(t, 3, rest.Total)
}

func TestDocumentService_Delete_Cascades(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	doc, err := stack.docs.UploadAndWait(ctx, textUpload("notes.txt", "Hello world content."))
	require.NoError(t, err)

	require.NoError(t, stack.docs.Delete(ctx, doc.ID))

	// Vector points are removed first, then metadata.
	assert.Equal(t, doc.ID, stack.index.deletedDoc)
	_, err = stack.docs.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDocumentService_Delete_NotFound(t *testing.T) {
	stack := newTestStack(t)

	err := stack.docs.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSanitiseFilename(t *testing.T) {
	assert.Equal(t, "report_2024.txt", sanitiseFilename("report 2024.txt"))
	assert.Equal(t, "a_b_c.md", sanitiseFilename("a/b/c.md"))
	assert.Equal(t, "plain-name_ok.txt", sanitiseFilename("plain-name_ok.txt"))

	long := strings.Repeat("x", 300) + ".txt"
	assert.Len(t, sanitiseFilename(long), 255)
}
