package qdrant

import (
	"context"
	"testing"
	"time"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// fakeCollectionsClient overrides only the calls EnsureCollection makes.
type fakeCollectionsClient struct {
	qdrantclient.CollectionsClient
	listResp  *qdrantclient.ListCollectionsResponse
	createErr error
	created   bool
}

func (f *fakeCollectionsClient) List(_ context.Context, _ *qdrantclient.ListCollectionsRequest, _ ...grpc.CallOption) (*qdrantclient.ListCollectionsResponse, error) {
	return f.listResp, nil
}

func (f *fakeCollectionsClient) Create(_ context.Context, _ *qdrantclient.CreateCollection, _ ...grpc.CallOption) (*qdrantclient.CollectionOperationResponse, error) {
	f.created = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &qdrantclient.CollectionOperationResponse{}, nil
}

func TestNew_RequiresDimensions(t *testing.T) {
	index, err := New(Config{})
	assert.Error(t, err)
	assert.Nil(t, index)
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.VectorIndex = (*Index)(nil)
}

func TestEnsureCollection_AlreadyListed(t *testing.T) {
	fake := &fakeCollectionsClient{
		listResp: &qdrantclient.ListCollectionsResponse{
			Collections: []*qdrantclient.CollectionDescription{{Name: "documents"}},
		},
	}
	index := &Index{collections: fake, collection: "documents", dimensions: 384}

	require.NoError(t, index.EnsureCollection(context.Background()))
	assert.False(t, fake.created)
}

func TestEnsureCollection_CreatedConcurrently(t *testing.T) {
	fake := &fakeCollectionsClient{
		listResp:  &qdrantclient.ListCollectionsResponse{},
		createErr: status.Error(codes.AlreadyExists, "collection already exists"),
	}
	index := &Index{collections: fake, collection: "documents", dimensions: 384}

	// Another writer creating the collection between List and Create is
	// still a successful EnsureCollection.
	require.NoError(t, index.EnsureCollection(context.Background()))
	assert.True(t, fake.created)
}

func TestEnsureCollection_CreateFails(t *testing.T) {
	fake := &fakeCollectionsClient{
		listResp:  &qdrantclient.ListCollectionsResponse{},
		createErr: status.Error(codes.Internal, "disk full"),
	}
	index := &Index{collections: fake, collection: "documents", dimensions: 384}

	err := index.EnsureCollection(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrVectorIndex)
}

func TestToPointStruct(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	point := driven.VectorPoint{
		ID:     "11111111-2222-3333-4444-555555555555",
		Vector: []float32{0.1, 0.2},
		Payload: driven.VectorPayload{
			DocumentID:     "doc-1",
			ChunkIndex:     3,
			Text:           "chunk text",
			Timestamp:      ts,
			EmbeddingModel: "all-minilm",
		},
	}

	ps := toPointStruct(point)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", ps.GetId().GetUuid())
	assert.Equal(t, []float32{0.1, 0.2}, ps.GetVectors().GetVector().GetData())
	assert.Equal(t, "doc-1", ps.Payload["document_id"].GetStringValue())
	assert.Equal(t, int64(3), ps.Payload["chunk_index"].GetIntegerValue())
	assert.Equal(t, "chunk text", ps.Payload["text"].GetStringValue())
	assert.Equal(t, "2026-03-01T12:00:00Z", ps.Payload["timestamp"].GetStringValue())
	assert.Equal(t, "all-minilm", ps.Payload["embedding_model"].GetStringValue())
}

func TestFromPayload_RoundTrip(t *testing.T) {
	ts := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	original := driven.VectorPoint{
		ID:     "point-id",
		Vector: []float32{0.5},
		Payload: driven.VectorPayload{
			DocumentID:     "doc-2",
			ChunkIndex:     7,
			Text:           "some text",
			Timestamp:      ts,
			EmbeddingModel: "all-minilm",
		},
	}

	restored := fromPayload(toPointStruct(original).Payload)
	assert.Equal(t, original.Payload, restored)
}

func TestFromPayload_MissingFields(t *testing.T) {
	payload := fromPayload(map[string]*qdrantclient.Value{})
	assert.Empty(t, payload.DocumentID)
	assert.Zero(t, payload.ChunkIndex)
	assert.True(t, payload.Timestamp.IsZero())
}

func TestDocumentIDCondition_Single(t *testing.T) {
	cond := documentIDCondition([]string{"doc-1"})

	field := cond.GetField()
	require.NotNil(t, field)
	assert.Equal(t, "document_id", field.GetKey())
	assert.Equal(t, "doc-1", field.GetMatch().GetKeyword())
}

func TestDocumentIDCondition_Multiple(t *testing.T) {
	cond := documentIDCondition([]string{"doc-1", "doc-2"})

	field := cond.GetField()
	require.NotNil(t, field)
	assert.Equal(t, []string{"doc-1", "doc-2"}, field.GetMatch().GetKeywords().GetStrings())
}

func TestPointIDString(t *testing.T) {
	assert.Empty(t, pointIDString(nil))

	uuidID := &qdrantclient.PointId{PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: "abc"}}
	assert.Equal(t, "abc", pointIDString(uuidID))

	numID := &qdrantclient.PointId{PointIdOptions: &qdrantclient.PointId_Num{Num: 42}}
	assert.Equal(t, "42", pointIDString(numID))
}
