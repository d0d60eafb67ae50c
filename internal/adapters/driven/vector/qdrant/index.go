// Package qdrant provides a vector index adapter backed by a Qdrant
// server over gRPC.
package qdrant

import (
	"context"
	"fmt"
	"time"

	qdrantclient "github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Default configuration values.
const (
	DefaultAddr       = "localhost:6334"
	DefaultCollection = "documents"

	// upsertBatchSize bounds a single upsert request so large documents
	// do not produce oversized gRPC messages.
	upsertBatchSize = 10
)

// Config holds configuration for the Qdrant index.
type Config struct {
	// Addr is the Qdrant gRPC address (default: localhost:6334).
	Addr string

	// Collection is the collection name (default: documents).
	Collection string

	// Dimensions is the vector size of the collection (required).
	Dimensions int
}

// Index stores and searches embeddings in a Qdrant collection.
type Index struct {
	conn        *grpc.ClientConn
	collections qdrantclient.CollectionsClient
	points      qdrantclient.PointsClient
	collection  string
	dimensions  int
}

// New connects to Qdrant and returns an index for the configured collection.
func New(cfg Config) (*Index, error) {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Collection == "" {
		cfg.Collection = DefaultCollection
	}
	if cfg.Dimensions <= 0 {
		return nil, fmt.Errorf("qdrant: dimensions must be positive, got %d", cfg.Dimensions)
	}

	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to qdrant at %s: %v", domain.ErrVectorIndex, cfg.Addr, err)
	}

	return &Index{
		conn:        conn,
		collections: qdrantclient.NewCollectionsClient(conn),
		points:      qdrantclient.NewPointsClient(conn),
		collection:  cfg.Collection,
		dimensions:  cfg.Dimensions,
	}, nil
}

// EnsureCollection creates the collection with cosine distance if it
// does not exist. Idempotent.
func (i *Index) EnsureCollection(ctx context.Context) error {
	collections, err := i.collections.List(ctx, &qdrantclient.ListCollectionsRequest{})
	if err != nil {
		return fmt.Errorf("%w: list collections: %v", domain.ErrVectorIndex, err)
	}

	for _, col := range collections.GetCollections() {
		if col.GetName() == i.collection {
			logger.Debug("qdrant collection %q already exists", i.collection)
			return nil
		}
	}

	logger.Info("creating qdrant collection %q (dims=%d)", i.collection, i.dimensions)
	_, err = i.collections.Create(ctx, &qdrantclient.CreateCollection{
		CollectionName: i.collection,
		VectorsConfig: &qdrantclient.VectorsConfig{
			Config: &qdrantclient.VectorsConfig_Params{
				Params: &qdrantclient.VectorParams{
					Size:     uint64(i.dimensions),
					Distance: qdrantclient.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		// A concurrent caller may have created it between List and Create.
		if status.Code(err) == codes.AlreadyExists {
			logger.Debug("qdrant collection %q created concurrently", i.collection)
			return nil
		}
		return fmt.Errorf("%w: create collection %s: %v", domain.ErrVectorIndex, i.collection, err)
	}

	return nil
}

// Upsert writes points in batches, waiting for each batch to be applied.
func (i *Index) Upsert(ctx context.Context, points []driven.VectorPoint) error {
	for start := 0; start < len(points); start += upsertBatchSize {
		end := start + upsertBatchSize
		if end > len(points) {
			end = len(points)
		}

		batch := make([]*qdrantclient.PointStruct, 0, end-start)
		for _, p := range points[start:end] {
			if len(p.Vector) != i.dimensions {
				return fmt.Errorf("%w: point %s has %d dimensions, collection expects %d",
					domain.ErrVectorIndex, p.ID, len(p.Vector), i.dimensions)
			}
			batch = append(batch, toPointStruct(p))
		}

		wait := true
		_, err := i.points.Upsert(ctx, &qdrantclient.UpsertPoints{
			CollectionName: i.collection,
			Points:         batch,
			Wait:           &wait,
		})
		if err != nil {
			return fmt.Errorf("%w: upsert points: %v", domain.ErrVectorIndex, err)
		}
		logger.Debug("upserted batch of %d points into %q", len(batch), i.collection)
	}

	return nil
}

// Search finds the nearest neighbours to the query vector.
func (i *Index) Search(ctx context.Context, vector []float32, query driven.VectorQuery) ([]driven.VectorHit, error) {
	req := &qdrantclient.SearchPoints{
		CollectionName: i.collection,
		Vector:         vector,
		Limit:          uint64(query.Limit),
		WithPayload: &qdrantclient.WithPayloadSelector{
			SelectorOptions: &qdrantclient.WithPayloadSelector_Enable{Enable: true},
		},
	}

	if query.ScoreThreshold > 0 {
		threshold := query.ScoreThreshold
		req.ScoreThreshold = &threshold
	}

	if len(query.DocumentIDs) > 0 {
		req.Filter = &qdrantclient.Filter{
			Must: []*qdrantclient.Condition{documentIDCondition(query.DocumentIDs)},
		}
	}

	resp, err := i.points.Search(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: search: %v", domain.ErrVectorIndex, err)
	}

	hits := make([]driven.VectorHit, 0, len(resp.GetResult()))
	for _, point := range resp.GetResult() {
		hits = append(hits, driven.VectorHit{
			PointID: pointIDString(point.GetId()),
			Score:   point.GetScore(),
			Payload: fromPayload(point.GetPayload()),
		})
	}

	return hits, nil
}

// DeleteByDocument removes every point belonging to the given document.
func (i *Index) DeleteByDocument(ctx context.Context, documentID string) error {
	wait := true
	_, err := i.points.Delete(ctx, &qdrantclient.DeletePoints{
		CollectionName: i.collection,
		Wait:           &wait,
		Points: &qdrantclient.PointsSelector{
			PointsSelectorOneOf: &qdrantclient.PointsSelector_Filter{
				Filter: &qdrantclient.Filter{
					Must: []*qdrantclient.Condition{documentIDCondition([]string{documentID})},
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: delete points for document %s: %v", domain.ErrVectorIndex, documentID, err)
	}

	logger.Debug("deleted vectors for document %s", documentID)
	return nil
}

// CollectionInfo reports collection statistics.
func (i *Index) CollectionInfo(ctx context.Context) (*driven.CollectionInfo, error) {
	resp, err := i.collections.Get(ctx, &qdrantclient.GetCollectionInfoRequest{
		CollectionName: i.collection,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: collection info: %v", domain.ErrVectorIndex, err)
	}

	result := resp.GetResult()
	return &driven.CollectionInfo{
		Name:        i.collection,
		PointsCount: result.GetPointsCount(),
		Status:      result.GetStatus().String(),
	}, nil
}

// Close releases the gRPC connection.
func (i *Index) Close() error {
	return i.conn.Close()
}

// toPointStruct converts a port-level point into the Qdrant wire format.
func toPointStruct(p driven.VectorPoint) *qdrantclient.PointStruct {
	return &qdrantclient.PointStruct{
		Id: &qdrantclient.PointId{
			PointIdOptions: &qdrantclient.PointId_Uuid{Uuid: p.ID},
		},
		Vectors: &qdrantclient.Vectors{
			VectorsOptions: &qdrantclient.Vectors_Vector{
				Vector: &qdrantclient.Vector{Data: p.Vector},
			},
		},
		Payload: map[string]*qdrantclient.Value{
			"document_id":     {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.DocumentID}},
			"chunk_index":     {Kind: &qdrantclient.Value_IntegerValue{IntegerValue: int64(p.Payload.ChunkIndex)}},
			"text":            {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.Text}},
			"timestamp":       {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.Timestamp.UTC().Format(time.RFC3339)}},
			"embedding_model": {Kind: &qdrantclient.Value_StringValue{StringValue: p.Payload.EmbeddingModel}},
		},
	}
}

// fromPayload converts a Qdrant payload back into port-level metadata.
func fromPayload(payload map[string]*qdrantclient.Value) driven.VectorPayload {
	p := driven.VectorPayload{}

	if v, ok := payload["document_id"]; ok {
		p.DocumentID = v.GetStringValue()
	}
	if v, ok := payload["chunk_index"]; ok {
		p.ChunkIndex = int(v.GetIntegerValue())
	}
	if v, ok := payload["text"]; ok {
		p.Text = v.GetStringValue()
	}
	if v, ok := payload["embedding_model"]; ok {
		p.EmbeddingModel = v.GetStringValue()
	}
	if v, ok := payload["timestamp"]; ok {
		if ts, err := time.Parse(time.RFC3339, v.GetStringValue()); err == nil {
			p.Timestamp = ts
		}
	}

	return p
}

// documentIDCondition matches points whose document_id payload field is
// one of the given ids.
func documentIDCondition(documentIDs []string) *qdrantclient.Condition {
	var match *qdrantclient.Match
	if len(documentIDs) == 1 {
		match = &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Keyword{Keyword: documentIDs[0]},
		}
	} else {
		match = &qdrantclient.Match{
			MatchValue: &qdrantclient.Match_Keywords{
				Keywords: &qdrantclient.RepeatedStrings{Strings: documentIDs},
			},
		}
	}

	return &qdrantclient.Condition{
		ConditionOneOf: &qdrantclient.Condition_Field{
			Field: &qdrantclient.FieldCondition{
				Key:   "document_id",
				Match: match,
			},
		},
	}
}

// pointIDString renders either id representation as a string.
func pointIDString(id *qdrantclient.PointId) string {
	if id == nil {
		return ""
	}
	if uuid := id.GetUuid(); uuid != "" {
		return uuid
	}
	return fmt.Sprintf("%d", id.GetNum())
}
