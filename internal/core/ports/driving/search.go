package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SearchService retrieves relevant document chunks for a query.
type SearchService interface {
	// Search performs semantic search with filtering and ranking.
	Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)

	// KeywordSearch matches query terms against stored document content.
	// Fallback for when the vector stack is unavailable.
	KeywordSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error)

	// Suggest returns completion suggestions for a partial query.
	Suggest(ctx context.Context, partial string, limit int) ([]string, error)
}
