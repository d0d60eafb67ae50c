package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// minScoreThreshold is the floor applied to caller-supplied thresholds so
// near-zero matches never surface.
const minScoreThreshold float32 = 0.1

// displayTextLimit caps result text length for display.
const displayTextLimit = 500

var (
	urlPattern  = regexp.MustCompile(`https?://\S+`)
	hexPattern  = regexp.MustCompile(`[a-f0-9]{32,}`)
	wordPattern = regexp.MustCompile(`\b\w+`)
)

// SearchService retrieves relevant document chunks for a query.
// Semantic search filters raw vector hits through a relevance gate and
// deduplicates per document; keyword search is the fallback when the
// vector stack is down.
type SearchService struct {
	docStore  driven.DocumentStore
	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	retrieval domain.RetrievalSettings
}

// NewSearchService creates a new search service.
// The index and embedder are optional (can be nil); semantic search then
// reports the embedding service unavailable.
func NewSearchService(
	docStore driven.DocumentStore,
	index driven.VectorIndex,
	embedder driven.EmbeddingService,
	retrieval domain.RetrievalSettings,
) *SearchService {
	return &SearchService{
		docStore:  docStore,
		index:     index,
		embedder:  embedder,
		retrieval: retrieval,
	}
}

// Search performs semantic search with filtering and ranking.
func (s *SearchService) Search(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := time.Now()

	logger.Section("Semantic Search")
	logger.Debug("Query: %q (top_k=%d)", req.Query, req.TopK)

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}
	if s.index == nil || s.embedder == nil {
		return nil, domain.ErrEmbeddingUnavailable
	}

	topK := req.TopK
	if topK <= 0 {
		topK = domain.DefaultMaxContextChunks
	}

	documentIDs, err := s.scopeDocumentIDs(ctx, req)
	if err != nil {
		return nil, err
	}

	vector, err := s.embedder.Embed(ctx, req.Query)
	if err != nil {
		return nil, fmt.Errorf("embedding query: %w", err)
	}

	threshold := req.ScoreThreshold
	if threshold < minScoreThreshold {
		threshold = minScoreThreshold
	}

	// Overfetch so the relevance gate and per-document dedupe still
	// leave enough survivors.
	hits, err := s.index.Search(ctx, vector, driven.VectorQuery{
		Limit:          topK * 2,
		DocumentIDs:    documentIDs,
		ScoreThreshold: threshold,
	})
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	logger.Debug("Raw hits: %d", len(hits))

	results := s.filterHits(ctx, hits, req.Query, topK)

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	logger.Info("Search completed: %d unique results in %.2fms", len(results), elapsed)

	return &domain.SearchResponse{
		Results:      results,
		Query:        req.Query,
		TotalResults: len(results),
		SearchTimeMS: elapsed,
	}, nil
}

// filterHits applies per-document dedupe, the relevance gate and display
// cleanup, stopping once topK survivors are collected.
func (s *SearchService) filterHits(ctx context.Context, hits []driven.VectorHit, query string, topK int) []domain.SearchResult {
	results := make([]domain.SearchResult, 0, topK)
	seenDocuments := make(map[string]bool)

	for _, hit := range hits {
		docID := hit.Payload.DocumentID

		// One result per document.
		if seenDocuments[docID] {
			continue
		}

		doc, err := s.docStore.GetDocument(ctx, docID)
		if err != nil {
			logger.Debug("Dropping hit for missing document %s", docID)
			continue
		}

		if !s.isRelevantContent(hit.Payload.Text, query) {
			continue
		}

		seenDocuments[docID] = true

		results = append(results, domain.SearchResult{
			ID:               hit.PointID,
			Score:            hit.Score,
			DocumentID:       docID,
			Text:             cleanDisplayText(hit.Payload.Text),
			ChunkIndex:       hit.Payload.ChunkIndex,
			Timestamp:        hit.Payload.Timestamp.Format(time.RFC3339),
			EmbeddingModel:   hit.Payload.EmbeddingModel,
			DocumentFilename: doc.OriginalFilename,
			DocumentType:     doc.ContentType,
		})

		if len(results) >= topK {
			break
		}
	}

	return results
}

// isRelevantContent drops low-quality fragments: too-short text, URL
// dumps, hash/ID noise, and (for short queries) text with no literal
// query term at all.
func (s *SearchService) isRelevantContent(text, query string) bool {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < s.retrieval.MinTextLength {
		return false
	}

	urls := urlPattern.FindAllString(text, -1)
	urlLength := 0
	for _, u := range urls {
		urlLength += len(u)
	}
	if float64(urlLength) > float64(len(text))*s.retrieval.URLRatio {
		return false
	}

	if len(hexPattern.FindAllString(text, -1)) > s.retrieval.MaxHexTokens {
		return false
	}

	// Short queries must anchor literally somewhere in the text.
	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) <= 2 {
		textLower := strings.ToLower(text)
		for _, word := range queryWords {
			if len(word) > 2 && strings.Contains(textLower, word) {
				return true
			}
		}
		return false
	}

	return true
}

// KeywordSearch matches query terms against stored document content.
// Fallback for when the vector stack is unavailable.
func (s *SearchService) KeywordSearch(ctx context.Context, req domain.SearchRequest) (*domain.SearchResponse, error) {
	start := time.Now()

	if strings.TrimSpace(req.Query) == "" {
		return nil, fmt.Errorf("%w: empty query", domain.ErrInvalidInput)
	}

	topK := req.TopK
	if topK <= 0 {
		topK = domain.DefaultMaxContextChunks
	}

	docs, _, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{
		CollectionID: req.CollectionID,
		Status:       domain.StatusCompleted,
		Limit:        topK * 2,
	})
	if err != nil {
		return nil, err
	}

	queryTerms := strings.Fields(strings.ToLower(req.Query))
	requested := make(map[string]bool, len(req.DocumentIDs))
	for _, id := range req.DocumentIDs {
		requested[id] = true
	}

	var results []domain.SearchResult
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}
		if len(requested) > 0 && !requested[doc.ID] {
			continue
		}

		content := strings.ToLower(doc.Content)
		matches := 0
		for _, term := range queryTerms {
			if len(term) > 2 && strings.Contains(content, term) {
				matches++
			}
		}
		if matches == 0 {
			continue
		}

		results = append(results, domain.SearchResult{
			ID:               "keyword_" + doc.ID,
			Score:            float32(matches) / float32(len(queryTerms)),
			DocumentID:       doc.ID,
			Text:             findBestExcerpt(doc.Content, req.Query, 300),
			ChunkIndex:       0,
			Timestamp:        doc.CreatedAt.Format(time.RFC3339),
			EmbeddingModel:   "keyword_search",
			DocumentFilename: doc.OriginalFilename,
			DocumentType:     doc.ContentType,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > topK {
		results = results[:topK]
	}

	elapsed := float64(time.Since(start).Microseconds()) / 1000.0
	return &domain.SearchResponse{
		Results:      results,
		Query:        req.Query,
		TotalResults: len(results),
		SearchTimeMS: elapsed,
	}, nil
}

// Suggest returns completion suggestions for a partial query, harvested
// from completed document content.
func (s *SearchService) Suggest(ctx context.Context, partial string, limit int) ([]string, error) {
	partial = strings.ToLower(strings.TrimSpace(partial))
	if partial == "" {
		return nil, nil
	}
	if limit <= 0 {
		limit = 5
	}

	docs, _, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{
		Status: domain.StatusCompleted,
		Limit:  20,
	})
	if err != nil {
		return nil, err
	}

	suggestions := make(map[string]bool)
	for _, doc := range docs {
		if doc.Content == "" {
			continue
		}
		for _, word := range wordPattern.FindAllString(strings.ToLower(doc.Content), -1) {
			if strings.HasPrefix(word, partial) && len(word) > len(partial) && len(word) <= 20 {
				suggestions[word] = true
			}
		}
		if len(suggestions) >= limit*2 {
			break
		}
	}

	sorted := make([]string, 0, len(suggestions))
	for word := range suggestions {
		sorted = append(sorted, word)
	}
	sort.Strings(sorted)

	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// scopeDocumentIDs resolves the effective document filter: explicit IDs
// win; a collection scope expands to its member document IDs.
func (s *SearchService) scopeDocumentIDs(ctx context.Context, req domain.SearchRequest) ([]string, error) {
	if len(req.DocumentIDs) > 0 {
		return req.DocumentIDs, nil
	}
	if req.CollectionID == "" {
		return nil, nil
	}

	docs, _, err := s.docStore.ListDocuments(ctx, driven.DocumentFilter{
		CollectionID: req.CollectionID,
	})
	if err != nil {
		return nil, err
	}

	ids := make([]string, len(docs))
	for i, doc := range docs {
		ids[i] = doc.ID
	}

	// An empty collection can match nothing; a nil filter would match
	// everything.
	if len(ids) == 0 {
		ids = []string{"none"}
	}
	return ids, nil
}

// cleanDisplayText collapses whitespace and truncates long fragments,
// preferring a sentence boundary past 400 characters.
func cleanDisplayText(text string) string {
	text = strings.Join(strings.Fields(text), " ")

	if len(text) > displayTextLimit {
		cutoff := strings.Index(text[400:], ". ")
		if cutoff >= 0 {
			text = text[:400+cutoff+1] + "..."
		} else {
			text = text[:displayTextLimit] + "..."
		}
	}

	return text
}

// findBestExcerpt slides a window over content and keeps the span with
// the most query-term matches.
func findBestExcerpt(content, query string, excerptLength int) string {
	if content == "" {
		return ""
	}
	if len(content) <= excerptLength {
		return strings.TrimSpace(content)
	}

	var queryWords []string
	for _, word := range strings.Fields(strings.ToLower(query)) {
		if len(word) > 2 {
			queryWords = append(queryWords, word)
		}
	}

	contentLower := strings.ToLower(content)
	bestStart := 0
	bestScore := 0

	for start := 0; start < len(content)-excerptLength; start += 50 {
		window := contentLower[start : start+excerptLength]
		score := 0
		for _, word := range queryWords {
			if strings.Contains(window, word) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			bestStart = start
		}
	}

	excerpt := content[bestStart : bestStart+excerptLength]
	if bestStart > 0 {
		excerpt = "..." + excerpt
	}
	if bestStart+excerptLength < len(content) {
		excerpt += "..."
	}
	return strings.TrimSpace(excerpt)
}
