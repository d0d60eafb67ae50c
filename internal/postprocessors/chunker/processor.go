// Package chunker provides a boundary-aware text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = domain.DefaultChunkSize

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = domain.DefaultChunkOverlap

// sentenceEnders mark positions the chunker prefers to cut after.
var sentenceEnders = []string{". ", "! ", "? ", "\n"}

// Processor splits document content into overlapping chunks, cutting
// at sentence or word boundaries where possible.
// It implements the PostProcessor interface.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between chunks in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
// Returns ErrChunkingConfig when the overlap is not smaller than the
// chunk size, since that configuration can never make progress.
func New(opts ...Option) (*Processor, error) {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.overlap >= p.chunkSize {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than chunk size %d",
			domain.ErrChunkingConfig, p.overlap, p.chunkSize)
	}

	return p, nil
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document content into chunks.
// Input chunks are ignored; this processor creates new chunks from document content.
func (p *Processor) Process(_ context.Context, doc *domain.Document, _ []domain.Chunk) ([]domain.Chunk, error) {
	if doc == nil {
		return nil, domain.ErrInvalidInput
	}

	content := doc.Content
	if strings.TrimSpace(content) == "" {
		// Empty content produces no chunks
		return nil, nil
	}

	contentLen := len(content)
	if contentLen <= p.chunkSize {
		// A single chunk carries the content verbatim so the document
		// is recoverable from its chunks.
		return []domain.Chunk{{
			DocumentID: doc.ID,
			Index:      0,
			Text:       content,
		}}, nil
	}

	estimatedChunks := (contentLen / (p.chunkSize - p.overlap)) + 1
	chunks := make([]domain.Chunk, 0, estimatedChunks)

	index := 0
	start := 0

	for start < contentLen {
		end := start + p.chunkSize
		if end >= contentLen {
			end = contentLen
		} else {
			end = p.cutPoint(content, start, end)
		}

		text := strings.TrimSpace(content[start:end])
		if text != "" {
			chunks = append(chunks, domain.Chunk{
				DocumentID: doc.ID,
				Index:      index,
				Text:       text,
			})
			index++
		}

		if end >= contentLen {
			break
		}

		next := end - p.overlap
		// Always advance, even when the overlap swallows the whole cut.
		if next <= start {
			next = start + 1
		}
		start = next
	}

	return chunks, nil
}

// cutPoint finds the best boundary to end a chunk within [start, end).
// Sentence boundaries are preferred over word boundaries, and either
// is only taken past the midpoint of the window so chunks stay
// reasonably full. Falls back to a hard cut at end.
func (p *Processor) cutPoint(content string, start, end int) int {
	window := content[start:end]
	mid := len(window) / 2

	best := -1
	for _, ender := range sentenceEnders {
		if i := strings.LastIndex(window, ender); i > mid && i+len(ender) > best {
			best = i + len(ender)
		}
	}
	if best > 0 {
		return start + best
	}

	if i := strings.LastIndex(window, " "); i > mid {
		return start + i + 1
	}

	return end
}
