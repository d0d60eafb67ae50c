package markdown

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	mimeTypes := normaliser.SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "text/markdown")
}

func TestSupportedExtensions(t *testing.T) {
	normaliser := New()
	extensions := normaliser.SupportedExtensions()

	assert.Contains(t, extensions, ".md")
	assert.Contains(t, extensions, ".markdown")
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 50, normaliser.Priority())
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.Normaliser = (*Normaliser)(nil)
}

func TestNormalise_NilDocument(t *testing.T) {
	normaliser := New()

	result, err := normaliser.Normalise(context.Background(), nil)
	assert.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Empty(t, result)
}

func TestStripMarkdown(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "headings removed",
			content:  "# Title\n\n## Section\n\nBody text.",
			expected: "Title\nSection\nBody text.",
		},
		{
			name:     "links keep their text",
			content:  "See [the docs](https://example.com) for details.",
			expected: "See the docs for details.",
		},
		{
			name:     "images removed entirely",
			content:  "Before ![alt text](img.png) after",
			expected: "Before after",
		},
		{
			name:     "code blocks removed",
			content:  "Intro\n\n```go\nfunc main() {}\n```\n\nOutro",
			expected: "Intro\nOutro",
		},
		{
			name:     "inline code removed",
			content:  "Run `go build` first.",
			expected: "Run first.",
		},
		{
			name:     "bold and italic markers removed",
			content:  "This is **bold** and *italic* and __underlined__.",
			expected: "This is bold and italic and underlined.",
		},
		{
			name:     "list markers removed",
			content:  "- first\n- second\n1. third",
			expected: "first\nsecond\nthird",
		},
		{
			name:     "blockquotes unwrapped",
			content:  "> quoted line\nnormal line",
			expected: "quoted line\nnormal line",
		},
		{
			name:     "horizontal rules removed",
			content:  "above\n\n---\n\nbelow",
			expected: "above\nbelow",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, stripMarkdown(tc.content))
		})
	}
}

func TestNormalise(t *testing.T) {
	normaliser := New()
	raw := &domain.RawDocument{
		URI:      "/readme.md",
		MIMEType: "text/markdown",
		Content:  []byte("# Project\n\nA [tool](https://example.com) for searching."),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "Project\nA tool for searching.", result)
}
