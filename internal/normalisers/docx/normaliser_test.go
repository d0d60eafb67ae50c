package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// buildDocx assembles a minimal .docx archive around the given
// word/document.xml payload.
func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	f, err := w.Create("word/document.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte(documentXML))
	require.NoError(t, err)

	require.NoError(t, w.Close())
	return buf.Bytes()
}

const sampleDocumentXML = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Second </w:t></w:r><w:r><w:t>paragraph.</w:t></w:r></w:p>
    <w:p></w:p>
  </w:body>
</w:document>`

func TestNew(t *testing.T) {
	normaliser := New()
	require.NotNil(t, normaliser)
	assert.IsType(t, &Normaliser{}, normaliser)
}

func TestSupportedMIMETypes(t *testing.T) {
	normaliser := New()
	mimeTypes := normaliser.SupportedMIMETypes()

	require.NotEmpty(t, mimeTypes)
	assert.Contains(t, mimeTypes, "application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}

func TestSupportedExtensions(t *testing.T) {
	normaliser := New()
	assert.Contains(t, normaliser.SupportedExtensions(), ".docx")
}

func TestPriority(t *testing.T) {
	normaliser := New()
	assert.Equal(t, 100, normaliser.Priority())
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

func TestNormalise(t *testing.T) {
	normaliser := New()
	raw := &domain.RawDocument{
		URI:      "/report.docx",
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  buildDocx(t, sampleDocumentXML),
	}

	result, err := normaliser.Normalise(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "First paragraph.\nSecond paragraph.", result)
}

func TestNormalise_NotAZip(t *testing.T) {
	normaliser := New()
	raw := &domain.RawDocument{
		URI:      "/report.docx",
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  []byte("this is not a zip archive"),
	}

	_, err := normaliser.Normalise(context.Background(), raw)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "docx archive")
}

func TestNormalise_MissingDocumentXML(t *testing.T) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)
	f, err := w.Create("word/other.xml")
	require.NoError(t, err)
	_, err = f.Write([]byte("<xml/>"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	normaliser := New()
	raw := &domain.RawDocument{
		URI:      "/report.docx",
		MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
		Content:  buf.Bytes(),
	}

	_, err = normaliser.Normalise(context.Background(), raw)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "word/document.xml")
}
