package domain

// RawDocument represents opaque uploaded bytes before text extraction.
// It is the ingestion pipeline's input to normalisation.
type RawDocument struct {
	// URI is the original location (file path or upload name).
	URI string

	// MIMEType is the declared content type (e.g. "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
