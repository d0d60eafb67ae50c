// Package normalisers contains text extraction implementations.
//
// Each subpackage handles one document format (pdf, docx, html,
// markdown, plaintext) behind the driven.Normaliser interface. The
// Registry in this package selects the best normaliser for a raw
// document by MIME type, falling back to the file extension.
package normalisers
