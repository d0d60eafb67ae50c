// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports).
//
// Driven ports are consumed by core services and implemented by
// adapters: storage (SQLite, memory, disk files), the qdrant vector
// index, the Ollama embedding service, and the LLM provider clients.
package driven
