// Package sqlite provides SQLite-backed implementations of the
// metadata store ports. A single Store owns the database connection
// and hands out typed wrappers for documents and collections.
package sqlite
