package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to
// all metadata store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.docchat/data/metadata.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docchat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "metadata.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// CollectionStore returns a CollectionStore interface backed by this store.
func (s *Store) CollectionStore() driven.CollectionStore {
	return &collectionStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// recountCollections recomputes every collection's document and chunk
// counts from the documents table. Runs inside the caller's transaction
// so readers never observe stale counts.
func recountCollections(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `
		UPDATE collections SET
			documents_count = (
				SELECT COUNT(*) FROM documents d WHERE d.collection_id = collections.id
			),
			chunks_count = COALESCE((
				SELECT SUM(d.chunks_count) FROM documents d WHERE d.collection_id = collections.id
			), 0)
	`)
	if err != nil {
		return fmt.Errorf("recounting collections: %w", err)
	}
	return nil
}

// ==================== Document Store ====================

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// SaveDocument stores or updates a document and keeps collection counts
// consistent in the same transaction.
func (s *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	if doc == nil || doc.ID == "" {
		return domain.ErrInvalidInput
	}

	vectorIDsJSON, err := json.Marshal(doc.VectorIDs)
	if err != nil {
		return fmt.Errorf("marshalling vector ids: %w", err)
	}

	now := time.Now().UTC()
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = now
	}
	doc.UpdatedAt = now

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (
			id, filename, original_filename, content_type, file_size, file_path,
			content, status, error_message, chunks_count, vector_ids,
			embedding_model, collection_id, processing_started_at,
			processing_completed_at, created_at, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			filename = excluded.filename,
			original_filename = excluded.original_filename,
			content_type = excluded.content_type,
			file_size = excluded.file_size,
			file_path = excluded.file_path,
			content = excluded.content,
			status = excluded.status,
			error_message = excluded.error_message,
			chunks_count = excluded.chunks_count,
			vector_ids = excluded.vector_ids,
			embedding_model = excluded.embedding_model,
			collection_id = excluded.collection_id,
			processing_started_at = excluded.processing_started_at,
			processing_completed_at = excluded.processing_completed_at,
			updated_at = excluded.updated_at
	`, doc.ID, doc.Filename, doc.OriginalFilename, doc.ContentType, doc.FileSize,
		doc.FilePath, doc.Content, string(doc.Status), doc.ErrorMessage,
		doc.ChunksCount, string(vectorIDsJSON), doc.EmbeddingModel,
		nullString(doc.CollectionID), nullTime(doc.ProcessingStartedAt),
		nullTime(doc.ProcessingCompletedAt), doc.CreatedAt, doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("saving document: %w", err)
	}

	if err := recountCollections(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// GetDocument retrieves a document by ID.
func (s *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, filename, original_filename, content_type, file_size, file_path,
			content, status, error_message, chunks_count, vector_ids,
			embedding_model, collection_id, processing_started_at,
			processing_completed_at, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)

	doc, err := scanDocument(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// ListDocuments returns matching documents plus the unpaginated total.
func (s *documentStore) ListDocuments(ctx context.Context, filter driven.DocumentFilter) ([]domain.Document, int, error) {
	var conditions []string
	var args []any

	if filter.CollectionID != "" {
		conditions = append(conditions, "collection_id = ?")
		args = append(args, filter.CollectionID)
	}
	if filter.Status != "" {
		conditions = append(conditions, "status = ?")
		args = append(args, string(filter.Status))
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	row := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents"+where, args...)
	if err := row.Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting documents: %w", err)
	}

	query := `
		SELECT id, filename, original_filename, content_type, file_size, file_path,
			content, status, error_message, chunks_count, vector_ids,
			embedding_model, collection_id, processing_started_at,
			processing_completed_at, created_at, updated_at
		FROM documents` + where + " ORDER BY created_at DESC"

	if filter.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	} else if filter.Offset > 0 {
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, *doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating documents: %w", err)
	}

	return docs, total, nil
}

// DeleteDocument removes a document and adjusts collection counts.
func (s *documentStore) DeleteDocument(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	result, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting document: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}

	if err := recountCollections(ctx, tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Collection Store ====================

// collectionStore implements driven.CollectionStore.
type collectionStore struct {
	store *Store
}

var _ driven.CollectionStore = (*collectionStore)(nil)

// SaveCollection stores or updates a collection.
func (s *collectionStore) SaveCollection(ctx context.Context, col *domain.Collection) error {
	if col == nil || col.ID == "" || col.Name == "" {
		return domain.ErrInvalidInput
	}

	now := time.Now().UTC()
	if col.CreatedAt.IsZero() {
		col.CreatedAt = now
	}
	col.UpdatedAt = now

	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO collections (id, name, description, documents_count, chunks_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			description = excluded.description,
			updated_at = excluded.updated_at
	`, col.ID, col.Name, col.Description, col.DocumentsCount, col.ChunksCount,
		col.CreatedAt, col.UpdatedAt)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: collections.name") {
			return fmt.Errorf("%w: collection %q", domain.ErrAlreadyExists, col.Name)
		}
		return fmt.Errorf("saving collection: %w", err)
	}
	return nil
}

// GetCollection retrieves a collection by ID.
func (s *collectionStore) GetCollection(ctx context.Context, id string) (*domain.Collection, error) {
	return s.getCollectionWhere(ctx, "id = ?", id)
}

// GetCollectionByName retrieves a collection by its unique name.
func (s *collectionStore) GetCollectionByName(ctx context.Context, name string) (*domain.Collection, error) {
	return s.getCollectionWhere(ctx, "name = ?", name)
}

func (s *collectionStore) getCollectionWhere(ctx context.Context, where string, arg any) (*domain.Collection, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, name, description, documents_count, chunks_count, created_at, updated_at
		FROM collections WHERE `+where, arg)

	var col domain.Collection
	if err := row.Scan(&col.ID, &col.Name, &col.Description,
		&col.DocumentsCount, &col.ChunksCount, &col.CreatedAt, &col.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning collection: %w", err)
	}
	return &col, nil
}

// ListCollections returns all collections ordered by name.
func (s *collectionStore) ListCollections(ctx context.Context) ([]domain.Collection, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, name, description, documents_count, chunks_count, created_at, updated_at
		FROM collections ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("listing collections: %w", err)
	}
	defer rows.Close()

	var collections []domain.Collection
	for rows.Next() {
		var col domain.Collection
		if err := rows.Scan(&col.ID, &col.Name, &col.Description,
			&col.DocumentsCount, &col.ChunksCount, &col.CreatedAt, &col.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning collection: %w", err)
		}
		collections = append(collections, col)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating collections: %w", err)
	}

	return collections, nil
}

// DeleteCollection removes an empty collection.
func (s *collectionStore) DeleteCollection(ctx context.Context, id string) error {
	var count int
	row := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents WHERE collection_id = ?", id)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("counting collection documents: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("%w: collection still holds %d documents", domain.ErrInvalidInput, count)
	}

	result, err := s.store.db.ExecContext(ctx, "DELETE FROM collections WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting collection: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Helpers ====================

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanDocument reads one document row.
func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var status, vectorIDsJSON string
	var collectionID sql.NullString
	var startedAt, completedAt sql.NullTime

	if err := row.Scan(&doc.ID, &doc.Filename, &doc.OriginalFilename,
		&doc.ContentType, &doc.FileSize, &doc.FilePath, &doc.Content,
		&status, &doc.ErrorMessage, &doc.ChunksCount, &vectorIDsJSON,
		&doc.EmbeddingModel, &collectionID, &startedAt, &completedAt,
		&doc.CreatedAt, &doc.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	doc.CollectionID = collectionID.String
	if startedAt.Valid {
		t := startedAt.Time
		doc.ProcessingStartedAt = &t
	}
	if completedAt.Valid {
		t := completedAt.Time
		doc.ProcessingCompletedAt = &t
	}
	if err := json.Unmarshal([]byte(vectorIDsJSON), &doc.VectorIDs); err != nil {
		return nil, fmt.Errorf("unmarshaling vector ids: %w", err)
	}

	return &doc, nil
}

// nullString converts an empty string to NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullTime converts a nil time pointer to NULL.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
