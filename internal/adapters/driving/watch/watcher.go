// Package watch ingests documents automatically when files appear in a
// watched directory. It backs the 'docchat watch' command.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// debounceDelay is how long a file must stay quiet before it is
// ingested. Editors and downloads write in bursts; ingesting on the
// first event would pick up partial content.
const debounceDelay = 500 * time.Millisecond

// supportedExtensions are the file types the ingestion pipeline accepts.
var supportedExtensions = map[string]string{
	".txt":      "text/plain",
	".md":       "text/markdown",
	".markdown": "text/markdown",
	".html":     "text/html",
	".htm":      "text/html",
	".pdf":      "application/pdf",
	".docx":     "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Event reports the outcome of one automatic ingestion.
type Event struct {
	// Path is the file that triggered the ingestion.
	Path string

	// Document is the ingested document, nil when Err is set.
	Document *domain.Document

	// Err is the ingestion failure, if any.
	Err error
}

// Watcher monitors a directory and ingests new or modified files.
type Watcher struct {
	dir          string
	docs         driving.DocumentService
	collectionID string

	mu      sync.Mutex
	pending map[string]*time.Timer
	closed  bool
}

// New creates a watcher for the given directory.
func New(dir string, docs driving.DocumentService, collectionID string) (*Watcher, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("watch path error: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("watch path error: %s is not a directory", dir)
	}
	if docs == nil {
		return nil, fmt.Errorf("document service is required")
	}

	return &Watcher{
		dir:          dir,
		docs:         docs,
		collectionID: collectionID,
		pending:      make(map[string]*time.Timer),
	}, nil
}

// Run starts watching and returns a channel of ingestion events.
// The channel closes when the context is cancelled.
func (w *Watcher) Run(ctx context.Context) (<-chan Event, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	if err := fsWatcher.Add(w.dir); err != nil {
		fsWatcher.Close() //nolint:errcheck
		return nil, fmt.Errorf("watching %s: %w", w.dir, err)
	}

	events := make(chan Event)

	go func() {
		defer close(events)
		defer fsWatcher.Close() //nolint:errcheck
		defer w.cancelPending()

		logger.Info("watching %s for new documents", w.dir)

		for {
			select {
			case <-ctx.Done():
				return
			case fsEvent, ok := <-fsWatcher.Events:
				if !ok {
					return
				}
				if fsEvent.Op.Has(fsnotify.Create) || fsEvent.Op.Has(fsnotify.Write) {
					w.schedule(ctx, fsEvent.Name, events)
				}
			case err, ok := <-fsWatcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error: %v", err)
			}
		}
	}()

	return events, nil
}

// schedule arms (or re-arms) the debounce timer for a file.
func (w *Watcher) schedule(ctx context.Context, path string, events chan<- Event) {
	if !isIngestible(path) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}

	if timer, ok := w.pending[path]; ok {
		timer.Reset(debounceDelay)
		return
	}

	w.pending[path] = time.AfterFunc(debounceDelay, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()

		doc, err := w.ingest(ctx, path)
		select {
		case events <- Event{Path: path, Document: doc, Err: err}:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) ingest(ctx context.Context, path string) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	upload := driving.DocumentUpload{
		Filename:     filepath.Base(path),
		ContentType:  supportedExtensions[strings.ToLower(filepath.Ext(path))],
		Content:      content,
		CollectionID: w.collectionID,
	}

	doc, err := w.docs.UploadAndWait(ctx, upload)
	if err != nil {
		return nil, err
	}
	if doc.Status == domain.StatusFailed {
		return doc, fmt.Errorf("processing failed: %s", doc.ErrorMessage)
	}
	return doc, nil
}

// cancelPending stops all armed debounce timers.
func (w *Watcher) cancelPending() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

// isIngestible reports whether a path looks like a document worth
// ingesting. Hidden files and unsupported extensions are skipped.
func isIngestible(path string) bool {
	name := filepath.Base(path)
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return false
	}
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(name))]
	return ok
}
