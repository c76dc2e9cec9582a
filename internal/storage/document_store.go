package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_document_store.go -package=mocks docchat/internal/storage DocumentStore

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"docchat/internal/document"
)

// DocumentStore is the keyed per-session store for document records.
// A session holds at most one record; Store replaces it wholesale.
type DocumentStore interface {
	// Store saves the record for a session, replacing any existing one.
	Store(ctx context.Context, sessionID string, rec *document.Record) error
	// Get returns the session's record. Returns ErrNotFound if the session
	// has no document.
	Get(ctx context.Context, sessionID string) (*document.Record, error)
	// Clear removes the session's document context. Clearing a session
	// that has no document is not an error.
	Clear(ctx context.Context, sessionID string) error
}

// DocumentRepo provides SQLite-backed document record storage.
// It implements the DocumentStore interface.
type DocumentRepo struct {
	db *sql.DB
}

// NewDocumentRepo creates a new DocumentRepo.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

// Store saves the record for a session, replacing any existing one.
// The record and its chunks are written in a single transaction so a
// concurrent Get always sees a consistent snapshot.
func (r *DocumentRepo) Store(ctx context.Context, sessionID string, rec *document.Record) error {
	if rec == nil {
		return fmt.Errorf("nil record for session %s", sessionID)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to delete existing document: %w", err)
	}

	truncated := 0
	if rec.Truncated {
		truncated = 1
	}
	_, err = tx.ExecContext(ctx,
		"INSERT INTO documents (session_id, file_name, total_chars, page_count, truncated) VALUES (?, ?, ?, ?, ?)",
		sessionID, rec.FileName, rec.TotalChars, rec.PageCount, truncated,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for _, c := range rec.Chunks {
		pages, err := json.Marshal(c.Pages)
		if err != nil {
			return fmt.Errorf("failed to marshal pages: %w", err)
		}
		entities, err := json.Marshal(c.KeyEntities)
		if err != nil {
			return fmt.Errorf("failed to marshal key entities: %w", err)
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO chunks (session_id, chunk_index, text, start_pos, end_pos, pages, key_entities) VALUES (?, ?, ?, ?, ?, ?, ?)",
			sessionID, c.Index, c.Text, c.StartPos, c.EndPos, string(pages), string(entities),
		)
		if err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", c.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get returns the session's record with chunks in index order. Both reads
// run in one transaction so a concurrent Store cannot produce a torn record.
func (r *DocumentRepo) Get(ctx context.Context, sessionID string) (*document.Record, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	var rec document.Record
	var truncated int
	err = tx.QueryRowContext(ctx,
		"SELECT file_name, total_chars, page_count, truncated FROM documents WHERE session_id = ?",
		sessionID,
	).Scan(&rec.FileName, &rec.TotalChars, &rec.PageCount, &truncated)

	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document: %w", err)
	}
	rec.Truncated = truncated != 0

	rows, err := tx.QueryContext(ctx,
		"SELECT chunk_index, text, start_pos, end_pos, pages, key_entities FROM chunks WHERE session_id = ? ORDER BY chunk_index",
		sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query chunks: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	for rows.Next() {
		var c document.Chunk
		var pages, entities string
		if err := rows.Scan(&c.Index, &c.Text, &c.StartPos, &c.EndPos, &pages, &entities); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		if err := json.Unmarshal([]byte(pages), &c.Pages); err != nil {
			return nil, fmt.Errorf("failed to unmarshal pages: %w", err)
		}
		if err := json.Unmarshal([]byte(entities), &c.KeyEntities); err != nil {
			return nil, fmt.Errorf("failed to unmarshal key entities: %w", err)
		}
		rec.Chunks = append(rec.Chunks, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	// Rows must be closed before the transaction can commit.
	_ = rows.Close()

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return &rec, nil
}

// Clear removes the session's document and chunks.
func (r *DocumentRepo) Clear(ctx context.Context, sessionID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM documents WHERE session_id = ?", sessionID); err != nil {
		return fmt.Errorf("failed to clear document: %w", err)
	}
	return nil
}
