// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store persists generated posts in PostgreSQL. The PostStore is
// append-only: posts are inserted and listed, never updated or deleted.
package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/google/uuid"

	"thoughtpress/internal/models"
)

var (
	// ErrStoreUnavailable indicates the database could not be reached.
	// The caller may retry; the store itself never does.
	ErrStoreUnavailable = errors.New("store: database unavailable")

	// ErrWriteRejected indicates the database was reachable but did not
	// acknowledge the insert. Not retryable by default — the caller decides.
	ErrWriteRejected = errors.New("store: write rejected")
)

// Bounded waits for the durable operations. These cap how long a single
// request can hang on the database.
const (
	writeTimeout = 5 * time.Second
	readTimeout  = 10 * time.Second
)

// PostStore handles all post persistence. The *sql.DB handle is owned by
// main, opened once at process start and shared across requests; the
// driver's pool makes concurrent use safe.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Add assigns an ID and a UTC creation timestamp to the draft and inserts
// it. Every call creates a new row — identical drafts are not deduplicated.
// Returns the stored record only after the insert was acknowledged.
func (s *PostStore) Add(ctx context.Context, post models.BlogPost) (models.StoredPost, error) {
	ctx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	tags := post.Tags
	if tags == nil {
		tags = []string{}
	}
	tagsJSON, err := json.Marshal(tags)
	if err != nil {
		return models.StoredPost{}, fmt.Errorf("marshal tags: %w", err)
	}

	stored := models.StoredPost{
		ID:        uuid.New(),
		Title:     post.Title,
		Content:   post.Content,
		Tags:      tags,
		CreatedAt: time.Now().UTC(),
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (id, title, content, tags, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`, stored.ID, stored.Title, stored.Content, tagsJSON, stored.CreatedAt)
	if err != nil {
		if unreachable(err) {
			return models.StoredPost{}, fmt.Errorf("insert post: %w: %v", ErrStoreUnavailable, err)
		}
		return models.StoredPost{}, fmt.Errorf("insert post: %w: %v", ErrWriteRejected, err)
	}

	// A driver that reports zero rows affected did not acknowledge the write.
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return models.StoredPost{}, fmt.Errorf("insert post: %w", ErrWriteRejected)
	}

	return stored, nil
}

// ListAll returns every stored post. Rows come back in created_at order as
// an implementation detail; callers must not rely on it.
func (s *PostStore) ListAll(ctx context.Context) ([]models.StoredPost, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, content, tags, created_at
		FROM posts
		ORDER BY created_at
	`)
	if err != nil {
		if unreachable(err) {
			return nil, fmt.Errorf("list posts: %w: %v", ErrStoreUnavailable, err)
		}
		return nil, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.StoredPost
	for rows.Next() {
		var p models.StoredPost
		var tagsJSON []byte
		if err := rows.Scan(&p.ID, &p.Title, &p.Content, &tagsJSON, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		if err := json.Unmarshal(tagsJSON, &p.Tags); err != nil {
			return nil, fmt.Errorf("unmarshal tags: %w", err)
		}
		p.CreatedAt = p.CreatedAt.UTC()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// Count returns the number of stored posts.
func (s *PostStore) Count(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, readTimeout)
	defer cancel()

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count posts: %w", err)
	}
	return count, nil
}

// unreachable reports whether an error means the database could not be
// reached, as opposed to the database rejecting the statement.
func unreachable(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrConnDone) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
