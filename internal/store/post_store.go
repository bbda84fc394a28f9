package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/giftedai/giftedai/internal/domain"
)

type PostStore struct {
	db *sql.DB
}

func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// Create writes one post row. Posts are written once and never mutated.
// uploads is stored as a JSON array in insertion order.
func (s *PostStore) Create(ctx context.Context, caption string, userID, userIP *string, uploads []string, app string) (*domain.Post, error) {
	if uploads == nil {
		uploads = []string{}
	}
	uploadsJSON, err := json.Marshal(uploads)
	if err != nil {
		return nil, fmt.Errorf("failed to encode uploads: %w", err)
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO posts (caption, user_id, user_ip, uploads, app) VALUES (?, ?, ?, ?, ?)
	`, caption, userID, userIP, string(uploadsJSON), app)
	if err != nil {
		return nil, fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get last insert id: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, caption, user_id, user_ip, uploads, app, created_at FROM posts WHERE id = ?
	`, id)

	post, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get post: %w", err)
	}
	return post, nil
}

// ListByApp returns the most recent posts for an app tag, newest first.
func (s *PostStore) ListByApp(ctx context.Context, app string, limit int) ([]*domain.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, caption, user_id, user_ip, uploads, app, created_at FROM posts
		WHERE app = ? ORDER BY created_at DESC, id DESC LIMIT ?
	`, app, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	posts := make([]*domain.Post, 0)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	return posts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*domain.Post, error) {
	post := &domain.Post{}
	var userID, userIP sql.NullString
	var uploadsJSON string

	if err := row.Scan(&post.ID, &post.Caption, &userID, &userIP, &uploadsJSON, &post.App, &post.CreatedAt); err != nil {
		return nil, err
	}

	if userID.Valid {
		post.UserID = &userID.String
	}
	if userIP.Valid {
		post.UserIP = &userIP.String
	}
	if err := json.Unmarshal([]byte(uploadsJSON), &post.Uploads); err != nil {
		return nil, fmt.Errorf("failed to decode uploads: %w", err)
	}
	return post, nil
}
