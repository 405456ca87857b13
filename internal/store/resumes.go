// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// PutResume inserts or replaces r, assigning a UUID when r.ID is empty.
func (s *Store) PutResume(ctx context.Context, r types.StoredResume) (types.StoredResume, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	r.UpdatedAt = s.now()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO resumes (id, user_id, body, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			user_id=excluded.user_id, body=excluded.body, updated_at=excluded.updated_at`,
		r.ID, r.UserID, string(r.Body), formatTime(r.UpdatedAt),
	)
	if err != nil {
		return types.StoredResume{}, fmt.Errorf("upserting resume %s: %w", r.ID, err)
	}
	return r, nil
}

// Resume returns the resume with the given id.
func (s *Store) Resume(ctx context.Context, id string) (types.StoredResume, error) {
	var r types.StoredResume
	var body string
	var updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, body, updated_at FROM resumes WHERE id = ?`, id,
	).Scan(&r.ID, &r.UserID, &body, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return types.StoredResume{}, fmt.Errorf("resume %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return types.StoredResume{}, fmt.Errorf("querying resume %s: %w", id, err)
	}
	r.Body = []byte(body)
	r.UpdatedAt = parseTime(updated)
	return r, nil
}

// ResumesByUser returns the resumes owned by userID, most recent first.
func (s *Store) ResumesByUser(ctx context.Context, userID string) ([]types.StoredResume, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, body, updated_at FROM resumes WHERE user_id = ?
		 ORDER BY updated_at DESC, id`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying resumes: %w", err)
	}
	defer rows.Close()

	var out []types.StoredResume
	for rows.Next() {
		var r types.StoredResume
		var body string
		var updated sql.NullString
		if err := rows.Scan(&r.ID, &r.UserID, &body, &updated); err != nil {
			return nil, fmt.Errorf("scanning resume: %w", err)
		}
		r.Body = []byte(body)
		r.UpdatedAt = parseTime(updated)
		out = append(out, r)
	}
	return out, rows.Err()
}
