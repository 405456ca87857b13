// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pdiddy/resume-engine/pkg/types"
)

// Status returns the generation status for (userID, jobAdID). A pair that
// was never started reports GenerationIdle.
func (s *Store) Status(ctx context.Context, userID, jobAdID string) (types.GenerationStatus, error) {
	st := types.GenerationStatus{UserID: userID, JobAdID: jobAdID}
	var state string
	var resume, errMsg, updated sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT status, resume, error, updated_at FROM generation_status
		 WHERE user_id = ? AND job_ad_id = ?`, userID, jobAdID,
	).Scan(&state, &resume, &errMsg, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		st.State = types.GenerationIdle
		return st, nil
	}
	if err != nil {
		return types.GenerationStatus{}, fmt.Errorf("querying status: %w", err)
	}
	st.State = types.GenerationState(state)
	st.Resume = resume.String
	st.Error = errMsg.String
	st.UpdatedAt = parseTime(updated)
	return st, nil
}

// SetStatus records st, replacing any previous status for the same pair.
func (s *Store) SetStatus(ctx context.Context, st types.GenerationStatus) error {
	if st.UserID == "" || st.JobAdID == "" {
		return fmt.Errorf("status requires user and job ad IDs")
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_status (user_id, job_ad_id, status, resume, error, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(user_id, job_ad_id) DO UPDATE SET
			status=excluded.status, resume=excluded.resume,
			error=excluded.error, updated_at=excluded.updated_at`,
		st.UserID, st.JobAdID, string(st.State), st.Resume, st.Error, formatTime(s.now()),
	)
	if err != nil {
		return fmt.Errorf("updating status: %w", err)
	}
	return nil
}
