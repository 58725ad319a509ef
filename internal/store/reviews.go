package store

import (
	"fmt"

	"github.com/Janwang88/KIMD/internal/model"
)

// AddReview 新增一条评论
func (s *Store) AddReview(r *model.Review) (int64, error) {
	res, err := s.db.Exec(
		"INSERT INTO reviews (user_id, content, milestone) VALUES (?, ?, ?)",
		r.UserID, r.Content, r.Milestone)
	if err != nil {
		return 0, fmt.Errorf("failed to insert review: %w", err)
	}
	return res.LastInsertId()
}

// ListReviews 按时间倒序返回评论，milestone 为空时不过滤
func (s *Store) ListReviews(milestone string, limit, offset int) ([]model.Review, error) {
	if limit <= 0 {
		limit = 50
	}
	query := "SELECT id, user_id, content, milestone, created_at FROM reviews"
	args := []any{}
	if milestone != "" {
		query += " WHERE milestone = ?"
		args = append(args, milestone)
	}
	query += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	reviews := []model.Review{}
	for rows.Next() {
		var r model.Review
		if err := rows.Scan(&r.ID, &r.UserID, &r.Content, &r.Milestone, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

// DeleteReview 按 ID 删除评论，返回是否确有该记录
func (s *Store) DeleteReview(id int64) (bool, error) {
	res, err := s.db.Exec("DELETE FROM reviews WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete review: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
