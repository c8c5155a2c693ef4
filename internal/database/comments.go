package database

import (
	"context"

	"shareit/internal/models"
)

func (db *DB) CreateComment(ctx context.Context, comment *models.Comment) error {
	query := `INSERT INTO comments (item_id, author_id, text, created_at)
              VALUES (?, ?, ?, ?)`

	result, err := db.db.ExecContext(ctx, query,
		comment.ItemID,
		comment.AuthorID,
		comment.Text,
		comment.Created,
	)
	if err != nil {
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}

	comment.ID = id
	return nil
}

func (db *DB) ListCommentsByItem(ctx context.Context, itemID int64) ([]*models.Comment, error) {
	query := `SELECT id, item_id, author_id, text, created_at
              FROM comments WHERE item_id = ? ORDER BY created_at`

	rows, err := db.db.QueryContext(ctx, query, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*models.Comment
	for rows.Next() {
		var comment models.Comment
		err := rows.Scan(
			&comment.ID,
			&comment.ItemID,
			&comment.AuthorID,
			&comment.Text,
			&comment.Created,
		)
		if err != nil {
			return nil, err
		}
		comments = append(comments, &comment)
	}

	return comments, rows.Err()
}
