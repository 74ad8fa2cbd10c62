package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

const (
	queryUpdatePost = `
UPDATE posts
SET title      = COALESCE($2, title),
    content    = COALESCE($3, content),
    published  = COALESCE($4, published),
    updated_at = $5
WHERE id = $1`

	queryUnlinkTags = `
DELETE FROM post_tags
WHERE post_id = $1`
)

func (s *DB) UpdatePost(ctx context.Context, id string, patch entity.PatchPost) (_ *entity.Post, err error) {
	ctx, span := s.startSpan(ctx, "UpdatePost")
	defer s.finish(span, &err)

	var post *entity.Post
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		cmd, err := tx.Exec(ctx, queryUpdatePost, id, patch.Title, patch.Content, patch.Published, patch.UpdatedAt)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return goerror.ErrNotFound
		}

		if patch.SetTags {
			if _, err := tx.Exec(ctx, queryUnlinkTags, id); err != nil {
				return err
			}
			if err := s.connectTags(ctx, tx, id, patch.Tags); err != nil {
				return err
			}
		}

		post, err = s.getPost(ctx, tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}
