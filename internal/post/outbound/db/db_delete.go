package db

import (
	"context"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

const queryDeletePost = `
DELETE FROM posts
WHERE id = $1`

func (s *DB) DeletePost(ctx context.Context, id string) (err error) {
	ctx, span := s.startSpan(ctx, "DeletePost")
	defer s.finish(span, &err)

	cmd, err := s.conn.Exec(ctx, queryDeletePost, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return goerror.ErrNotFound
	}

	return nil
}
