package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

const (
	queryCreatePost = `
INSERT INTO posts (id, title, content, published, author_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $6)`

	queryUpsertTag = `
INSERT INTO tags (id, name)
VALUES ($1, $2)
ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
RETURNING id`

	queryLinkTag = `
INSERT INTO post_tags (post_id, tag_id)
VALUES ($1, $2)
ON CONFLICT DO NOTHING`
)

func (s *DB) CreatePost(ctx context.Context, in entity.NewPost, tags []entity.Tag) (_ *entity.Post, err error) {
	ctx, span := s.startSpan(ctx, "CreatePost")
	defer s.finish(span, &err)

	var post *entity.Post
	err = s.inTx(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, queryCreatePost,
			in.ID, in.Title, in.Content, in.Published, in.AuthorID, in.CreatedAt,
		); err != nil {
			return err
		}

		if err := s.connectTags(ctx, tx, in.ID, tags); err != nil {
			return err
		}

		var err error
		post, err = s.getPost(ctx, tx, in.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	return post, nil
}

// connectTags links postID to every tag, creating the tags that do not exist
// yet by name.
func (s *DB) connectTags(ctx context.Context, q querier, postID string, tags []entity.Tag) error {
	for _, tag := range tags {
		var tagID string
		if err := q.QueryRow(ctx, queryUpsertTag, tag.ID, tag.Name).Scan(&tagID); err != nil {
			return err
		}
		if _, err := q.Exec(ctx, queryLinkTag, postID, tagID); err != nil {
			return err
		}
	}
	return nil
}
