package db

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

const (
	selectPost = `
SELECT p.id, p.title, p.content, p.published, p.author_id, p.created_at, p.updated_at,
       u.id, u.name, u.email
FROM posts p
JOIN users u ON u.id = p.author_id`

	queryGetPostByID = selectPost + `
WHERE p.id = $1`

	queryListPosts = selectPost + `
WHERE ($1::uuid IS NULL OR p.author_id = $1::uuid)
ORDER BY p.created_at DESC, p.id DESC
LIMIT $2 OFFSET $3`

	queryCountPosts = `
SELECT count(*)
FROM posts
WHERE ($1::uuid IS NULL OR author_id = $1::uuid)`

	queryTagsByPostIDs = `
SELECT pt.post_id, t.id, t.name
FROM post_tags pt
JOIN tags t ON t.id = pt.tag_id
WHERE pt.post_id = ANY($1::uuid[])
ORDER BY t.name`
)

func scanPost(row pgx.CollectableRow) (entity.Post, error) {
	var p entity.Post
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Content,
		&p.Published,
		&p.AuthorID,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.Author.ID,
		&p.Author.Name,
		&p.Author.Email,
	)
	p.Tags = []entity.Tag{}
	return p, err
}

// nullable maps the empty filter to SQL NULL.
func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func (s *DB) GetPostByID(ctx context.Context, id string) (_ *entity.Post, err error) {
	ctx, span := s.startSpan(ctx, "GetPostByID")
	defer s.finish(span, &err)

	post, err := s.getPost(ctx, s.conn, id)
	if err != nil {
		return nil, err
	}

	return post, nil
}

func (s *DB) ListPosts(ctx context.Context, filter entity.PostFilter) (_ []entity.Post, err error) {
	ctx, span := s.startSpan(ctx, "ListPosts")
	defer s.finish(span, &err)

	rows, err := s.conn.Query(ctx, queryListPosts, nullable(filter.AuthorID), filter.Limit, filter.Offset)
	if err != nil {
		return nil, err
	}
	posts, err := pgx.CollectRows(rows, scanPost)
	if err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, s.conn, posts); err != nil {
		return nil, err
	}

	return posts, nil
}

func (s *DB) CountPosts(ctx context.Context, authorID string) (_ int64, err error) {
	ctx, span := s.startSpan(ctx, "CountPosts")
	defer s.finish(span, &err)

	var total int64
	if err := s.conn.QueryRow(ctx, queryCountPosts, nullable(authorID)).Scan(&total); err != nil {
		return 0, err
	}

	return total, nil
}

func (s *DB) getPost(ctx context.Context, q querier, id string) (*entity.Post, error) {
	rows, err := q.Query(ctx, queryGetPostByID, id)
	if err != nil {
		return nil, err
	}
	post, err := pgx.CollectExactlyOneRow(rows, scanPost)
	if err != nil {
		return nil, err
	}

	posts := []entity.Post{post}
	if err := s.attachTags(ctx, q, posts); err != nil {
		return nil, err
	}

	return &posts[0], nil
}

func (s *DB) attachTags(ctx context.Context, q querier, posts []entity.Post) error {
	if len(posts) == 0 {
		return nil
	}

	index := make(map[string]int, len(posts))
	ids := make([]string, len(posts))
	for i, p := range posts {
		index[p.ID] = i
		ids[i] = p.ID
	}

	rows, err := q.Query(ctx, queryTagsByPostIDs, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var postID string
		var tag entity.Tag
		if err := rows.Scan(&postID, &tag.ID, &tag.Name); err != nil {
			return err
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, tag)
		}
	}

	return rows.Err()
}
