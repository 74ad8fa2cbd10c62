package usecase

import (
	"context"

	"github.com/shandysiswandi/goblog/internal/post/entity"
	"golang.org/x/sync/errgroup"
)

// ListInput pages through posts. Nil Page and Limit fall back to the defaults.
type ListInput struct {
	Page     *int
	Limit    *int
	AuthorID *string
}

type ListOutput struct {
	Posts []entity.Post
	Page  int
	Limit int
	Total int64
}

func (s *Usecase) List(ctx context.Context, in ListInput) (*ListOutput, error) {
	ctx, span := s.startSpan(ctx, "List")
	defer span.End()

	page, limit := pagination(in.Page, in.Limit)
	var authorID string
	if in.AuthorID != nil {
		authorID = *in.AuthorID
	}

	var (
		posts []entity.Post
		total int64
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = s.repoDB.ListPosts(gctx, entity.PostFilter{
			AuthorID: authorID,
			Limit:    limit,
			Offset:   (page - 1) * limit,
		})
		return err
	})
	g.Go(func() error {
		var err error
		total, err = s.repoDB.CountPosts(gctx, authorID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, serverError(ctx, "repo list posts", err)
	}

	return &ListOutput{
		Posts: posts,
		Page:  page,
		Limit: limit,
		Total: total,
	}, nil
}

// pagination applies the defaults to absent or zero values, then clamps limit
// to 1..MaxLimit and page to 1..MaxPage so the offset never overflows.
func pagination(page, limit *int) (int, int) {
	p, l := DefaultPage, DefaultLimit
	if page != nil && *page != 0 {
		p = max(1, min(*page, MaxPage))
	}
	if limit != nil && *limit != 0 {
		l = max(1, min(*limit, MaxLimit))
	}
	return p, l
}
