package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

type DetailInput struct {
	ID string
}

func (s *Usecase) Detail(ctx context.Context, in DetailInput) (*entity.Post, error) {
	ctx, span := s.startSpan(ctx, "Detail")
	defer span.End()

	post, err := s.repoDB.GetPostByID(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return nil, goerror.NewBusiness("Post not found", http.StatusNotFound)
	}
	if err != nil {
		return nil, serverError(ctx, "repo get post "+in.ID, err)
	}

	return post, nil
}
