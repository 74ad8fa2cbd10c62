package usecase

import (
	"context"
	"errors"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
)

const msgDeleteNotFound = "Post not found or you do not have permission to delete it"

type DeleteInput struct {
	ID       string
	AuthorID string
}

func (s *Usecase) Delete(ctx context.Context, in DeleteInput) error {
	ctx, span := s.startSpan(ctx, "Delete")
	defer span.End()

	if err := s.ensureOwner(ctx, in.ID, in.AuthorID, msgDeleteNotFound); err != nil {
		return err
	}

	err := s.repoDB.DeletePost(ctx, in.ID)
	if errors.Is(err, goerror.ErrNotFound) {
		return goerror.NewBusiness(msgDeleteNotFound, http.StatusNotFound)
	}
	if err != nil {
		return serverError(ctx, "repo delete post "+in.ID, err)
	}

	return nil
}
