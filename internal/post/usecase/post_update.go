package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

const msgUpdateNotFound = "Post not found or you do not have permission to update it"

type UpdateInput struct {
	ID        string
	AuthorID  string
	Title     *string
	Content   *string
	Published *bool
	// Tags replaces the tag set when not nil.
	Tags []string
}

func (s *Usecase) Update(ctx context.Context, in UpdateInput) (*entity.Post, error) {
	ctx, span := s.startSpan(ctx, "Update")
	defer span.End()

	if err := s.ensureOwner(ctx, in.ID, in.AuthorID, msgUpdateNotFound); err != nil {
		return nil, err
	}

	patch := entity.PatchPost{
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		SetTags:   in.Tags != nil,
		UpdatedAt: s.clock.Now(),
	}
	if patch.SetTags {
		patch.Tags = s.tags(in.Tags)
	}

	post, err := s.repoDB.UpdatePost(ctx, in.ID, patch)
	if errors.Is(err, goerror.ErrNotFound) || errors.Is(err, goerror.ErrMissingReference) {
		return nil, goerror.NewBusiness(msgUpdateNotFound, http.StatusNotFound)
	}
	if err != nil {
		return nil, serverError(ctx, "repo update post "+in.ID, err)
	}

	return post, nil
}

// ensureOwner answers 404 with msg both for a missing post and for a post of
// another author.
func (s *Usecase) ensureOwner(ctx context.Context, postID, authorID, msg string) error {
	post, err := s.repoDB.GetPostByID(ctx, postID)
	if errors.Is(err, goerror.ErrNotFound) {
		slog.WarnContext(ctx, "post not found", "post_id", postID)
		return goerror.NewBusiness(msg, http.StatusNotFound)
	}
	if err != nil {
		return serverError(ctx, "repo get post "+postID, err)
	}

	if post.AuthorID != authorID {
		slog.WarnContext(ctx, "post owned by another author", "post_id", postID, "user_id", authorID)
		return goerror.NewBusiness(msg, http.StatusNotFound)
	}

	return nil
}
