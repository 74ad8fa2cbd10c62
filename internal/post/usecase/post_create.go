package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

// msgUnknownAuthor answers a valid token whose user has been removed.
const msgUnknownAuthor = "Invalid token"

type CreateInput struct {
	AuthorID  string
	Title     string
	Content   string
	Published bool
	Tags      []string
}

func (s *Usecase) Create(ctx context.Context, in CreateInput) (*entity.Post, error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer span.End()

	post, err := s.repoDB.CreatePost(ctx, entity.NewPost{
		ID:        s.uuid.Generate(),
		Title:     in.Title,
		Content:   in.Content,
		Published: in.Published,
		AuthorID:  in.AuthorID,
		CreatedAt: s.clock.Now(),
	}, s.tags(in.Tags))
	if errors.Is(err, goerror.ErrMissingReference) {
		slog.WarnContext(ctx, "post author no longer exists", "user_id", in.AuthorID)
		return nil, goerror.NewBusiness(msgUnknownAuthor, http.StatusUnauthorized)
	}
	if err != nil {
		return nil, serverError(ctx, "repo create post", err)
	}

	return post, nil
}
