package inbound

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
	"github.com/shandysiswandi/goblog/internal/post/entity"
	"github.com/shandysiswandi/goblog/internal/post/usecase"
)

// HTTPEndpoint exposes HTTP handlers for posts.
type HTTPEndpoint struct {
	uc uc
}

func authorID(r *router.Request) (string, error) {
	clm := r.Auth()
	if clm == nil || clm.UserID == "" {
		return "", goerror.NewBusiness("Authentication required", http.StatusUnauthorized)
	}
	return clm.UserID, nil
}

// Create publishes a post owned by the caller.
func (h *HTTPEndpoint) Create(r *router.Request) (any, error) {
	author, err := authorID(r)
	if err != nil {
		return nil, err
	}
	req := router.Body[CreatePostRequest](r)

	post, err := h.uc.Create(r.Context(), usecase.CreateInput{
		AuthorID:  author,
		Title:     req.Title,
		Content:   req.Content,
		Published: lo.FromPtr(req.Published),
		Tags:      req.Tags,
	})
	if err != nil {
		return nil, err
	}

	return CreatePostResponse{PostResponse: toPostResponse(*post)}, nil
}

// Update edits a post of the caller.
func (h *HTTPEndpoint) Update(r *router.Request) (any, error) {
	author, err := authorID(r)
	if err != nil {
		return nil, err
	}
	params := router.Params[PostParams](r)
	req := router.Body[UpdatePostRequest](r)

	post, err := h.uc.Update(r.Context(), usecase.UpdateInput{
		ID:        params.ID,
		AuthorID:  author,
		Title:     req.Title,
		Content:   req.Content,
		Published: req.Published,
		Tags:      req.Tags,
	})
	if err != nil {
		return nil, err
	}

	return UpdatePostResponse{PostResponse: toPostResponse(*post)}, nil
}

// Delete removes a post of the caller.
func (h *HTTPEndpoint) Delete(r *router.Request) (any, error) {
	author, err := authorID(r)
	if err != nil {
		return nil, err
	}
	params := router.Params[PostParams](r)

	if err := h.uc.Delete(r.Context(), usecase.DeleteInput{ID: params.ID, AuthorID: author}); err != nil {
		return nil, err
	}

	return nil, nil
}

// List pages through posts, newest first.
func (h *HTTPEndpoint) List(r *router.Request) (any, error) {
	q := router.Query[ListPostsQuery](r)

	out, err := h.uc.List(r.Context(), usecase.ListInput{
		Page:     q.Page,
		Limit:    q.Limit,
		AuthorID: q.AuthorID,
	})
	if err != nil {
		return nil, err
	}

	return ListPostsResponse{
		posts: lo.Map(out.Posts, func(p entity.Post, _ int) PostResponse { return toPostResponse(p) }),
		meta: PaginationMeta{
			Page:  out.Page,
			Limit: out.Limit,
			Total: out.Total,
		},
	}, nil
}

// Detail returns one post with its author and tags.
func (h *HTTPEndpoint) Detail(r *router.Request) (any, error) {
	params := router.Params[PostParams](r)

	post, err := h.uc.Detail(r.Context(), usecase.DetailInput{ID: params.ID})
	if err != nil {
		return nil, err
	}

	return toPostResponse(*post), nil
}
