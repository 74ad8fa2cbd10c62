package inbound

import (
	"net/http"
	"time"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goblog/internal/post/entity"
)

type PostParams struct {
	ID string `json:"id" validate:"required,uuid"`
}

type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required,min=1"`
	Content   string   `json:"content" validate:"required,min=1"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title     *string  `json:"title" validate:"omitnil,min=1"`
	Content   *string  `json:"content" validate:"omitnil,min=1"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

type ListPostsQuery struct {
	Page     *int    `json:"page" validate:"omitnil,min=1"`
	Limit    *int    `json:"limit" validate:"omitnil,min=1,max=100"`
	AuthorID *string `json:"authorId" validate:"omitnil,uuid"`
}

type AuthorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type TagResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type PostResponse struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Content   string         `json:"content"`
	Published bool           `json:"published"`
	AuthorID  string         `json:"authorId"`
	Author    AuthorResponse `json:"author"`
	Tags      []TagResponse  `json:"tags"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

func toPostResponse(p entity.Post) PostResponse {
	return PostResponse{
		ID:        p.ID,
		Title:     p.Title,
		Content:   p.Content,
		Published: p.Published,
		AuthorID:  p.AuthorID,
		Author: AuthorResponse{
			ID:    p.Author.ID,
			Name:  p.Author.Name,
			Email: p.Author.Email,
		},
		Tags: lo.Map(p.Tags, func(t entity.Tag, _ int) TagResponse {
			return TagResponse{ID: t.ID, Name: t.Name}
		}),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

type CreatePostResponse struct {
	PostResponse
}

func (CreatePostResponse) StatusCode() int { return http.StatusCreated }
func (CreatePostResponse) Message() string { return "Post created successfully" }

type UpdatePostResponse struct {
	PostResponse
}

func (UpdatePostResponse) Message() string { return "Post updated successfully" }

type PaginationMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

type ListPostsResponse struct {
	posts []PostResponse
	meta  PaginationMeta
}

func (r ListPostsResponse) Data() any { return r.posts }

func (r ListPostsResponse) Meta() map[string]any {
	return map[string]any{
		"page":  r.meta.Page,
		"limit": r.meta.Limit,
		"total": r.meta.Total,
	}
}
