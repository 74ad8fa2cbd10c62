package inbound

import (
	"context"
	"net/http"

	"github.com/shandysiswandi/goblog/internal/pkg/openapi"
	"github.com/shandysiswandi/goblog/internal/pkg/router"
	"github.com/shandysiswandi/goblog/internal/pkg/validator"
	"github.com/shandysiswandi/goblog/internal/post/entity"
	"github.com/shandysiswandi/goblog/internal/post/usecase"
)

type uc interface {
	Create(ctx context.Context, in usecase.CreateInput) (*entity.Post, error)
	Update(ctx context.Context, in usecase.UpdateInput) (*entity.Post, error)
	Delete(ctx context.Context, in usecase.DeleteInput) error
	List(ctx context.Context, in usecase.ListInput) (*usecase.ListOutput, error)
	Detail(ctx context.Context, in usecase.DetailInput) (*entity.Post, error)
}

func RegisterHTTPEndpoint(r *router.Router, docs *openapi.Registry, v *validator.V10Validator, uc uc) {
	end := &HTTPEndpoint{uc: uc}

	params := router.ValidateParams(validator.NewStruct[PostParams](v))

	// need authenticated
	r.POST("/v1/posts", router.With(end.Create, router.ValidateBody(validator.NewStruct[CreatePostRequest](v))))
	r.PUT("/v1/posts/:id", router.With(end.Update, params, router.ValidateBody(validator.NewStruct[UpdatePostRequest](v))))
	r.DELETE("/v1/posts/:id", router.With(end.Delete, params))

	// public
	r.GET("/v1/posts", router.With(end.List, router.ValidateQuery(validator.NewStruct[ListPostsQuery](v))))
	r.GET("/v1/posts/:id", router.With(end.Detail, params))

	if docs == nil {
		return
	}

	docs.Add(openapi.Operation{
		Method:   http.MethodPost,
		Path:     "/v1/posts",
		Summary:  "Create a new post",
		Tags:     []string{"Posts"},
		Secured:  true,
		Body:     CreatePostRequest{},
		Response: PostResponse{},
		Status:   http.StatusCreated,
		Errors:   []int{http.StatusBadRequest, http.StatusUnauthorized},
	})
	docs.Add(openapi.Operation{
		Method:   http.MethodPut,
		Path:     "/v1/posts/:id",
		Summary:  "Update a post",
		Tags:     []string{"Posts"},
		Secured:  true,
		Params:   PostParams{},
		Body:     UpdatePostRequest{},
		Response: PostResponse{},
		Errors:   []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	})
	docs.Add(openapi.Operation{
		Method:  http.MethodDelete,
		Path:    "/v1/posts/:id",
		Summary: "Delete a post",
		Tags:    []string{"Posts"},
		Secured: true,
		Params:  PostParams{},
		Status:  http.StatusNoContent,
		Errors:  []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusNotFound},
	})
	docs.Add(openapi.Operation{
		Method:   http.MethodGet,
		Path:     "/v1/posts",
		Summary:  "Get all posts",
		Tags:     []string{"Posts"},
		Query:    ListPostsQuery{},
		Response: []PostResponse{},
		Meta:     PaginationMeta{},
		Errors:   []int{http.StatusBadRequest},
	})
	docs.Add(openapi.Operation{
		Method:   http.MethodGet,
		Path:     "/v1/posts/:id",
		Summary:  "Get a post by ID",
		Tags:     []string{"Posts"},
		Params:   PostParams{},
		Response: PostResponse{},
		Errors:   []int{http.StatusBadRequest, http.StatusNotFound},
	})
}
