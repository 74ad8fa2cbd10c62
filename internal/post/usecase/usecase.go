package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/samber/lo"
	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
	"github.com/shandysiswandi/goblog/internal/post/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100

	// MaxPage keeps (page-1)*MaxLimit inside int.
	MaxPage = math.MaxInt/MaxLimit + 1
)

type repoDB interface {
	GetPostByID(ctx context.Context, id string) (*entity.Post, error)
	ListPosts(ctx context.Context, filter entity.PostFilter) ([]entity.Post, error)
	CountPosts(ctx context.Context, authorID string) (int64, error)

	CreatePost(ctx context.Context, post entity.NewPost, tags []entity.Tag) (*entity.Post, error)
	UpdatePost(ctx context.Context, id string, patch entity.PatchPost) (*entity.Post, error)
	DeletePost(ctx context.Context, id string) error
}

type Usecase struct {
	repoDB repoDB
	uuid   uid.StringID
	clock  clock.Clocker
	ins    instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	UUID       uid.StringID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB: dep.RepoDB,
		uuid:   dep.UUID,
		clock:  dep.Clock,
		ins:    dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("post.usecase").Start(ctx, name)
}

// tags trims names, drops blanks and duplicates, and gives every name a fresh
// id that is used only when the tag does not exist yet.
func (s *Usecase) tags(names []string) []entity.Tag {
	names = lo.Uniq(lo.Compact(lo.Map(names, func(n string, _ int) string {
		return strings.TrimSpace(n)
	})))

	return lo.Map(names, func(n string, _ int) entity.Tag {
		return entity.Tag{ID: s.uuid.Generate(), Name: n}
	})
}

// serverError wraps err as an unknown failure and records it on the span of
// ctx. The router logs it once when the response is written.
func serverError(ctx context.Context, op string, err error) error {
	err = fmt.Errorf("%s: %w", op, err)

	span := trace.SpanFromContext(ctx)
	span.RecordError(err)
	span.SetStatus(codes.Error, op)

	return goerror.NewServer(err)
}
