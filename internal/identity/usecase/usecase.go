package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/shandysiswandi/goblog/internal/identity/entity"
	"github.com/shandysiswandi/goblog/internal/pkg/clock"
	"github.com/shandysiswandi/goblog/internal/pkg/goerror"
	"github.com/shandysiswandi/goblog/internal/pkg/hash"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/jwt"
	"github.com/shandysiswandi/goblog/internal/pkg/uid"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type repoDB interface {
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	CreateUser(ctx context.Context, user entity.NewUser, hash string) (*entity.User, error)
}

type Usecase struct {
	repoDB repoDB
	bcrypt hash.Hash
	uuid   uid.StringID
	clock  clock.Clocker
	jwt    jwt.JWT
	ins    instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	Bcrypt     hash.Hash
	UUID       uid.StringID
	Clock      clock.Clocker
	JWT        jwt.JWT
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB: dep.RepoDB,
		bcrypt: dep.Bcrypt,
		uuid:   dep.UUID,
		clock:  dep.Clock,
		jwt:    dep.JWT,
		ins:    dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("identity.usecase").Start(ctx, name)
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

// normalizeEmail is the form emails are stored and looked up in.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
