package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shandysiswandi/goblog/internal/pkg/instrument"
	"github.com/shandysiswandi/goblog/internal/pkg/sqlerr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DB reads and writes the users table.
type DB struct {
	conn   *pgxpool.Pool
	tracer trace.Tracer
}

func NewDB(conn *pgxpool.Pool, ins instrument.Instrumentation) *DB {
	return &DB{
		conn:   conn,
		tracer: ins.Tracer("identity.outbound.db"),
	}
}

func (s *DB) startSpan(ctx context.Context, op string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, op, trace.WithSpanKind(trace.SpanKindClient), trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.sql.table", "users"),
	))
}

// finish maps err for the use case and closes span. Sentinels are outcomes,
// not failures, so only other errors mark the span.
func (s *DB) finish(span trace.Span, err *error) {
	*err = sqlerr.Map(*err)
	if *err != nil && !sqlerr.Expected(*err) {
		span.RecordError(*err)
		span.SetStatus(codes.Error, (*err).Error())
	}
	span.End()
}
