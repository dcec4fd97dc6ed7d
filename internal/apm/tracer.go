package apm

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/fd1az/arbscan/internal/apperror"
)

// Tracer starts spans on the global provider under one instrumentation scope.
type Tracer struct {
	tracer trace.Tracer
}

// NewTracer returns a Tracer for the named scope.
func NewTracer(scope string) *Tracer {
	return &Tracer{tracer: otel.Tracer(scope)}
}

// Start opens a span named op carrying attrs.
func (t *Tracer) Start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, *Span) {
	ctx, span := t.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
	return ctx, &Span{span: span}
}

// Span is an open span. The zero value is a no-op.
type Span struct {
	span trace.Span
}

func (s *Span) Set(attrs ...attribute.KeyValue) {
	if s.span != nil {
		s.span.SetAttributes(attrs...)
	}
}

// Fail records err on the span along with its error code and class.
func (s *Span) Fail(err error) {
	if err == nil || s.span == nil {
		return
	}
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		s.span.SetAttributes(
			attribute.String("error.code", string(appErr.Code)),
			attribute.String("error.class", appErr.Class.String()),
		)
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s *Span) End() {
	if s.span != nil {
		s.span.End()
	}
}
