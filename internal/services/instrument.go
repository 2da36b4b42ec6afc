package services

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"review-service/internal/observability"
	"review-service/internal/repositories"
)

var tracer = otel.Tracer("review-service/services")

func startSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func recordCascade(kind string, result repositories.CascadeResult, err error) {
	observability.ObserveCascade(kind, err)
	if err != nil {
		return
	}
	observability.AddCascadedRows("group_reviews", result.Reviews)
	observability.AddCascadedRows("comments", result.Comments)
	observability.AddCascadedRows("discussions", result.Discussions)
	observability.AddCascadedRows("group_media", result.Media)
	observability.AddCascadedRows("group_members", result.Members)
}
