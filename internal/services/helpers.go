package services

import (
	"context"
	"errors"
	"fmt"

	"storefront-api/internal/storage"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("storefront-api/internal/services")

// mapRepoError maps storage errors to service errors
func mapRepoError(logger *zap.Logger, err error, notFound error, operation string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return notFound
	}
	if errors.Is(err, storage.ErrForeignKey) {
		return fmt.Errorf("%w: %s (%v)", ErrConstraintViolation, operation, err)
	}
	// Log other unexpected errors
	logger.Error("Unexpected repository error", zap.String("operation", operation), zap.Error(err))
	return fmt.Errorf("internal error during %s: %w", operation, err)
}

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name)
}

// endSpan records err on the span, if any, and ends it.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
