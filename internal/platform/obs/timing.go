// Package obs holds the small observability helpers shared by the
// adapters and services: a per-request correlation key and a combined
// span/log timing decorator.
package obs

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type ctxKey string

// RequestIDKey carries the per-request correlation ID through contexts.
const RequestIDKey ctxKey = "req_id"

const tracerName = "go-travel"

// Time opens a span for the named operation and returns a closure to
// defer with the callee's named error. The closure ends the span and
// emits one structured log line with the duration and outcome.
//
//	func (s *Service) Op(ctx context.Context) (err error) {
//		defer obs.Time(ctx, "service.Op")(&err)
//		...
//	}
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	_, span := otel.Tracer(tracerName).Start(ctx, name, trace.WithSpanKind(trace.SpanKindInternal))

	reqID, _ := ctx.Value(RequestIDKey).(string)

	return func(errp *error) {
		dur := time.Since(start)

		if errp != nil && *errp != nil {
			span.RecordError(*errp)
			span.SetStatus(codes.Error, (*errp).Error())
			span.End()

			log.Error().
				Str("req_id", reqID).
				Str("op", name).
				Dur("dur", dur).
				Err(*errp).
				Msg("operation failed")
			return
		}

		span.SetStatus(codes.Ok, "")
		span.End()

		log.Debug().
			Str("req_id", reqID).
			Str("op", name).
			Dur("dur", dur).
			Msg("operation completed")
	}
}
