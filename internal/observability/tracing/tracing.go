package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// InjectTraceID returns ctx carrying a logger tagged with a fresh trace id.
// Fields already attached to the logger of ctx are kept.
func InjectTraceID(ctx context.Context) context.Context {
	id := uuid.New().String()
	logger := log.Ctx(ctx).With().Str("traceId", id).Logger()
	return logger.WithContext(ctx)
}
