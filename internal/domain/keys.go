package domain

import "context"

type CtxKey string

const (
	// KeyRequestID carries the per-request correlation id into usecases for logging.
	KeyRequestID CtxKey = "RequestID"
)

// RequestIDFrom returns the request id stored in ctx by the HTTP layer, or "".
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(KeyRequestID).(string)
	return id
}
