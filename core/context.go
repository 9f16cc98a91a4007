package core

import "context"

type contextKey string

// suppressHeaderKey marks runs whose stdout must carry only the payload.
const suppressHeaderKey contextKey = "suppressHeader"

// WithSuppressHeader marks the context so that ExecuteRank skips its header.
func WithSuppressHeader(ctx context.Context) context.Context {
	return context.WithValue(ctx, suppressHeaderKey, true)
}

func shouldSuppressHeader(ctx context.Context) bool {
	suppress, _ := ctx.Value(suppressHeaderKey).(bool)
	return suppress
}
