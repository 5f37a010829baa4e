package log

import (
	"context"

	logInterface "github.com/weisyn/mintgate/pkg/interfaces/infrastructure/log"
)

type contextKey struct{}

// IntoContext 把请求级 logger（通常带 request_id）放入 context
func IntoContext(ctx context.Context, logger logInterface.Logger) context.Context {
	if logger == nil {
		return ctx
	}
	return context.WithValue(ctx, contextKey{}, logger)
}

// FromContext 取出请求级 logger，没有时返回 fallback
func FromContext(ctx context.Context, fallback logInterface.Logger) logInterface.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(contextKey{}).(logInterface.Logger); ok {
			return logger
		}
	}
	return fallback
}
