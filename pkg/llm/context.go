package llm

import (
	"context"
)

type contextKey string

const (
	operationKey contextKey = "llm_operation"
)

// Operation names used to label AI calls in logs and metrics.
const (
	OperationRanking    = "ranking"
	OperationChat       = "chat"
	OperationEvaluation = "evaluation"
)

// WithOperation returns a context labelled with the pipeline operation issuing the call.
func WithOperation(ctx context.Context, operation string) context.Context {
	return context.WithValue(ctx, operationKey, operation)
}

// GetOperation returns the operation label from ctx, or "unknown" if none is set.
func GetOperation(ctx context.Context) string {
	if op, ok := ctx.Value(operationKey).(string); ok && op != "" {
		return op
	}
	return "unknown"
}
