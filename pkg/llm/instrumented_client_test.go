package llm

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bookingai/bookingai-engine/pkg/metrics"
)

func TestInstrumentedClient_RecordsOutcomePerOperation(t *testing.T) {
	mock := NewMockLLMClient()
	client := NewInstrumentedClient(mock, zap.NewNop())

	success := metrics.AIRequests.WithLabelValues(OperationChat, metrics.OutcomeSuccess)
	limited := metrics.AIRequests.WithLabelValues(OperationChat, string(ErrorTypeRateLimited))
	successBefore := testutil.ToFloat64(success)
	limitedBefore := testutil.ToFloat64(limited)

	ctx := WithOperation(context.Background(), OperationChat)

	mock.Response = "hello"
	text, err := client.Generate(ctx, "hi")
	require.NoError(t, err)
	assert.Equal(t, "hello", text)

	mock.GenerateFunc = func(ctx context.Context, prompt string) (string, error) {
		return "", newStatusError(429, "", "mock-model", "")
	}
	_, err = client.Generate(ctx, "hi")
	assert.True(t, IsRateLimited(err))

	assert.Equal(t, successBefore+1, testutil.ToFloat64(success))
	assert.Equal(t, limitedBefore+1, testutil.ToFloat64(limited))
	assert.Equal(t, 2, mock.GenerateCalls)
}

func TestInstrumentedClient_DelegatesMetadata(t *testing.T) {
	mock := NewMockLLMClient()
	mock.Model = "m1"
	mock.Endpoint = "http://e1"
	client := NewInstrumentedClient(mock, zap.NewNop())

	assert.Equal(t, "m1", client.GetModel())
	assert.Equal(t, "http://e1", client.GetEndpoint())
}
