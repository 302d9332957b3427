package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

func TestLogUsesContextLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core).With(logger.RequestID("req-1")))

	Log(ctx, EventUserLoggedIn, logger.UserID("u-1"))

	require.Equal(t, 1, logs.Len())
	e := logs.All()[0]
	assert.Equal(t, EventUserLoggedIn, e.Message)

	m := e.ContextMap()
	assert.Equal(t, "audit", m["component"])
	assert.Equal(t, EventUserLoggedIn, m["event"])
	assert.Equal(t, "req-1", m["request_id"])
	assert.Equal(t, "u-1", m["user_id"])
}
