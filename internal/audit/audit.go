// Package audit emite eventos de seguridad sobre el logger del request.
// Cada evento sale a nivel Info con component=audit y event=<nombre>.
package audit

import (
	"context"

	"go.uber.org/zap"

	"github.com/dropDatabas3/hellodiary/internal/observability/logger"
)

const (
	EventUserRegistered     = "user.registered"
	EventUserLoggedIn       = "user.logged_in"
	EventUserLoginFailed    = "user.login_failed"
	EventUserLoggedOut      = "user.logged_out"
	EventUserDeactivated    = "user.deactivated"
	EventUserProfileUpdated = "user.profile_updated"
	EventDiaryAccessDenied  = "diary.access_denied"
)

// Log registra el evento. El logger del contexto ya trae request_id.
func Log(ctx context.Context, event string, fields ...zap.Field) {
	l := logger.From(ctx).With(logger.Component("audit"), zap.String("event", event))
	l.Info(event, fields...)
}
