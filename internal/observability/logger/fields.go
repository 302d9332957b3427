package logger

import (
	"go.uber.org/zap"

	"github.com/dropDatabas3/hellodiary/internal/util"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }

func Method(v string) zap.Field { return zap.String("method", v) }

func Path(v string) zap.Field { return zap.String("path", v) }

func Status(v int) zap.Field { return zap.Int("status", v) }

// DurationMs duración del request en milisegundos.
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }

func Bytes(v int) zap.Field { return zap.Int("bytes", v) }

func ClientIP(v string) zap.Field { return zap.String("client_ip", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - NEGOCIO
// =================================================================================

func UserID(v string) zap.Field { return zap.String("user_id", v) }

func Username(v string) zap.Field { return zap.String("username", v) }

// Email se enmascara siempre (util.MaskEmail).
func Email(v string) zap.Field { return zap.String("email", util.MaskEmail(v)) }

func DiaryID(v int64) zap.Field { return zap.Int64("diary_id", v) }

// TokenID loguea el jti, nunca el token completo.
func TokenID(v string) zap.Field { return zap.String("jti", v) }

func Reason(v string) zap.Field { return zap.String("reason", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - SISTEMA
// =================================================================================

func Component(v string) zap.Field { return zap.String("component", v) }

func Op(v string) zap.Field { return zap.String("op", v) }

// Layer: controller, service, repository, middleware.
func Layer(v string) zap.Field { return zap.String("layer", v) }

func Err(err error) zap.Field { return zap.Error(err) }

func Count(v int) zap.Field { return zap.Int("count", v) }

func Any(key string, v any) zap.Field { return zap.Any(key, v) }

func String(key, v string) zap.Field { return zap.String(key, v) }
