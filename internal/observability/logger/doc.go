// Package logger provee el logger Zap del proceso con scoping por contexto.
//
// Inicialización (una vez en cmd):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En controllers/services:
//
//	log := logger.From(ctx).With(logger.Layer("service"), logger.Op("LoginService.Login"))
//	log.Info("login ok", logger.UserID(u.ID))
//
// Nunca loguear passwords en texto plano ni tokens completos.
package logger
