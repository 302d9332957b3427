// Package auth contiene los controllers de /users y /token.
package auth

import svc "github.com/dropDatabas3/hellodiary/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Logout   *LogoutController
	Delete   *DeleteController
	Profile  *ProfileController
	Refresh  *RefreshController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Logout:   NewLogoutController(s.Logout),
		Delete:   NewDeleteController(s.Delete),
		Profile:  NewProfileController(s.Profile),
		Refresh:  NewRefreshController(s.Refresh),
	}
}
