package auth

import (
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
)

// Deps agrupa las dependencias compartidas de los servicios de cuenta.
type Deps struct {
	Users  repository.UserRepository
	Tokens Tokens
	Hash   password.Params
	Policy password.Policy
}

// Services agrupa todos los servicios del dominio auth.
type Services struct {
	Register RegisterService
	Login    LoginService
	Logout   LogoutService
	Delete   DeleteService
	Profile  ProfileService
	Refresh  RefreshService
}

// NewServices crea el agregador de servicios auth.
func NewServices(d Deps) Services {
	return Services{
		Register: NewRegisterService(d),
		Login:    NewLoginService(d),
		Logout:   NewLogoutService(d),
		Delete:   NewDeleteService(d),
		Profile:  NewProfileService(d),
		Refresh:  NewRefreshService(d),
	}
}
