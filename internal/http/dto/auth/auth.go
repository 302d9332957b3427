// Package auth define los cuerpos de request/response de /users y /token.
package auth

// RegisterRequest es el body de POST /users/register/
type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
}

// LoginRequest es el body de POST /users/login/
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest lo usan logout, delete y refresh.
type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

// ProfileUpdateRequest es un PATCH parcial: los campos ausentes no cambian.
type ProfileUpdateRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

type LoginResponse struct {
	Message string    `json:"message"`
	Tokens  TokenPair `json:"tokens"`
}

type RefreshResponse struct {
	Access string `json:"access"`
}

// UserResponse es la vista pública del perfil. date_joined: "DD-MM-YYYY HH:MM".
type UserResponse struct {
	ID         string `json:"id"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	DateJoined string `json:"date_joined"`
}

type ProfileResponse struct {
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}
