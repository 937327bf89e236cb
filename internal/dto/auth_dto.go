package dto

import (
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AuthUserResponse struct {
	Id       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Credits  int       `json:"credits"`
}

// SessionResult carries the freshly minted token back to the controller.
type SessionResult struct {
	User      AuthUserResponse
	Token     string
	ExpiresAt time.Time
}

// SessionResponse is the login body. The token rides in the cookie too, the
// body copy is for clients that cannot read cross-site cookies.
type SessionResponse struct {
	User         AuthUserResponse `json:"user"`
	SessionToken string           `json:"session_token"`
	ExpiresAt    time.Time        `json:"expires_at"`
}

type OAuthLoginResponse struct {
	AuthURL string `json:"auth_url"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}
