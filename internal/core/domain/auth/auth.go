package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

const TokenTypeBearer = "bearer"

// LoginRequest carries credentials. Form logins send the email as "username".
type LoginRequest struct {
	Email    string `json:"email" form:"username" validate:"required"`
	Password string `json:"password" form:"password" validate:"required"`
}

// Token is the login response
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Claims are the access token claims. Subject holds the user's email.
type Claims struct {
	jwt.RegisteredClaims
}
