package domain

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims identifica o operador autenticado que pode registrar vendas
type Claims struct {
	UserEmail string `json:"email"`
	jwt.RegisteredClaims
}
