package authenticating

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vfg2006/sales-dashboard-api/internal/config"
	"github.com/vfg2006/sales-dashboard-api/internal/domain"
	"github.com/vfg2006/sales-dashboard-api/pkg/apiErrors"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

type Authenticator interface {
	Enabled() bool
	LoginUser(email, password string) (string, error)
	ValidateToken(tokenString string) (*domain.Claims, error)
}

// Service autentica o único operador configurado, que pode registrar vendas
type Service struct {
	cfg config.Auth
	now func() time.Time
}

func NewService(cfg config.Auth) *Service {
	return &Service{
		cfg: cfg,
		now: time.Now,
	}
}

func (s *Service) Enabled() bool {
	return s.cfg.Enabled
}

func handleEmail(s string) string {
	email := strings.ToLower(s)
	email = strings.TrimSpace(email)
	email = strings.ReplaceAll(email, " ", "")
	return email
}

func (s *Service) LoginUser(email, password string) (string, error) {
	if !s.cfg.Enabled {
		return "", NewAuthError(ErrAuthDisabled, apiErrors.ErrAuthDisabled, "")
	}

	// Validação de entrada
	if email == "" || password == "" {
		return "", NewAuthError(ErrMissingRequiredData, apiErrors.ErrMissingRequiredData, "Email e senha são obrigatórios")
	}

	if handleEmail(email) != handleEmail(s.cfg.AdminEmail) {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Email ou senha inválidos")
	}

	// Verificar senha
	if err := bcrypt.CompareHashAndPassword([]byte(s.cfg.AdminPasswordHash), []byte(password)); err != nil {
		return "", NewAuthError(ErrInvalidCredentials, apiErrors.ErrInvalidCredentials, "Email ou senha inválidos")
	}

	token, err := s.generateJWT(handleEmail(email))
	if err != nil {
		return "", NewAuthError(err, apiErrors.ErrInternalServer, "Erro ao gerar token de autenticação")
	}

	return token, nil
}

func (s *Service) generateJWT(email string) (string, error) {
	ttl := time.Duration(s.cfg.TokenTTLHours) * time.Hour
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}

	now := s.now()
	claims := domain.Claims{
		UserEmail: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.Secret))
}

func (s *Service) ValidateToken(tokenString string) (*domain.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &domain.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.cfg.Secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, NewAuthError(ErrExpiredToken, apiErrors.ErrExpiredToken, "")
		}
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, err.Error())
	}

	claims, ok := token.Claims.(*domain.Claims)
	if !ok || !token.Valid {
		return nil, NewAuthError(ErrInvalidToken, apiErrors.ErrInvalidToken, "")
	}

	if handleEmail(claims.UserEmail) != handleEmail(s.cfg.AdminEmail) {
		return nil, NewAuthError(ErrInsufficientPrivilege, apiErrors.ErrInsufficientPrivilege, "")
	}

	return claims, nil
}
