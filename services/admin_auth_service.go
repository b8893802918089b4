package services

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
)

const adminTokenTTL = 24 * time.Hour

// AdminAuthService issues and verifies the possession credential that
// gates administrative endpoints. Login produces a signed, expiring
// token; verification also accepts the raw configured secret presented
// directly, which keeps a break-glass path for scripts.
type AdminAuthService interface {
	// Login checks the password against the configured secret and
	// returns a signed token plus its expiry.
	Login(password string) (string, time.Time, error)
	VerifyToken(token string) error
	// VerifySecret checks a directly presented raw secret.
	VerifySecret(secret string) error
}

// AdminAuthConfig carries the configured admin credential. Either the
// plaintext secret or its bcrypt hash may be set; when both are empty
// the service reports ErrAuthNotConfigured on every call and the
// process keeps serving everything else.
type AdminAuthConfig struct {
	Secret     string
	SecretHash string
}

type adminAuthService struct {
	secret     string
	secretHash string
	signingKey []byte
}

func NewAdminAuthService(cfg AdminAuthConfig) AdminAuthService {
	key := cfg.Secret
	if key == "" {
		key = cfg.SecretHash
	}
	return &adminAuthService{
		secret:     cfg.Secret,
		secretHash: cfg.SecretHash,
		signingKey: []byte(key),
	}
}

func (s *adminAuthService) configured() bool {
	return s.secret != "" || s.secretHash != ""
}

func (s *adminAuthService) Login(password string) (string, time.Time, error) {
	if !s.configured() {
		return "", time.Time{}, ErrAuthNotConfigured
	}
	if err := s.VerifySecret(password); err != nil {
		return "", time.Time{}, err
	}

	now := time.Now()
	expiresAt := now.Add(adminTokenTTL)
	claims := jwt.MapClaims{
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign admin token: %w", err)
	}
	return signed, expiresAt, nil
}

func (s *adminAuthService) VerifyToken(tokenString string) error {
	if !s.configured() {
		return ErrAuthNotConfigured
	}

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.signingKey, nil
	})
	if err != nil || !token.Valid {
		return ErrInvalidAdminToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || claims["role"] != "admin" {
		return ErrInvalidAdminToken
	}
	return nil
}

func (s *adminAuthService) VerifySecret(secret string) error {
	if !s.configured() {
		return ErrAuthNotConfigured
	}
	if secret == "" {
		return ErrInvalidAdminPassword
	}

	if s.secretHash != "" {
		err := bcrypt.CompareHashAndPassword([]byte(s.secretHash), []byte(secret))
		if err != nil {
			if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
				return ErrInvalidAdminPassword
			}
			return fmt.Errorf("failed to compare admin password hash: %w", err)
		}
		return nil
	}

	if subtle.ConstantTimeCompare([]byte(s.secret), []byte(secret)) != 1 {
		return ErrInvalidAdminPassword
	}
	return nil
}
