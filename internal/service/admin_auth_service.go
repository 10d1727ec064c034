package service

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/affinet/awin-gateway/internal/config"
	"github.com/affinet/awin-gateway/internal/utils"
)

// AdminAuthService authenticates the single env-configured admin account
// used to trigger maintenance operations.
type AdminAuthService struct {
	admin config.AdminConfig
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(admin config.AdminConfig) *AdminAuthService {
	return &AdminAuthService{admin: admin}
}

// Login verifies the credentials and issues a JWT.
func (s *AdminAuthService) Login(email, password string) (string, error) {
	if s.admin.Email == "" || s.admin.PasswordHash == "" {
		log.Warn().Msg("admin login attempted but no admin account is configured")
		return "", utils.ErrInvalidCredentials
	}
	if email != s.admin.Email {
		return "", utils.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("admin password verification failed")
		return "", utils.ErrInvalidCredentials
	}

	log.Info().Str("email", email).Msg("admin login successful")
	return utils.GenerateJWT(email)
}
