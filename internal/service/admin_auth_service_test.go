package service

import (
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/affinet/awin-gateway/internal/config"
	"github.com/affinet/awin-gateway/internal/utils"
)

func TestAdminLogin(t *testing.T) {
	utils.InitJWT("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	svc := NewAdminAuthService(config.AdminConfig{
		Email:        "admin@example.com",
		PasswordHash: string(hash),
	})

	token, err := svc.Login("admin@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	claims, err := utils.ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT: %v", err)
	}
	if claims.Email != "admin@example.com" {
		t.Errorf("claims email = %q", claims.Email)
	}
}

func TestAdminLoginRejections(t *testing.T) {
	utils.InitJWT("test-secret")

	hash, err := bcrypt.GenerateFromPassword([]byte("correct horse"), bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}

	cases := []struct {
		name     string
		admin    config.AdminConfig
		email    string
		password string
	}{
		{
			name:     "wrong password",
			admin:    config.AdminConfig{Email: "admin@example.com", PasswordHash: string(hash)},
			email:    "admin@example.com",
			password: "battery staple",
		},
		{
			name:     "wrong email",
			admin:    config.AdminConfig{Email: "admin@example.com", PasswordHash: string(hash)},
			email:    "other@example.com",
			password: "correct horse",
		},
		{
			name:     "no admin configured",
			admin:    config.AdminConfig{},
			email:    "admin@example.com",
			password: "correct horse",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := NewAdminAuthService(tc.admin)
			_, err := svc.Login(tc.email, tc.password)
			if !errors.Is(err, utils.ErrInvalidCredentials) {
				t.Fatalf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}
