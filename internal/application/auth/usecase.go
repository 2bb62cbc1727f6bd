// Package auth authenticates the single owner account. There is no
// registration flow; the account is provisioned directly in the database.
package auth

import (
	"context"

	"github.com/faktura-pro/faktura-api/internal/application/dto"
	"github.com/faktura-pro/faktura-api/internal/domain"
	"github.com/faktura-pro/faktura-api/internal/domain/repository"
	"github.com/faktura-pro/faktura-api/pkg/jwt"
	"golang.org/x/crypto/bcrypt"
)

// JWTConfig is the token generation configuration.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

type Usecase struct {
	userRepo repository.UserRepository
	jwtCfg   JWTConfig
}

func NewUsecase(userRepo repository.UserRepository, jwtCfg JWTConfig) *Usecase {
	return &Usecase{userRepo: userRepo, jwtCfg: jwtCfg}
}

// Login verifies email/password and returns a signed bearer token. A missing
// user and a wrong password both map to ErrUnauthorized so the response does
// not reveal which accounts exist.
func (uc *Usecase) Login(ctx context.Context, in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.Email, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, Email: user.Email, Name: user.Name}, nil
}
