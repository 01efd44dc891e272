package service

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"cms-backend/internal/domains/user"
	"cms-backend/pkg/jwt"
	"cms-backend/pkg/logger"
)

type authService struct {
	repo       user.Repository
	jwtManager *jwt.Manager
}

// NewAuthService wires credential verification and token issuance.
func NewAuthService(repo user.Repository, jwtManager *jwt.Manager) user.Service {
	return &authService{repo: repo, jwtManager: jwtManager}
}

func (s *authService) Login(ctx context.Context, req user.LoginRequest) (*user.LoginResponse, error) {
	u, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, user.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, user.ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateToken(u.ID.String(), u.Username, u.Role)
	if err != nil {
		logger.Error("token generation failed", err)
		return nil, err
	}

	return &user.LoginResponse{
		Token: token,
		User: user.PublicUser{
			ID:       u.ID,
			Username: u.Username,
			Role:     u.Role,
		},
	}, nil
}
