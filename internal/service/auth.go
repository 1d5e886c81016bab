package service

import (
	"context"
	"errors"
	"time"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
	"kuzeybank-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo repository.UserRepository
	logRepo  repository.SecurityLogRepository
	tokens   security.TokenManager
}

func NewAuthService(userRepo repository.UserRepository, logRepo repository.SecurityLogRepository, tokens security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		logRepo:  logRepo,
		tokens:   tokens,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, string, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// Same sentinel as a wrong password so login failures do not
			// reveal which usernames exist.
			s.log(ctx, nil, "LOGIN_FAILED", "unknown username: "+username)
			return nil, "", domain.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.log(ctx, &user.ID, "LOGIN_FAILED", "wrong password for "+username)
		return nil, "", domain.ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Username, user.Role)
	if err != nil {
		return nil, "", err
	}

	s.log(ctx, &user.ID, "LOGIN_SUCCESS", "user "+username+" logged in")
	return user, token, nil
}

func (s *authService) log(ctx context.Context, userID *int32, action, details string) {
	_ = s.logRepo.Create(ctx, &domain.SecurityLog{
		UserID:    userID,
		Action:    action,
		Details:   details,
		Timestamp: time.Now().UTC(),
	})
}
