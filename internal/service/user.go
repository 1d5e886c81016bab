package service

import (
	"context"

	"kuzeybank-backend/internal/domain"
	"kuzeybank-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, fullName, email, phone, address string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if fullName != "" {
		user.FullName = fullName
	}
	if email != "" {
		user.Email = email
	}
	if phone != "" {
		user.PhoneNumber = phone
	}
	if address != "" {
		user.Address = address
	}
	return s.userRepo.Update(ctx, user)
}
