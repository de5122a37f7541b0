package services

import (
	"context"
	"fmt"

	"github.com/nestbay/api/internal/helpers"
	"github.com/nestbay/api/internal/models"
)

type UserService struct {
	userRepo models.UserRepo
}

func NewUserService(userRepo models.UserRepo) *UserService {
	return &UserService{
		userRepo: userRepo,
	}
}

func (us *UserService) CreateUser(user *models.User) (interface{}, error) {
	if err := models.Validate.Struct(user); err != nil {
		return nil, err
	}

	if !helpers.IsPasswordStrong(user.Password) {
		return nil, fmt.Errorf("password is not strong enough")
	}

	return us.userRepo.CreateUser(context.Background(), user)
}

func (us *UserService) AuthenticateUser(email, password string) (interface{}, error) {
	if err := models.Validate.Var(email, "required,email"); err != nil {
		return nil, fmt.Errorf("invalid email format: %v", err)
	}
	if err := models.Validate.Var(password, "required,min=8"); err != nil {
		return nil, fmt.Errorf("invalid password format: %v", err)
	}

	response, err := us.userRepo.AuthenticateUser(context.Background(), email, password)
	if err != nil {
		return nil, fmt.Errorf("authentication failed: %v", err)
	}
	return response, nil
}

func (us *UserService) RefreshToken(refreshToken string) (interface{}, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("refresh token is required")
	}
	response, err := us.userRepo.RefreshToken(context.Background(), refreshToken)
	if err != nil {
		return nil, fmt.Errorf("token refresh failed: %v", err)
	}
	return response, nil
}
