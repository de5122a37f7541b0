package models

import (
	"context"
	"fmt"
	"strings"

	"github.com/supabase-community/gotrue-go/types"
)

// UserRepo is the identity-provider boundary. The booking engine never talks
// to it directly; it only trusts the user id the middleware extracts from a
// validated token.
type UserRepo interface {
	CreateUser(ctx context.Context, user *User) (interface{}, error)
	AuthenticateUser(ctx context.Context, email, password string) (interface{}, error)
	RefreshToken(ctx context.Context, refreshToken string) (interface{}, error)
}

func (su *SupabaseRepo) CreateUser(ctx context.Context, user *User) (interface{}, error) {
	signed := types.SignupRequest{
		Email:    user.Email,
		Password: user.Password,
	}

	res, err := su.supabaseClient.Auth.Signup(signed)
	if err != nil {
		errMsg := err.Error()
		if strings.Contains(errMsg, "User already Registered") ||
			strings.Contains(errMsg, "unique constraint") {
			return nil, fmt.Errorf("email already in use")
		}
		if strings.Contains(errMsg, "invalid input syntax") {
			return nil, fmt.Errorf("invalid input format")
		}
		return nil, fmt.Errorf("failed to create user")
	}
	return res, nil
}

func (su *SupabaseRepo) AuthenticateUser(ctx context.Context, email, password string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.SignInWithEmailPassword(email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to authenticate user: %v", err)
	}
	return resp, nil
}

func (su *SupabaseRepo) RefreshToken(ctx context.Context, refreshToken string) (interface{}, error) {
	resp, err := su.supabaseClient.Auth.RefreshToken(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh token: %v", err)
	}
	return resp, nil
}
