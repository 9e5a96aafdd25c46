package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"picklist/internal/common"
	"picklist/internal/common/security"
	"picklist/internal/domain/model"
	"picklist/internal/domain/repository"

	"github.com/google/uuid"
)

// AuthService orchestrates the session lifecycle: login binds a username to
// a user record (creating one on first sight) and issues a token; logout
// clears the user's selections and invalidates the token.
//
// This is identity binding, not authentication in any security sense: any
// username is accepted and no credential is ever checked.
type AuthService struct {
	userRepo      repository.UserRepository
	selectionRepo repository.SelectionRepository
	blacklist     repository.TokenBlacklist
}

func NewAuthService(userRepo repository.UserRepository, selectionRepo repository.SelectionRepository, blacklist repository.TokenBlacklist) *AuthService {
	return &AuthService{
		userRepo:      userRepo,
		selectionRepo: selectionRepo,
		blacklist:     blacklist,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LoginResponse struct {
	Token    string `json:"token"`
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

type LogoutResult struct {
	Message string `json:"message"`
	// Warning is set when the token could not be invalidated; the logout
	// still succeeded (selections are already cleared).
	Warning string `json:"warning,omitempty"`
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if req.Username == "" {
		return nil, fmt.Errorf("username is required: %w", common.ErrValidation)
	}

	email := req.Email
	if email == "" {
		email = req.Username
	}

	// The stored hash is a placeholder over a random value; it is never
	// compared against anything.
	hashedPassword, err := security.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to hash placeholder password: %w", err)
	}

	user, err := s.userRepo.GetOrCreate(ctx, &model.User{
		ID:             uuid.NewString(),
		Username:       req.Username,
		Email:          email,
		HashedPassword: hashedPassword,
		Active:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get or create user: %w", err)
	}

	// Every login is a fresh session: stale selections from a previous
	// session never carry over.
	if err := s.selectionRepo.Clear(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear selections on login: %w", err)
	}

	token, err := security.GenerateToken(user.ID, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	return &LoginResponse{
		Token:    token,
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}, nil
}

// Logout is a two-phase operation: clearing the user's selections must
// succeed; invalidating the token is best-effort and its failure is
// reported in the result's Warning field rather than as an error.
func (s *AuthService) Logout(ctx context.Context, rawToken string) (*LogoutResult, error) {
	userID, jti, expiry, err := security.VerifyRawToken(rawToken)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token: %w", common.ErrUnauthorized)
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve token owner: %w", common.ErrUnauthorized)
	}

	if err := s.selectionRepo.Clear(ctx, user.ID); err != nil {
		return nil, fmt.Errorf("failed to clear selections on logout: %w", err)
	}

	result := &LogoutResult{Message: "Successfully logged out"}
	if ttl := time.Until(expiry); ttl > 0 {
		if err := s.blacklist.Invalidate(ctx, jti, ttl); err != nil {
			log.Printf("WARN: failed to invalidate token %s for user %s: %v", jti, user.ID, err)
			result.Warning = "session token could not be invalidated"
		}
	}
	return result, nil
}
