package service

import (
	"context"
	"time"

	"gradehub/internal/auth"
	"gradehub/internal/errs"
	"gradehub/internal/models"
)

type AuthService struct {
	users  UserStore
	issuer *auth.Issuer
}

func NewAuthService(users UserStore, issuer *auth.Issuer) *AuthService {
	return &AuthService{users: users, issuer: issuer}
}

// Register creates a user. Only an explicit "admin" role request is
// honored; anything else becomes a student.
func (s *AuthService) Register(ctx context.Context, name, email, password, role string) (*models.User, error) {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, errs.New(errs.Conflict, "user with this email already exists")
	}

	if role != models.RoleAdmin {
		role = models.RoleStudent
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
	// The unique email index backs the existence check against races.
	id, err := s.users.Create(ctx, user)
	if err != nil {
		if errs.KindOf(err) == errs.Conflict {
			return nil, errs.New(errs.Conflict, "user with this email already exists")
		}
		return nil, err
	}
	user.ID = id
	return user, nil
}

// Login verifies credentials and issues a token pair. Unknown email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *auth.TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || !auth.CheckPassword(password, user.PasswordHash) {
		return nil, nil, errs.New(errs.Unauthorized, "invalid email or password")
	}
	tokens, err := s.issuer.IssuePair(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a fresh pair. A token whose
// user no longer exists fails like any other invalid token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.issuer.VerifyRefresh(refreshToken)
	if err != nil {
		return nil, errs.New(errs.Unauthorized, "invalid or expired token")
	}
	user, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.New(errs.Unauthorized, "invalid or expired token")
	}
	return s.issuer.IssuePair(user.ID, user.Email, user.Role)
}

func (s *AuthService) Me(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errs.New(errs.NotFound, "user not found")
	}
	return user, nil
}

// SeedAdmin creates the bootstrap admin account unless the email is taken.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil || existing != nil {
		return err
	}
	_, err = s.Register(ctx, "Admin", email, password, models.RoleAdmin)
	return err
}
