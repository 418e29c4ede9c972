package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"optistore/internal/apperr"
	"optistore/internal/model"
	"optistore/internal/repository"
	"optistore/pkg/jwt"
	"optistore/pkg/validator"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrWrongPassword      = errors.New("current password is incorrect")
	ErrSessionReplaced    = errors.New("session expired (logged in on another device)")
)

const minPasswordLength = 8

type SignupRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"full_name" validate:"max=255"`
}

type LoginResponse struct {
	Token   string                `json:"token"`
	Account model.AccountResponse `json:"account"`
}

type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*model.AccountResponse, error)
	Login(ctx context.Context, username, password string) (*LoginResponse, error)
	ValidateToken(ctx context.Context, tokenString string) (*model.Account, error)
	ResetPassword(ctx context.Context, username, oldPassword, newPassword string) error
}

type authService struct {
	accountRepo repository.AccountRepository
}

func NewAuthService(accountRepo repository.AccountRepository) AuthService {
	return &authService{accountRepo: accountRepo}
}

func (s *authService) Signup(ctx context.Context, req *SignupRequest) (*model.AccountResponse, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)
	if err := validator.Check(req); err != nil {
		return nil, err
	}

	account := &model.Account{
		Username: req.Username,
		Email:    req.Email,
		FullName: strings.TrimSpace(req.FullName),
		IsActive: true,
	}
	if err := account.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, apperr.ErrConflict) {
			return nil, apperr.Invalid("username", "unique", "a user with that username already exists")
		}
		return nil, err
	}
	resp := account.ToResponse()
	return &resp, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (*LoginResponse, error) {
	// 1. Find account by username
	account, err := s.accountRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if account is active
	if !account.IsActive {
		return nil, ErrAccountInactive
	}

	// 3. Verify password
	if !account.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}

	// 4. Single session: a new token version invalidates older tokens
	tokenVersion := uuid.New().String()
	if err := s.accountRepo.UpdateTokenVersion(ctx, account.ID, tokenVersion); err != nil {
		return nil, errors.New("failed to update session")
	}
	now := time.Now()
	if err := s.accountRepo.UpdateLastLogin(ctx, account.ID, now); err != nil {
		return nil, errors.New("failed to update session")
	}
	account.TokenVersion = tokenVersion
	account.LastLoginAt = &now

	// 5. Generate JWT token
	token, err := jwt.GenerateToken(account.ID, account.Username, tokenVersion)
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	return &LoginResponse{Token: token, Account: account.ToResponse()}, nil
}

// ValidateToken checks the signature and that the token belongs to the
// account's current session.
func (s *authService) ValidateToken(ctx context.Context, tokenString string) (*model.Account, error) {
	claims, err := jwt.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindByID(ctx, claims.AccountID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	if account.TokenVersion != claims.TokenVersion {
		return nil, ErrSessionReplaced
	}
	return account, nil
}

func (s *authService) ResetPassword(ctx context.Context, username, oldPassword, newPassword string) error {
	account, err := s.accountRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return err
	}
	if !account.CheckPassword(oldPassword) {
		return ErrWrongPassword
	}
	if len(newPassword) < minPasswordLength {
		return apperr.Invalid("new_password", "min", "must be at least 8 characters")
	}
	if err := account.SetPassword(newPassword); err != nil {
		return errors.New("failed to hash new password")
	}
	if err := s.accountRepo.UpdatePassword(ctx, account.ID, account.Password); err != nil {
		return err
	}
	// Existing sessions end with the old password
	return s.accountRepo.UpdateTokenVersion(ctx, account.ID, uuid.New().String())
}
