// Package service contains the business logic layer: validation, ownership
// rules and orchestration, free of HTTP concerns. Handlers call services,
// services call repositories.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/plantyard/api/internal/apperror"
	"github.com/plantyard/api/internal/auth"
	"github.com/plantyard/api/internal/model"
	"github.com/plantyard/api/internal/repository"
)

// inviteCodeLength and inviteCodeCharset define the invite code format:
// 6 uppercase alphanumeric characters.
const (
	inviteCodeLength  = 6
	inviteCodeCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// AuthService handles authentication, registration and account management.
type AuthService struct {
	users     repository.UserRepository
	invites   repository.InviteRepository
	groups    repository.GroupRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

func NewAuthService(
	users repository.UserRepository,
	invites repository.InviteRepository,
	groups repository.GroupRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		invites:   invites,
		groups:    groups,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// TokenPair bundles the two tokens issued on login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Login verifies the credentials and issues an access/refresh token pair.
// An unknown username and a wrong password produce the identical error, so
// a caller can't probe which usernames exist.
func (s *AuthService) Login(ctx context.Context, username, password string) (*TokenPair, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, apperror.ValidationFailed("username", "Incorrect username or password")
	}

	if !s.passwords.Verify(password, user.HashedPassword) {
		return nil, apperror.ValidationFailed("password", "Incorrect username or password")
	}

	id := auth.Identity{UserID: user.ID, Username: user.Username}

	access, err := s.tokens.IssueAccess(id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing access token for %q: %w", username, err)
	}
	refresh, err := s.tokens.IssueRefresh(id)
	if err != nil {
		return nil, fmt.Errorf("service/auth: issuing refresh token for %q: %w", username, err)
	}

	s.logger.Info("user logged in", slog.Int64("userID", user.ID), slog.String("username", user.Username))

	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh verifies a refresh token and mints a new access token for the
// same identity. A token signed with the access key fails here.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	return s.tokens.RefreshAccess(refreshToken)
}

// Register creates a new account. The username must be unregistered and the
// supplied invite code must exactly match the one stored for that username.
// Every new user gets a default group.
func (s *AuthService) Register(ctx context.Context, username, inviteCode, password string) (*model.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}
	if password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("Username already registered")
	}

	invite, err := s.invites.GetByUsername(ctx, username)
	if err != nil || invite.Code != inviteCode {
		return nil, apperror.ValidationFailed("invite_code", "Invalid invite code")
	}

	hashed, err := s.passwords.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("service/auth: hashing password: %w", err)
	}

	user := &model.User{
		Username:       username,
		HashedPassword: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("service/auth: creating user %q: %w", username, err)
	}

	// Every account starts with its default group, the fallback bucket
	// for ungrouped plants.
	group := &model.UserGroup{UserID: user.ID, IsDefault: true}
	if err := s.groups.Create(ctx, group); err != nil {
		return nil, fmt.Errorf("service/auth: creating default group for user %d: %w", user.ID, err)
	}

	s.logger.Info("user registered",
		slog.Int64("userID", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// ChangePassword verifies the old password and stores a hash of the new
// one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, oldPassword, newPassword string) error {
	if newPassword == "" {
		return apperror.ValidationFailed("newPassword", "new password is required")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if !s.passwords.Verify(oldPassword, user.HashedPassword) {
		return apperror.ValidationFailed("oldPassword", "Old password is incorrect")
	}

	hashed, err := s.passwords.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("service/auth: hashing new password: %w", err)
	}

	affected, err := s.users.UpdatePassword(ctx, userID, hashed)
	if err != nil {
		return fmt.Errorf("service/auth: updating password for user %d: %w", userID, err)
	}
	if affected == 0 {
		// The user row vanished between the read and the write.
		return apperror.OperationFailed()
	}

	s.logger.Info("password changed", slog.Int64("userID", userID))
	return nil
}

// Invite issues a registration code for a username. A username can hold at
// most one code; re-inviting fails.
func (s *AuthService) Invite(ctx context.Context, username string) (*model.InviteCode, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, apperror.ValidationFailed("username", "username is required")
	}

	if _, err := s.invites.GetByUsername(ctx, username); err == nil {
		return nil, apperror.Conflict("User already invited")
	}

	code, err := generateInviteCode()
	if err != nil {
		return nil, fmt.Errorf("service/auth: generating invite code: %w", err)
	}

	invite := &model.InviteCode{Username: username, Code: code}
	if err := s.invites.Create(ctx, invite); err != nil {
		return nil, fmt.Errorf("service/auth: storing invite for %q: %w", username, err)
	}

	s.logger.Info("invite issued", slog.String("username", username))
	return invite, nil
}

// ListInvites returns every issued invite code, including redeemed ones;
// invites carry no consumption marker.
func (s *AuthService) ListInvites(ctx context.Context) ([]model.InviteCode, error) {
	invites, err := s.invites.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing invites: %w", err)
	}
	return invites, nil
}

// GetUser returns the user with the given id.
func (s *AuthService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.users.GetByID(ctx, id)
}

// ListUsers returns registered users with pagination.
func (s *AuthService) ListUsers(ctx context.Context, limit, offset int) ([]model.User, error) {
	users, err := s.users.List(ctx, repository.ListOptions{Limit: limit, Offset: offset})
	if err != nil {
		return nil, fmt.Errorf("service/auth: listing users: %w", err)
	}
	return users, nil
}

func generateInviteCode() (string, error) {
	code := make([]byte, inviteCodeLength)
	max := big.NewInt(int64(len(inviteCodeCharset)))
	for i := range code {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = inviteCodeCharset[n.Int64()]
	}
	return string(code), nil
}
