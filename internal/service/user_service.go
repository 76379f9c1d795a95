package service

import (
	"context"
	"fmt"

	"pos-service/internal/models"
	"pos-service/internal/store"
	"pos-service/internal/util"

	"go.uber.org/zap"
)

// Registration outcomes returned to the client.
const (
	MsgUserRegistered = "User registered successfully"
	MsgUserExists     = "User already exists"
)

// UserService covers account endpoints
type UserService struct {
	store  *store.Store
	logger *zap.Logger
}

// NewUserService creates a new user service
func NewUserService(st *store.Store) *UserService {
	return &UserService{store: st, logger: util.GetLogger()}
}

// Register creates an account unless the username is taken
func (us *UserService) Register(ctx context.Context, username, password, role string) (string, error) {
	existing, err := us.store.GetUserByUsername(ctx, username)
	if err != nil {
		return "", fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		us.logger.Info("Registration rejected, user exists",
			zap.String("username", username),
			zap.Int64("user_id", existing.ID))
		return MsgUserExists, nil
	}

	userID, err := us.store.CallAddUser(ctx, username, password, role)
	if err != nil {
		return "", fmt.Errorf("failed to add user: %w", err)
	}
	if userID == 0 {
		return "", fmt.Errorf("add user returned no user id")
	}

	us.logger.Info("User registered",
		zap.String("username", username),
		zap.String("role", role),
		zap.Int64("user_id", userID))
	return MsgUserRegistered, nil
}

// Login returns the stored credentials for a username and role; nil when
// no such user exists
func (us *UserService) Login(ctx context.Context, username, role string) (*models.User, error) {
	return us.store.GetUserCredentials(ctx, username, role)
}

// LookupUserID resolves a username and role to a user id
func (us *UserService) LookupUserID(ctx context.Context, username, role string) (int64, bool, error) {
	return us.store.GetUserID(ctx, username, role)
}

// ListUsers returns the user record table
func (us *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	return us.store.ListUsers(ctx)
}

// RemoveUser deletes an account
func (us *UserService) RemoveUser(ctx context.Context, userID int64) error {
	if err := us.store.CallDeleteUser(ctx, userID); err != nil {
		return fmt.Errorf("failed to remove user %d: %w", userID, err)
	}
	us.logger.Info("User removed", zap.Int64("user_id", userID))
	return nil
}
