package store

import (
	"context"
	"database/sql"

	"pos-service/internal/models"
)

// GetUserByUsername retrieves a user by username; returns nil when absent
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := s.get(ctx, &user, "SELECT user_id, username, role_name FROM Users WHERE username = ?", username)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserCredentials retrieves user_id and password_hash for a username and
// role; returns nil when no such user exists
func (s *Store) GetUserCredentials(ctx context.Context, username, role string) (*models.User, error) {
	var user models.User
	err := s.get(ctx, &user,
		"SELECT user_id, password_hash FROM Users WHERE username = ? AND role_name = ?", username, role)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserID resolves a username and role to a user id
func (s *Store) GetUserID(ctx context.Context, username, role string) (int64, bool, error) {
	var id int64
	err := s.get(ctx, &id, "SELECT user_id FROM Users WHERE username = ? AND role_name = ?", username, role)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// ListUsers retrieves the user record table
func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.selectAll(ctx, &users, "SELECT user_id, username, role_name FROM Users")
	return users, err
}

type addUserRow struct {
	UserID int64 `db:"user_id"`
}

// CallAddUser invokes the AddUser stored operation and returns the
// generated user id
func (s *Store) CallAddUser(ctx context.Context, username, password, role string) (int64, error) {
	var row addUserRow
	if err := s.callRow(ctx, &row, "CALL AddUser(?, ?, ?)", username, password, role); err != nil {
		return 0, err
	}
	return row.UserID, nil
}

// CallDeleteUser invokes the DeleteUser stored operation
func (s *Store) CallDeleteUser(ctx context.Context, userID int64) error {
	return s.callVoid(ctx, "CALL DeleteUser(?)", userID)
}
