package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"techsetu-website-api/models"
)

// UserRecord is an auth row including the password hash; it never leaves the
// auth service.
type UserRecord struct {
	Username     string
	Email        string
	Name         string
	PasswordHash string
	IsActive     bool
}

func (c *Connection) GetUserByUsername(username string) (*UserRecord, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var user UserRecord
	err := c.db.QueryRowContext(ctx, `
		SELECT username, email, name, password_hash, is_active
		FROM users
		WHERE username = ? OR email = ?
	`, username, username).Scan(&user.Username, &user.Email, &user.Name,
		&user.PasswordHash, &user.IsActive)

	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("user not found: %s", username)
	}
	if err != nil {
		return nil, fmt.Errorf("error querying user: %v", err)
	}

	return &user, nil
}

func (u *UserRecord) AuthUser() models.AuthUser {
	return models.AuthUser{
		Username: u.Username,
		Email:    u.Email,
		Name:     u.Name,
		IsActive: u.IsActive,
	}
}
