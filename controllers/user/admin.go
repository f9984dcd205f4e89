package usercontroller

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/store"
)

// EnsureAdmin makes sure the account behind email exists and is an admin.
// A missing account is created with password; an existing one is promoted
// and keeps its password.
func EnsureAdmin(ctx context.Context, s store.Users, name, email, password string) (*models.User, error) {
	email = normalizeEmail(email)
	user, err := s.GetUserByEmail(ctx, email)
	switch {
	case err == nil:
		if user.IsAdmin {
			return user, nil
		}
		user.IsAdmin = true
		if err := s.UpdateUser(ctx, user); err != nil {
			return nil, fmt.Errorf("promote admin %s: %w", email, err)
		}
		return user, nil
	case !errors.Is(err, store.ErrNotFound):
		return nil, fmt.Errorf("look up admin %s: %w", email, err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	user = &models.User{Name: name, Email: email, PasswordHash: hash, IsAdmin: true}
	if err := s.CreateUser(ctx, user); err != nil {
		return nil, fmt.Errorf("create admin %s: %w", email, err)
	}
	return user, nil
}
