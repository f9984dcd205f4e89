package usercontroller

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
)

type LoginInput struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

const badCredentials = "Invalid email or password"

// Login checks the password and hands back a signed token.
func Login(s store.Users, tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input LoginInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		user, err := s.GetUserByEmail(c.Request.Context(), normalizeEmail(input.Email))
		if errors.Is(err, store.ErrNotFound) {
			respond.Error(c, http.StatusUnauthorized, badCredentials)
			return
		}
		if err != nil {
			respond.StoreError(c, err, badCredentials)
			return
		}

		if err := auth.CheckPassword(user.PasswordHash, input.Password); err != nil {
			respond.Error(c, http.StatusUnauthorized, badCredentials)
			return
		}

		token, err := tokens.Issue(user)
		if err != nil {
			slog.Error("failed to issue token", "user", user.ID, "error", err)
			respond.Error(c, http.StatusInternalServerError, "Failed to generate token")
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": user, "token": token})
	}
}
