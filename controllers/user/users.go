package usercontroller

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/junaidrashid-git/eshop-api/auth"
	"github.com/junaidrashid-git/eshop-api/models"
	"github.com/junaidrashid-git/eshop-api/respond"
	"github.com/junaidrashid-git/eshop-api/store"
)

// CreateUserInput is the body of register and of admin user creation.
type CreateUserInput struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6,max=72"`
	Phone     string `json:"phone"`
	IsAdmin   bool   `json:"isAdmin"`
	Street    string `json:"street"`
	Apartment string `json:"apartment"`
	Zip       string `json:"zip"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// UpdateUserInput only touches the fields that are present.
type UpdateUserInput struct {
	Name      *string `json:"name"`
	Email     *string `json:"email" binding:"omitempty,email"`
	Password  *string `json:"password" binding:"omitempty,min=6,max=72"`
	Phone     *string `json:"phone"`
	IsAdmin   *bool   `json:"isAdmin"`
	Street    *string `json:"street"`
	Apartment *string `json:"apartment"`
	Zip       *string `json:"zip"`
	City      *string `json:"city"`
	Country   *string `json:"country"`
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// newUser builds the record for a create request. allowAdmin is false on
// the public register path.
func newUser(in CreateUserInput, allowAdmin bool) (*models.User, error) {
	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	return &models.User{
		Name:         in.Name,
		Email:        normalizeEmail(in.Email),
		PasswordHash: hash,
		Phone:        in.Phone,
		IsAdmin:      allowAdmin && in.IsAdmin,
		Street:       in.Street,
		Apartment:    in.Apartment,
		Zip:          in.Zip,
		City:         in.City,
		Country:      in.Country,
	}, nil
}

func createUser(s store.Users, allowAdmin bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var input CreateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		user, err := newUser(input, allowAdmin)
		if err != nil {
			passwordError(c, err, "the user cannot be created!")
			return
		}
		if err := s.CreateUser(c.Request.Context(), user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respond.Error(c, http.StatusConflict, "email is already registered")
				return
			}
			respond.StoreError(c, err, "the user cannot be created!")
			return
		}
		c.JSON(http.StatusCreated, user)
	}
}

// Register is the public sign-up. It never grants admin rights.
func Register(s store.Users) gin.HandlerFunc {
	return createUser(s, false)
}

// CreateUser is the authenticated variant that may create admins.
func CreateUser(s store.Users) gin.HandlerFunc {
	return createUser(s, true)
}

func GetAllUsers(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := s.ListUsers(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "Failed to fetch users")
			return
		}
		c.JSON(http.StatusOK, users)
	}
}

func GetUser(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, err := s.GetUser(c.Request.Context(), c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "The user with the given ID was not found.")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// GetCurrentUser returns the account the request's token belongs to.
func GetCurrentUser(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		user, err := s.GetUser(c.Request.Context(), claims.UserID)
		if err != nil {
			respond.StoreError(c, err, "User not found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateUser applies a partial update. Admins may update any account and
// change admin rights; everyone else only their own account, without
// touching isAdmin.
func UpdateUser(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		claims, ok := auth.ClaimsFrom(c)
		if !ok {
			respond.Error(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !claims.IsAdmin && claims.UserID != c.Param("id") {
			respond.Error(c, http.StatusForbidden, "You can only update your own account")
			return
		}

		user, err := s.GetUser(ctx, c.Param("id"))
		if err != nil {
			respond.StoreError(c, err, "User not found")
			return
		}

		var input UpdateUserInput
		if err := c.ShouldBindJSON(&input); err != nil {
			respond.Error(c, http.StatusBadRequest, err.Error())
			return
		}

		if input.Password != nil {
			hash, err := auth.HashPassword(*input.Password)
			if err != nil {
				passwordError(c, err, "the user cannot be updated!")
				return
			}
			user.PasswordHash = hash
		}
		if input.Email != nil {
			user.Email = normalizeEmail(*input.Email)
		}
		setString(&user.Name, input.Name)
		setString(&user.Phone, input.Phone)
		setString(&user.Street, input.Street)
		setString(&user.Apartment, input.Apartment)
		setString(&user.Zip, input.Zip)
		setString(&user.City, input.City)
		setString(&user.Country, input.Country)
		if input.IsAdmin != nil && *input.IsAdmin != user.IsAdmin {
			if !claims.IsAdmin {
				respond.Error(c, http.StatusForbidden, "Admin access required")
				return
			}
			user.IsAdmin = *input.IsAdmin
		}

		if err := s.UpdateUser(ctx, user); err != nil {
			if errors.Is(err, store.ErrConflict) {
				respond.Error(c, http.StatusConflict, "email is already registered")
				return
			}
			respond.StoreError(c, err, "User not found")
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

func passwordError(c *gin.Context, err error, msg string) {
	if errors.Is(err, auth.ErrPasswordTooLong) {
		respond.Error(c, http.StatusBadRequest, "password must be at most 72 bytes")
		return
	}
	slog.Error("failed to hash password", "error", err)
	respond.Error(c, http.StatusInternalServerError, msg)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func DeleteUser(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := s.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
			respond.StoreError(c, err, "user not found!")
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "the user is deleted!"})
	}
}

func GetUserCount(s store.Users) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := s.CountUsers(c.Request.Context())
		if err != nil {
			respond.StoreError(c, err, "Failed to count users")
			return
		}
		c.JSON(http.StatusOK, gin.H{"userCount": count})
	}
}
