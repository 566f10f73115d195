package controllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/zaqqye/authorsite_backend/internal/database"
	"github.com/zaqqye/authorsite_backend/internal/middleware"
	"github.com/zaqqye/authorsite_backend/internal/models"
	"github.com/zaqqye/authorsite_backend/internal/response"
	"github.com/zaqqye/authorsite_backend/internal/utils"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

// AuthController issues tokens. DB must be the elevated handle: admin_users
// is not readable with the standard key.
type AuthController struct {
	DB        *gorm.DB
	Auth      middleware.AuthConfig
	ExpiresIn time.Duration
	Events    *ws.Hub
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *loginRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required),
	)
}

type registerRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

func (r *registerRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Email, validation.Required, is.EmailFormat),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&r.Name, validation.Length(0, 128)),
		validation.Field(&r.Role, validation.In(RoleNames()...)),
	)
}

func (a *AuthController) Login(c *gin.Context) {
	var req loginRequest
	if !bindJSON(c, &req, "Email and password are required") {
		return
	}

	var user models.AdminUser
	err := a.DB.WithContext(c.Request.Context()).
		Where("email = ?", strings.ToLower(strings.TrimSpace(req.Email))).
		First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, "Login failed", err)
		return
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		response.Unauthorized(c, "Invalid credentials")
		return
	}

	token, err := a.issueToken(user)
	if err != nil {
		response.Internal(c, "Login failed", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.Summary(),
	})
}

// Me returns the stored profile of the token's subject.
func (a *AuthController) Me(c *gin.Context) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		response.Unauthorized(c, "Access token required")
		return
	}

	var user models.AdminUser
	err := a.DB.WithContext(c.Request.Context()).First(&user, "id = ?", id.UserID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user.Summary()})
}

// Register creates another admin account. Only admins reach it.
func (a *AuthController) Register(c *gin.Context) {
	var req registerRequest
	if !bindJSON(c, &req, "Email and password are required") {
		return
	}

	role := req.Role
	if role == "" {
		role = RoleAdmin
	}
	user, err := database.CreateAdmin(c.Request.Context(), a.DB, req.Email, req.Password, strings.TrimSpace(req.Name), role)
	if errors.Is(err, database.ErrAdminExists) {
		response.Conflict(c, "User already exists")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to create user", err)
		return
	}

	a.Events.Publish("admin_user", "created", user.ID)
	c.JSON(http.StatusCreated, gin.H{"user": user.Summary()})
}

// Logout is stateless: the client discards its token, which stays valid until expiry.
func (a *AuthController) Logout(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}

func (a *AuthController) issueToken(user models.AdminUser) (string, error) {
	now := time.Now().UTC()
	claims := middleware.Claims{
		UserID: user.ID,
		Role:   user.Role,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.Auth.Issuer,
			Subject:   user.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ExpiresIn)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.Auth.Secret))
}
