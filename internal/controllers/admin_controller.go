package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"gorm.io/gorm"

	"github.com/zaqqye/authorsite_backend/internal/middleware"
	"github.com/zaqqye/authorsite_backend/internal/models"
	"github.com/zaqqye/authorsite_backend/internal/response"
	"github.com/zaqqye/authorsite_backend/internal/utils"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

// AdminController manages back-office accounts. DB is the elevated handle.
type AdminController struct {
	DB     *gorm.DB
	Events *ws.Hub
}

func (a *AdminController) ListUsers(c *gin.Context) {
	// Query params: limit, page, all, sort_by, sort_dir, q, role
	all := strings.EqualFold(c.Query("all"), "true") || c.Query("all") == "1"
	limit := 50
	page := 1
	if v := c.Query("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if v := c.Query("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	sortBy := strings.ToLower(c.DefaultQuery("sort_by", "created_at"))
	sortDir := strings.ToUpper(c.DefaultQuery("sort_dir", "DESC"))
	if sortDir != "ASC" && sortDir != "DESC" {
		sortDir = "DESC"
	}
	allowedSorts := map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"email":      "email",
		"role":       "role",
	}
	sortCol, ok := allowedSorts[sortBy]
	if !ok {
		sortCol = "created_at"
	}
	order := fmt.Sprintf("%s %s", sortCol, sortDir)

	qText := strings.ToLower(strings.TrimSpace(c.Query("q")))
	role := strings.ToLower(strings.TrimSpace(c.Query("role")))
	if role != "" && !IsValidRole(role) {
		response.BadRequest(c, "Invalid role")
		return
	}

	filtered := func() *gorm.DB {
		q := a.DB.WithContext(c.Request.Context()).Model(&models.AdminUser{})
		if qText != "" {
			like := "%" + qText + "%"
			q = q.Where("(LOWER(name) LIKE ? OR email LIKE ?)", like, like)
		}
		if role != "" {
			q = q.Where("role = ?", role)
		}
		return q
	}

	var total int64
	if err := filtered().Count(&total).Error; err != nil {
		response.Internal(c, "Failed to fetch users", err)
		return
	}

	listQ := filtered().Order(order)
	if !all {
		listQ = listQ.Offset((page - 1) * limit).Limit(limit)
	}
	var users []models.AdminUser
	if err := listQ.Find(&users).Error; err != nil {
		response.Internal(c, "Failed to fetch users", err)
		return
	}

	out := make([]models.AdminSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	meta := gin.H{"total": total, "all": all}
	if !all {
		meta["limit"] = limit
		meta["page"] = page
		meta["sort_by"] = sortCol
		meta["sort_dir"] = sortDir
	}
	if qText != "" {
		meta["q"] = qText
	}
	if role != "" {
		meta["role"] = role
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "meta": meta})
}

func (a *AdminController) GetUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var u models.AdminUser
	err := a.DB.WithContext(c.Request.Context()).First(&u, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "User not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to fetch user", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": u.Summary()})
}

type updateUserRequest struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
}

func (r *updateUserRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Name, validation.Length(0, 128)),
		validation.Field(&r.Email, validation.NilOrNotEmpty, is.EmailFormat),
		validation.Field(&r.Password, validation.Length(8, 72)),
		validation.Field(&r.Role, validation.NilOrNotEmpty, validation.In(RoleNames()...)),
	)
}

func (a *AdminController) UpdateUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateUserRequest
	if !bindJSON(c, &req, "") {
		return
	}

	changes := map[string]interface{}{}
	if req.Name != nil {
		changes["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		changes["email"] = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.Role != nil {
		changes["role"] = *req.Role
	}
	if req.Password != nil && *req.Password != "" {
		pw, err := utils.HashPassword(*req.Password)
		if err != nil {
			response.Internal(c, "Failed to update user", err)
			return
		}
		changes["password"] = pw
	}

	if req.Role != nil && *req.Role != RoleAdmin {
		last, err := a.isLastAdmin(c.Request.Context(), id)
		if err != nil {
			response.Internal(c, "Failed to update user", err)
			return
		}
		if last {
			response.BadRequest(c, "At least one admin account is required")
			return
		}
	}

	var u models.AdminUser
	err := applyUpdates(c.Request.Context(), a.DB, &u, id, changes)
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		response.NotFound(c, "User not found")
		return
	case errors.Is(err, gorm.ErrDuplicatedKey):
		response.Conflict(c, "User already exists")
		return
	case err != nil:
		response.Internal(c, "Failed to update user", err)
		return
	}
	a.Events.Publish("admin_user", "updated", u.ID)
	c.JSON(http.StatusOK, gin.H{"user": u.Summary()})
}

// isLastAdmin reports whether id is the only account holding the admin role.
func (a *AdminController) isLastAdmin(ctx context.Context, id string) (bool, error) {
	var admins []string
	err := a.DB.WithContext(ctx).Model(&models.AdminUser{}).
		Where("role = ?", RoleAdmin).
		Limit(2).
		Pluck("id", &admins).Error
	if err != nil {
		return false, err
	}
	return len(admins) == 1 && admins[0] == id, nil
}

// DeleteUser removes an account. Admins cannot delete their own account.
func (a *AdminController) DeleteUser(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if me, ok := middleware.CurrentIdentity(c); ok && me.UserID == id {
		response.BadRequest(c, "You cannot delete your own account")
		return
	}
	if err := deleteByID[models.AdminUser](c.Request.Context(), a.DB, id); err != nil {
		response.Internal(c, "Failed to delete user", err)
		return
	}
	a.Events.Publish("admin_user", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "User deleted successfully"})
}
