package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/zaqqye/authorsite_backend/internal/models"
	"github.com/zaqqye/authorsite_backend/internal/response"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

type MenuController struct {
	Public *gorm.DB
	Admin  *gorm.DB
	Events *ws.Hub
}

type menuRequest struct {
	Label      *string `json:"label"`
	URL        *string `json:"url"`
	OrderIndex *int    `json:"order_index"`
	IsActive   *bool   `json:"is_active"`
	partial    bool
}

func (r *menuRequest) Validate() error {
	var presence validation.Rule = validation.Required
	if r.partial {
		presence = validation.NilOrNotEmpty
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Label, presence, validation.Length(1, 128)),
		validation.Field(&r.URL, presence, validation.Length(1, 2048)),
	)
}

func (r *menuRequest) changes() map[string]interface{} {
	m := map[string]interface{}{}
	if r.Label != nil {
		m["label"] = *r.Label
	}
	if r.URL != nil {
		m["url"] = *r.URL
	}
	if r.OrderIndex != nil {
		m["order_index"] = *r.OrderIndex
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

func (mc *MenuController) List(c *gin.Context) {
	mc.list(c, mc.Public)
}

func (mc *MenuController) AdminList(c *gin.Context) {
	mc.list(c, mc.Admin)
}

func (mc *MenuController) list(c *gin.Context, db *gorm.DB) {
	var items []models.MenuItem
	if err := db.WithContext(c.Request.Context()).Order("order_index ASC").Order("created_at ASC").Find(&items).Error; err != nil {
		response.Internal(c, "Failed to fetch menu items", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"menuItems": items})
}

func (mc *MenuController) Create(c *gin.Context) {
	var req menuRequest
	if !bindJSON(c, &req, "Label and URL are required") {
		return
	}

	item := models.MenuItem{
		Label:      *req.Label,
		URL:        *req.URL,
		OrderIndex: 0,
		IsActive:   true,
	}
	if req.OrderIndex != nil {
		item.OrderIndex = *req.OrderIndex
	}
	if req.IsActive != nil {
		item.IsActive = *req.IsActive
	}

	if err := mc.Admin.WithContext(c.Request.Context()).Create(&item).Error; err != nil {
		response.Internal(c, "Failed to create menu item", err)
		return
	}
	mc.Events.Publish("menu", "created", item.ID)
	c.JSON(http.StatusCreated, gin.H{"menuItem": item})
}

func (mc *MenuController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	req := menuRequest{partial: true}
	if !bindJSON(c, &req, "") {
		return
	}

	var item models.MenuItem
	err := applyUpdates(c.Request.Context(), mc.Admin, &item, id, req.changes())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Menu item not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to update menu item", err)
		return
	}
	mc.Events.Publish("menu", "updated", item.ID)
	c.JSON(http.StatusOK, gin.H{"menuItem": item})
}

func (mc *MenuController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := deleteByID[models.MenuItem](c.Request.Context(), mc.Admin, id); err != nil {
		response.Internal(c, "Failed to delete menu item", err)
		return
	}
	mc.Events.Publish("menu", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "Menu item deleted successfully"})
}
