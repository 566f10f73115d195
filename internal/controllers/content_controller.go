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

// ContentController serves website sections. Public reads go through the
// standard handle, admin routes through the elevated one.
type ContentController struct {
	Public *gorm.DB
	Admin  *gorm.DB
	Events *ws.Hub
}

type createContentRequest struct {
	Section    *string `json:"section"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	OrderIndex *int    `json:"order_index"`
	IsActive   *bool   `json:"is_active"`
}

func (r *createContentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Section, validation.Required, validation.Length(1, 128)),
		validation.Field(&r.Title, validation.Required),
		validation.Field(&r.Content, validation.Required),
	)
}

type updateContentRequest struct {
	Section    *string `json:"section"`
	Title      *string `json:"title"`
	Content    *string `json:"content"`
	OrderIndex *int    `json:"order_index"`
	IsActive   *bool   `json:"is_active"`
}

func (r *updateContentRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Section, validation.NilOrNotEmpty, validation.Length(1, 128)),
		validation.Field(&r.Title, validation.NilOrNotEmpty),
		validation.Field(&r.Content, validation.NilOrNotEmpty),
	)
}

func (r *updateContentRequest) changes() map[string]interface{} {
	m := map[string]interface{}{}
	if r.Section != nil {
		m["section"] = *r.Section
	}
	if r.Title != nil {
		m["title"] = *r.Title
	}
	if r.Content != nil {
		m["content"] = *r.Content
	}
	if r.OrderIndex != nil {
		m["order_index"] = *r.OrderIndex
	}
	if r.IsActive != nil {
		m["is_active"] = *r.IsActive
	}
	return m
}

func (cc *ContentController) List(c *gin.Context) {
	cc.list(c, cc.Public)
}

func (cc *ContentController) AdminList(c *gin.Context) {
	cc.list(c, cc.Admin)
}

func (cc *ContentController) list(c *gin.Context, db *gorm.DB) {
	var sections []models.ContentSection
	if err := db.WithContext(c.Request.Context()).Order("order_index ASC").Order("created_at ASC").Find(&sections).Error; err != nil {
		response.Internal(c, "Failed to fetch content", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": sections})
}

// GetSection matches the section key exactly.
func (cc *ContentController) GetSection(c *gin.Context) {
	var section models.ContentSection
	err := cc.Public.WithContext(c.Request.Context()).Where("section = ?", c.Param("section")).First(&section).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Content section not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to fetch content section", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"content": section})
}

func (cc *ContentController) Create(c *gin.Context) {
	var req createContentRequest
	if !bindJSON(c, &req, "Section, title, and content are required") {
		return
	}

	section := models.ContentSection{
		Section:    *req.Section,
		Title:      *req.Title,
		Content:    *req.Content,
		OrderIndex: 0,
		IsActive:   true,
	}
	if req.OrderIndex != nil {
		section.OrderIndex = *req.OrderIndex
	}
	if req.IsActive != nil {
		section.IsActive = *req.IsActive
	}

	if err := cc.Admin.WithContext(c.Request.Context()).Create(&section).Error; err != nil {
		response.Internal(c, "Failed to create content", err)
		return
	}
	cc.Events.Publish("content", "created", section.ID)
	c.JSON(http.StatusCreated, gin.H{"content": section})
}

func (cc *ContentController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var req updateContentRequest
	if !bindJSON(c, &req, "") {
		return
	}

	var section models.ContentSection
	err := applyUpdates(c.Request.Context(), cc.Admin, &section, id, req.changes())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Content section not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to update content", err)
		return
	}
	cc.Events.Publish("content", "updated", section.ID)
	c.JSON(http.StatusOK, gin.H{"content": section})
}

func (cc *ContentController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := deleteByID[models.ContentSection](c.Request.Context(), cc.Admin, id); err != nil {
		response.Internal(c, "Failed to delete content", err)
		return
	}
	cc.Events.Publish("content", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "Content deleted successfully"})
}
