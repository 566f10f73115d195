package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gorm.io/gorm"

	"github.com/zaqqye/authorsite_backend/internal/models"
	"github.com/zaqqye/authorsite_backend/internal/response"
	"github.com/zaqqye/authorsite_backend/internal/utils"
	"github.com/zaqqye/authorsite_backend/internal/ws"
)

type BlogController struct {
	Public *gorm.DB
	Admin  *gorm.DB
	Events *ws.Hub
}

type blogRequest struct {
	Title           *string         `json:"title"`
	Excerpt         *string         `json:"excerpt"`
	Content         *string         `json:"content"`
	ImageURL        *string         `json:"image_url"`
	MetaTitle       *string         `json:"meta_title"`
	MetaDescription *string         `json:"meta_description"`
	MetaKeywords    *string         `json:"meta_keywords"`
	Slug            *string         `json:"slug"`
	Author          *string         `json:"author"`
	ReadingTime     *FlexibleString `json:"reading_time"`
	Featured        *bool           `json:"featured"`
	Category        *string         `json:"category"`
	Tags            *string         `json:"tags"`
	Published       *bool           `json:"published"`
	partial         bool
}

func (r *blogRequest) Validate() error {
	var presence validation.Rule = validation.Required
	if r.partial {
		presence = validation.NilOrNotEmpty
	}
	return validation.ValidateStruct(r,
		validation.Field(&r.Title, presence, validation.Length(1, 255)),
		validation.Field(&r.Content, presence),
		validation.Field(&r.ImageURL, validation.Length(0, 2048)),
		validation.Field(&r.Slug, validation.Length(0, 255)),
	)
}

// nullable maps an absent or empty string to NULL.
func nullable(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// slug prefers an explicit slug and otherwise derives one from the title.
func (r *blogRequest) slug() (string, bool) {
	if s := deref(r.Slug); s != "" {
		return s, true
	}
	if r.Title != nil {
		return utils.Slugify(*r.Title), true
	}
	return "", false
}

func (r *blogRequest) changes() map[string]interface{} {
	m := map[string]interface{}{}
	if r.Title != nil {
		m["title"] = *r.Title
	}
	if r.Excerpt != nil {
		m["excerpt"] = *r.Excerpt
	}
	if r.Content != nil {
		m["content"] = *r.Content
	}
	optional := map[string]*string{
		"image_url":        r.ImageURL,
		"meta_title":       r.MetaTitle,
		"meta_description": r.MetaDescription,
		"meta_keywords":    r.MetaKeywords,
		"author":           r.Author,
		"category":         r.Category,
		"tags":             r.Tags,
	}
	for col, v := range optional {
		if v != nil {
			m[col] = nullable(v)
		}
	}
	if r.ReadingTime != nil {
		m["reading_time"] = r.ReadingTime.optional()
	}
	if slug, ok := r.slug(); ok {
		m["slug"] = slug
	}
	if r.Featured != nil {
		m["featured"] = *r.Featured
	}
	if r.Published != nil {
		m["published"] = *r.Published
	}
	return m
}

// ListPublished returns published posts, newest first.
func (bc *BlogController) ListPublished(c *gin.Context) {
	var blogs []models.BlogPost
	err := bc.Public.WithContext(c.Request.Context()).
		Where("published = ?", true).
		Order("created_at DESC").
		Find(&blogs).Error
	if err != nil {
		response.Internal(c, "Failed to fetch blogs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

// GetPublished looks a published post up by id, or by slug when the param is
// not a UUID.
func (bc *BlogController) GetPublished(c *gin.Context) {
	key := c.Param("id")
	q := bc.Public.WithContext(c.Request.Context()).Where("published = ?", true)
	if isUUID(key) {
		q = q.Where("id = ?", key)
	} else {
		q = q.Where("slug = ?", key).Order("created_at DESC")
	}

	var blog models.BlogPost
	err := q.First(&blog).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Blog not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to fetch blog", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

// AdminList returns every post regardless of publication state.
func (bc *BlogController) AdminList(c *gin.Context) {
	var blogs []models.BlogPost
	if err := bc.Admin.WithContext(c.Request.Context()).Order("created_at DESC").Find(&blogs).Error; err != nil {
		response.Internal(c, "Failed to fetch blogs", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blogs": blogs})
}

func (bc *BlogController) Create(c *gin.Context) {
	var req blogRequest
	if !bindJSON(c, &req, "Title and content are required") {
		return
	}

	slug, _ := req.slug()
	blog := models.BlogPost{
		Title:           *req.Title,
		Excerpt:         deref(req.Excerpt),
		Content:         *req.Content,
		ImageURL:        nullable(req.ImageURL),
		MetaTitle:       nullable(req.MetaTitle),
		MetaDescription: nullable(req.MetaDescription),
		MetaKeywords:    nullable(req.MetaKeywords),
		Slug:            slug,
		Author:          nullable(req.Author),
		ReadingTime:     req.ReadingTime.optional(),
		Category:        nullable(req.Category),
		Tags:            nullable(req.Tags),
	}
	if req.Featured != nil {
		blog.Featured = *req.Featured
	}
	if req.Published != nil {
		blog.Published = *req.Published
	}

	if err := bc.Admin.WithContext(c.Request.Context()).Create(&blog).Error; err != nil {
		response.Internal(c, "Failed to create blog", err)
		return
	}
	bc.Events.Publish("blog", "created", blog.ID)
	c.JSON(http.StatusCreated, gin.H{"blog": blog})
}

func (bc *BlogController) Update(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	req := blogRequest{partial: true}
	if !bindJSON(c, &req, "") {
		return
	}

	var blog models.BlogPost
	err := applyUpdates(c.Request.Context(), bc.Admin, &blog, id, req.changes())
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Blog not found")
		return
	}
	if err != nil {
		response.Internal(c, "Failed to update blog", err)
		return
	}
	bc.Events.Publish("blog", "updated", blog.ID)
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}

func (bc *BlogController) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := deleteByID[models.BlogPost](c.Request.Context(), bc.Admin, id); err != nil {
		response.Internal(c, "Failed to delete blog", err)
		return
	}
	bc.Events.Publish("blog", "deleted", id)
	c.JSON(http.StatusOK, gin.H{"message": "Blog deleted successfully"})
}

func (bc *BlogController) Publish(c *gin.Context) {
	bc.setPublished(c, true)
}

func (bc *BlogController) Unpublish(c *gin.Context) {
	bc.setPublished(c, false)
}

func (bc *BlogController) setPublished(c *gin.Context, published bool) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}

	action, failMsg := "published", "Failed to publish blog"
	if !published {
		action, failMsg = "unpublished", "Failed to unpublish blog"
	}

	var blog models.BlogPost
	err := applyUpdates(c.Request.Context(), bc.Admin, &blog, id, map[string]interface{}{"published": published})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		response.NotFound(c, "Blog not found")
		return
	}
	if err != nil {
		response.Internal(c, failMsg, err)
		return
	}
	bc.Events.Publish("blog", action, blog.ID)
	c.JSON(http.StatusOK, gin.H{"blog": blog})
}
