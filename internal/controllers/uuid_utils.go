package controllers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/zaqqye/authorsite_backend/internal/response"
)

// idParam reads a UUID path parameter, answering 400 when it is malformed.
func idParam(c *gin.Context, name string) (string, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := uuid.Parse(raw)
	if err != nil {
		response.BadRequest(c, "Invalid "+name)
		return "", false
	}
	return id.String(), true
}

func isUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
