package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/zaqqye/authorsite_backend/internal/response"
)

// bindJSON decodes and validates a request body. A missing required field is
// reported with requiredMsg; other rule failures use the validator's text.
func bindJSON(c *gin.Context, req validation.Validatable, requiredMsg string) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(c, http.StatusRequestEntityTooLarge, "Request body too large")
			return false
		}
		response.BadRequest(c, "Invalid request body")
		return false
	}
	if err := req.Validate(); err != nil {
		if requiredMsg != "" && isRequiredError(err) {
			response.BadRequest(c, requiredMsg)
			return false
		}
		response.BadRequest(c, err.Error())
		return false
	}
	return true
}

func isRequiredError(err error) bool {
	var fields validation.Errors
	if !errors.As(err, &fields) {
		return false
	}
	for _, fe := range fields {
		var ve validation.Error
		if errors.As(fe, &ve) && ve.Code() == validation.ErrRequired.Code() {
			return true
		}
	}
	return false
}
