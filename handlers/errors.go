package handlers

import (
	"errors"

	"github.com/M7HZ/bright-clinic/middlewares"
	"github.com/M7HZ/bright-clinic/services"
	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// respondValidation writes a 400 carrying per-field messages when err
// wraps an ozzo validation map, a plain message otherwise.
func respondValidation(c *gin.Context, err error) {
	var ve *services.ValidationError
	if errors.As(err, &ve) {
		var fieldErrs validation.Errors
		if errors.As(ve.Err, &fieldErrs) {
			fields := make(map[string]string, len(fieldErrs))
			for name, ferr := range fieldErrs {
				fields[name] = ferr.Error()
			}
			middlewares.FieldErrors(c, 400, fields)
			return
		}
	}
	c.JSON(400, gin.H{"error": err.Error()})
}
