package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IT22091352/wasana-products/internal/config"
	"github.com/IT22091352/wasana-products/internal/services"
)

// Every endpoint answers with the same envelope: {success, message, data} on
// the happy path, {success, message, errors?} on failure. The front-end keys
// off the success flag.

func respondOK(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "message": message, "data": data})
}

func respondCreated(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": message, "data": data})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "message": message})
}

func respondValidation(c *gin.Context, verr services.ValidationError) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"message": "Validation failed",
		"errors":  verr,
	})
}

// respondServerError logs the real error and hides it from clients in
// production.
func respondServerError(c *gin.Context, cfg *config.Config, message string, err error) {
	log.Printf("%s: %v", message, err)
	body := gin.H{"success": false, "message": message}
	if !cfg.IsProduction() {
		body["error"] = err.Error()
	}
	c.JSON(http.StatusInternalServerError, body)
}

// asValidation unwraps a services.ValidationError if err carries one.
func asValidation(err error) (services.ValidationError, bool) {
	var verr services.ValidationError
	ok := errors.As(err, &verr)
	return verr, ok
}
