package controllers

import "github.com/gin-gonic/gin"

// errorJSON writes the standard failure envelope
func errorJSON(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}
