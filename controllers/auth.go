// controllers/auth.go
package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Me echoes the caller identified by the verified token. Sign-up and login
// happen at the external auth provider.
func Me(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"userId": userID})
}
