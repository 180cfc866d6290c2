package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/xthome/home-manager/internal/middleware"
	"github.com/xthome/home-manager/internal/models"
)

type identity struct {
	UserID     string
	Email      string
	Role       string
	AdminScope string
}

func currentIdentity(c *gin.Context) identity {
	return identity{
		UserID:     c.GetString(middleware.ContextUserID),
		Email:      c.GetString(middleware.ContextUserEmail),
		Role:       c.GetString(middleware.ContextUserRole),
		AdminScope: c.GetString(middleware.ContextAdminScope),
	}
}

func (i identity) isAdmin() bool {
	return i.Role == models.RoleAdmin
}
