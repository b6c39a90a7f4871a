// Package controller implements the HTTP handlers of the JSON API and the
// table of capabilities each route requires.
package controller

import (
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/web/middleware"

	"github.com/gin-gonic/gin"
)

// BaseController provides the request user lookups shared by controllers.
type BaseController struct{}

// requireUser returns the logged in user or answers 401.
func (a *BaseController) requireUser(c *gin.Context) (*model.User, bool) {
	user, err := middleware.RequireAuthenticated(c)
	if err != nil {
		jsonError(c, "authentication required", err)
		return nil, false
	}
	return user, true
}

// requireMaster returns the logged in master or answers 401/403.
func (a *BaseController) requireMaster(c *gin.Context) (*model.User, bool) {
	user, err := middleware.RequireRole(c, model.RoleMaster)
	if err != nil {
		jsonError(c, "master role required", err)
		return nil, false
	}
	return user, true
}
