// Package middleware contains the gin middlewares of the API: user loading,
// the capability guard, rate limiting and request logging.
package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/util/common"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/locale"
	"github.com/ortosupport/course-assistant/web/session"

	"github.com/gin-gonic/gin"
)

// Access is the capability a route requires. The zero value is
// Authenticated so routes missing from a table stay protected.
type Access int

const (
	Authenticated Access = iota
	Public
	// Optional routes run for everyone; a logged in user is attached if present.
	Optional
	MasterOnly
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Optional:
		return "optional"
	case MasterOnly:
		return "master"
	}
	return "authenticated"
}

// Route identifies a handler by method and gin full path, e.g.
// {"DELETE", "/api/users/:id"}.
type Route struct {
	Method string
	Path   string
}

// Capabilities maps every route to the access it requires.
type Capabilities map[Route]Access

// Lookup returns the access required by method and path.
func (t Capabilities) Lookup(method, path string) Access {
	return t[Route{Method: method, Path: path}]
}

// UserLoader resolves the user bound to a session.
type UserLoader interface {
	GetUser(ctx context.Context, id int) (*model.User, error)
}

// LoadUser attaches the session user to the request context. Sessions whose
// user no longer exists are treated as anonymous.
func LoadUser(users UserLoader) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := session.GetLoginUserID(c)
		if !ok {
			c.Next()
			return
		}
		user, err := users.GetUser(c.Request.Context(), id)
		switch {
		case err == nil:
			session.SetContextUser(c, user)
		case errors.Is(err, common.ErrNotFound):
			logger.Debugf("session refers to missing user %d", id)
		default:
			logger.Warning("failed to load session user:", err)
		}
		c.Next()
	}
}

// Guard rejects requests that lack the capability the table assigns to
// their route. Unmatched requests pass through to the 404 handler.
func Guard(table Capabilities) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			c.Next()
			return
		}
		var err error
		switch table.Lookup(c.Request.Method, path) {
		case Public, Optional:
		case MasterOnly:
			_, err = RequireRole(c, model.RoleMaster)
		default:
			_, err = RequireAuthenticated(c)
		}
		if err != nil {
			abortWithError(c, err)
			return
		}
		c.Next()
	}
}

// RequireAuthenticated returns the request user or common.ErrUnauthenticated.
func RequireAuthenticated(c *gin.Context) (*model.User, error) {
	user := session.GetLoginUser(c)
	if user == nil {
		return nil, common.ErrUnauthenticated
	}
	return user, nil
}

// RequireRole returns the request user if it has role. Anonymous requests
// fail with common.ErrUnauthenticated, other roles with common.ErrForbidden.
func RequireRole(c *gin.Context, role string) (*model.User, error) {
	user, err := RequireAuthenticated(c)
	if err != nil {
		return nil, err
	}
	if user.Role != role {
		return nil, common.ErrForbidden
	}
	return user, nil
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusForbidden
	if errors.Is(err, common.ErrUnauthenticated) {
		status = http.StatusUnauthorized
	}
	c.AbortWithStatusJSON(status, entity.ErrorResponse{Message: locale.T(c, common.Message(err))})
}
