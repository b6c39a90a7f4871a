// Package session manages login sessions: token issuing and persistence
// (Manager and its backends) and the gin helpers used by handlers.
package session

import (
	"github.com/ortosupport/course-assistant/database/model"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// CookieName is the name of the session cookie.
const CookieName = "course-assistant"

const (
	loginUserKey   = "LOGIN_USER_ID"
	contextUserKey = "LOGIN_USER"
	// rotateKey asks the store to replace the session token on save.
	rotateKey = "ROTATE_TOKEN"
)

// SetLoginUser binds the session to user and saves it under a new token.
// Any previous token of the request is destroyed.
func SetLoginUser(c *gin.Context, user *model.User) error {
	s := sessions.Default(c)
	s.Clear()
	s.Set(loginUserKey, user.Id)
	s.Set(rotateKey, true)
	if err := s.Save(); err != nil {
		return err
	}
	SetContextUser(c, user)
	return nil
}

// GetLoginUserID returns the user id bound to the request session.
func GetLoginUserID(c *gin.Context) (int, bool) {
	s := sessions.Default(c)
	id, ok := s.Get(loginUserKey).(int)
	return id, ok
}

// ClearSession destroys the request session and expires the cookie.
func ClearSession(c *gin.Context) error {
	s := sessions.Default(c)
	s.Clear()
	s.Options(sessions.Options{
		Path:   "/",
		MaxAge: -1,
	})
	c.Set(contextUserKey, nil)
	return s.Save()
}

// SetContextUser attaches the resolved user to the request.
func SetContextUser(c *gin.Context, user *model.User) {
	c.Set(contextUserKey, user)
}

// GetLoginUser returns the user attached to the request, or nil.
func GetLoginUser(c *gin.Context) *model.User {
	if obj, ok := c.Get(contextUserKey); ok {
		if user, ok := obj.(*model.User); ok && user != nil {
			return user
		}
	}
	return nil
}
