package controller

import (
	"net/http"

	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/service"
	"github.com/ortosupport/course-assistant/web/session"

	"github.com/gin-gonic/gin"
)

// AuthController handles registration, login and logout.
type AuthController struct {
	BaseController

	userService *service.UserService
}

func NewAuthController(g *gin.RouterGroup, userService *service.UserService) *AuthController {
	a := &AuthController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *AuthController) initRouter(g *gin.RouterGroup) {
	g.POST("/register", a.register)
	g.POST("/login", a.login)
	g.POST("/logout", a.logout)
	g.GET("/user", a.user)
}

// register creates a regular account and logs it in.
func (a *AuthController) register(c *gin.Context) {
	req, ok := boundBody[entity.RegisterRequest](c)
	if !ok {
		return
	}
	user, err := a.userService.Register(c.Request.Context(), req.Username, req.Password, req.Name, req.Email)
	if err != nil {
		jsonError(c, "register failed", err)
		return
	}
	if err := session.SetLoginUser(c, user); err != nil {
		jsonError(c, "unable to save session", err)
		return
	}
	logger.Infof("%s registered, Ip Address: %s", user.Username, getRemoteIp(c))
	c.JSON(http.StatusCreated, user)
}

func (a *AuthController) login(c *gin.Context) {
	req, ok := boundBody[entity.LoginRequest](c)
	if !ok {
		return
	}
	user, err := a.userService.CheckUser(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		logger.Warningf("failed login for %q, Ip Address: %s", req.Username, getRemoteIp(c))
		jsonError(c, "login failed", err)
		return
	}
	if err := session.SetLoginUser(c, user); err != nil {
		jsonError(c, "unable to save session", err)
		return
	}
	logger.Infof("%s logged in successfully, Ip Address: %s", user.Username, getRemoteIp(c))
	jsonObj(c, user)
}

func (a *AuthController) logout(c *gin.Context) {
	if user := session.GetLoginUser(c); user != nil {
		logger.Infof("%s logged out successfully", user.Username)
	}
	if err := session.ClearSession(c); err != nil {
		jsonError(c, "unable to clear session", err)
		return
	}
	jsonMsg(c, "")
}

func (a *AuthController) user(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}
	jsonObj(c, user)
}
