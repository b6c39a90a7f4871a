package controller

import (
	"net/http"

	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/service"

	"github.com/gin-gonic/gin"
)

// UserAdminController lets masters manage accounts.
type UserAdminController struct {
	BaseController

	userService *service.UserService
}

func NewUserAdminController(g *gin.RouterGroup, userService *service.UserService) *UserAdminController {
	a := &UserAdminController{userService: userService}
	a.initRouter(g)
	return a
}

func (a *UserAdminController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.list)
	g.POST("", a.create)
	g.DELETE("/:id", a.delete)
}

func (a *UserAdminController) list(c *gin.Context) {
	users, err := a.userService.ListUsers(c.Request.Context())
	if err != nil {
		jsonError(c, "list users", err)
		return
	}
	jsonObj(c, users)
}

func (a *UserAdminController) create(c *gin.Context) {
	req, ok := boundBody[entity.CreateUserRequest](c)
	if !ok {
		return
	}
	user, err := a.userService.CreateUser(c.Request.Context(), service.NewUser{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     req.Role,
	})
	if err != nil {
		jsonError(c, "create user", err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// delete removes an account. Masters cannot delete themselves.
func (a *UserAdminController) delete(c *gin.Context) {
	actor, ok := a.requireMaster(c)
	if !ok {
		return
	}
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.userService.DeleteUser(c.Request.Context(), actor.Id, id); err != nil {
		jsonError(c, "delete user", err)
		return
	}
	jsonMsg(c, "")
}
