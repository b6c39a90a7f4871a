package controller

import (
	"net/http"

	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/service"

	"github.com/gin-gonic/gin"
)

// SuggestionController serves suggested questions. Everyone logged in reads
// them; masters see inactive ones too and edit them.
type SuggestionController struct {
	BaseController

	suggestionService *service.SuggestionService
}

func NewSuggestionController(g *gin.RouterGroup, suggestionService *service.SuggestionService) *SuggestionController {
	a := &SuggestionController{suggestionService: suggestionService}
	a.initRouter(g)
	return a
}

func (a *SuggestionController) initRouter(g *gin.RouterGroup) {
	g.GET("", a.list)
	g.GET("/:id", a.get)
	g.POST("", a.create)
	g.PUT("/:id", a.update)
	g.DELETE("/:id", a.delete)
}

func (a *SuggestionController) list(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	list := a.suggestionService.ListActive
	if user.IsMaster() {
		list = a.suggestionService.List
	}
	suggestions, err := list(ctx)
	if err != nil {
		jsonError(c, "list suggestions", err)
		return
	}
	jsonObj(c, suggestions)
}

func (a *SuggestionController) get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	suggestion, err := a.suggestionService.Get(c.Request.Context(), id)
	if err != nil {
		jsonError(c, "get suggestion", err)
		return
	}
	jsonObj(c, suggestion)
}

func (a *SuggestionController) create(c *gin.Context) {
	req, ok := boundBody[entity.SuggestionRequest](c)
	if !ok {
		return
	}
	suggestion, err := a.suggestionService.Create(c.Request.Context(), suggestionInput(*req))
	if err != nil {
		jsonError(c, "create suggestion", err)
		return
	}
	c.JSON(http.StatusCreated, suggestion)
}

func (a *SuggestionController) update(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	req, ok := boundBody[entity.SuggestionRequest](c)
	if !ok {
		return
	}
	suggestion, err := a.suggestionService.Update(c.Request.Context(), id, suggestionInput(*req))
	if err != nil {
		jsonError(c, "update suggestion", err)
		return
	}
	jsonObj(c, suggestion)
}

func (a *SuggestionController) delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := a.suggestionService.Delete(c.Request.Context(), id); err != nil {
		jsonError(c, "delete suggestion", err)
		return
	}
	jsonMsg(c, "")
}

func suggestionInput(req entity.SuggestionRequest) service.SuggestionInput {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return service.SuggestionInput{Text: req.Text, Category: req.Category, Active: active}
}
