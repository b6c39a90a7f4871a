package controller

import (
	"net/http"

	"github.com/ortosupport/course-assistant/web/middleware"
	"github.com/ortosupport/course-assistant/web/service"

	"github.com/gin-gonic/gin"
)

// Capabilities lists the access every API route requires. Routes missing
// here require a logged in user.
var Capabilities = middleware.Capabilities{
	{Method: http.MethodPost, Path: "/api/register"}: middleware.Public,
	{Method: http.MethodPost, Path: "/api/login"}:    middleware.Public,
	{Method: http.MethodPost, Path: "/api/logout"}:   middleware.Authenticated,
	{Method: http.MethodGet, Path: "/api/user"}:      middleware.Authenticated,

	{Method: http.MethodPost, Path: "/api/question"}: middleware.Optional,
	{Method: http.MethodGet, Path: "/api/questions"}: middleware.Authenticated,
	{Method: http.MethodPost, Path: "/api/feedback"}: middleware.Authenticated,
	{Method: http.MethodGet, Path: "/api/topics"}:    middleware.Public,

	{Method: http.MethodGet, Path: "/api/users"}:        middleware.MasterOnly,
	{Method: http.MethodPost, Path: "/api/users"}:       middleware.MasterOnly,
	{Method: http.MethodDelete, Path: "/api/users/:id"}: middleware.MasterOnly,

	{Method: http.MethodGet, Path: "/api/suggestions"}:        middleware.Authenticated,
	{Method: http.MethodGet, Path: "/api/suggestions/:id"}:    middleware.Authenticated,
	{Method: http.MethodPost, Path: "/api/suggestions"}:       middleware.MasterOnly,
	{Method: http.MethodPut, Path: "/api/suggestions/:id"}:    middleware.MasterOnly,
	{Method: http.MethodDelete, Path: "/api/suggestions/:id"}: middleware.MasterOnly,

	{Method: http.MethodGet, Path: "/healthz"}: middleware.Public,
	{Method: http.MethodGet, Path: "/metrics"}: middleware.Public,
}

// Services are the dependencies of the API handlers.
type Services struct {
	Users       *service.UserService
	Questions   *service.QuestionService
	Suggestions *service.SuggestionService
	Assistant   *service.AssistantService
}

// APIController mounts every API controller under /api.
type APIController struct {
	authController       *AuthController
	questionController   *QuestionController
	userAdminController  *UserAdminController
	suggestionController *SuggestionController
}

// NewAPIController registers the API routes on g. A non-nil limiter runs
// before every API handler.
func NewAPIController(g *gin.RouterGroup, s Services, limiter gin.HandlerFunc) *APIController {
	setupValidator()
	a := &APIController{}
	a.initRouter(g, s, limiter)
	return a
}

func (a *APIController) initRouter(g *gin.RouterGroup, s Services, limiter gin.HandlerFunc) {
	api := g.Group("/api")
	if limiter != nil {
		api.Use(limiter)
	}

	a.authController = NewAuthController(api, s.Users)
	a.questionController = NewQuestionController(api, s.Assistant, s.Questions)
	a.userAdminController = NewUserAdminController(api.Group("/users"), s.Users)
	a.suggestionController = NewSuggestionController(api.Group("/suggestions"), s.Suggestions)
}
