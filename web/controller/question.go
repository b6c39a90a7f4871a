package controller

import (
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/logger"
	"github.com/ortosupport/course-assistant/web/entity"
	"github.com/ortosupport/course-assistant/web/service"
	"github.com/ortosupport/course-assistant/web/session"

	"github.com/gin-gonic/gin"
)

// QuestionController answers questions and records feedback on them.
type QuestionController struct {
	BaseController

	assistant       *service.AssistantService
	questionService *service.QuestionService
}

func NewQuestionController(g *gin.RouterGroup, assistant *service.AssistantService, questionService *service.QuestionService) *QuestionController {
	a := &QuestionController{assistant: assistant, questionService: questionService}
	a.initRouter(g)
	return a
}

func (a *QuestionController) initRouter(g *gin.RouterGroup) {
	g.POST("/question", a.ask)
	g.GET("/questions", a.list)
	g.POST("/feedback", a.feedback)
	g.GET("/topics", a.topics)
}

// ask answers the question. The exchange is stored only for logged in users.
func (a *QuestionController) ask(c *gin.Context) {
	req, ok := boundBody[entity.QuestionRequest](c)
	if !ok {
		return
	}
	answer, err := a.assistant.Ask(c.Request.Context(), req.Question)
	if err != nil {
		jsonError(c, "answer question", err)
		return
	}

	resp := entity.AnswerResponse{Answer: answer.Answer, Lesson: answer.Lesson}
	if user := session.GetLoginUser(c); user != nil {
		q, err := a.questionService.CreateQuestion(c.Request.Context(), &model.Question{
			Question: req.Question,
			Answer:   answer.Answer,
			Lesson:   answer.Lesson,
			UserId:   &user.Id,
		})
		if err != nil {
			jsonError(c, "store question", err)
			return
		}
		resp.QuestionId = &q.Id
		logger.Debugf("stored question %d for user %d", q.Id, user.Id)
	}
	jsonObj(c, resp)
}

func (a *QuestionController) list(c *gin.Context) {
	user, ok := a.requireUser(c)
	if !ok {
		return
	}
	questions, err := a.questionService.ListByOwner(c.Request.Context(), user.Id)
	if err != nil {
		jsonError(c, "list questions", err)
		return
	}
	jsonObj(c, questions)
}

func (a *QuestionController) feedback(c *gin.Context) {
	req, ok := boundBody[entity.FeedbackRequest](c)
	if !ok {
		return
	}
	_, err := a.questionService.CreateFeedback(c.Request.Context(), &model.Feedback{
		QuestionId: req.QuestionId,
		IsHelpful:  *req.IsHelpful,
		Comment:    req.Comment,
	})
	if err != nil {
		jsonError(c, "store feedback", err)
		return
	}
	jsonMsg(c, "")
}

func (a *QuestionController) topics(c *gin.Context) {
	catalog := a.assistant.Catalog()
	topics := make([]entity.TopicResponse, 0, len(catalog.Topics))
	for _, t := range catalog.Topics {
		topics = append(topics, entity.TopicResponse{Title: t.Title, Keywords: t.Keywords})
	}
	jsonObj(c, topics)
}
