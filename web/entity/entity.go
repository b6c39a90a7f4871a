// Package entity defines the request and response bodies of the JSON API.
package entity

// Msg is the body of operations that only report success.
type Msg struct {
	Success bool   `json:"success"`
	Msg     string `json:"msg,omitempty"`
}

// ErrorResponse is returned with every non-2xx status. Errors maps request
// field names to the violated rule and is only set for validation failures.
type ErrorResponse struct {
	Message string            `json:"message"`
	Errors  map[string]string `json:"errors,omitempty"`
}

// RegisterRequest creates a regular account.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6,max=128"`
	Name     string `json:"name" binding:"required,max=128"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateUserRequest is the master variant of RegisterRequest; Role defaults
// to "user".
type CreateUserRequest struct {
	RegisterRequest
	Role string `json:"role" binding:"omitempty,oneof=user master"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type QuestionRequest struct {
	Question string `json:"question" binding:"required,min=3,max=4000"`
}

// AnswerResponse carries QuestionId only when the question was stored for a
// logged in user.
type AnswerResponse struct {
	Answer     string `json:"answer"`
	Lesson     string `json:"lesson"`
	QuestionId *int   `json:"questionId,omitempty"`
}

type FeedbackRequest struct {
	QuestionId int     `json:"questionId" binding:"required,gt=0"`
	IsHelpful  *bool   `json:"isHelpful" binding:"required"`
	Comment    *string `json:"comment" binding:"omitempty,max=2000"`
}

// SuggestionRequest creates or replaces a suggestion. Active defaults to true.
type SuggestionRequest struct {
	Text     string  `json:"text" binding:"required,min=1,max=500"`
	Category *string `json:"category" binding:"omitempty,max=64"`
	Active   *bool   `json:"active"`
}

// TopicResponse is one entry of the course catalog.
type TopicResponse struct {
	Title    string   `json:"title"`
	Keywords []string `json:"keywords,omitempty"`
}
