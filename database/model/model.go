// Package model defines the gorm models persisted by the course assistant.
package model

import "time"

// Question is an answered question. UserId is nil for anonymous askers,
// although only authenticated questions are stored.
type Question struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Question  string    `json:"question" gorm:"type:text;not null"`
	Answer    string    `json:"answer" gorm:"type:text;not null"`
	Lesson    string    `json:"lesson" gorm:"type:text;not null"`
	UserId    *int      `json:"userId" gorm:"index"`
	User      *User     `json:"-" gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

// Feedback is a helpful/not helpful vote on a question, with an optional comment.
type Feedback struct {
	Id         int       `json:"id" gorm:"primaryKey;autoIncrement"`
	QuestionId int       `json:"questionId" gorm:"not null;index"`
	Question   *Question `json:"-" gorm:"foreignKey:QuestionId;references:Id;constraint:OnDelete:CASCADE"`
	IsHelpful  bool      `json:"isHelpful" gorm:"not null"`
	Comment    *string   `json:"comment" gorm:"type:text"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (Feedback) TableName() string {
	return "feedback"
}

// Suggestion is an example question curated by masters.
// Active has no column default: gorm would replace an explicit false with it.
type Suggestion struct {
	Id        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	Text      string    `json:"text" gorm:"type:text;not null"`
	Category  *string   `json:"category"`
	Active    bool      `json:"active" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
}

// Session is a persisted login session keyed by its opaque token.
type Session struct {
	Token     string    `gorm:"primaryKey;size:128"`
	UserId    int       `gorm:"not null;index"`
	User      *User     `gorm:"foreignKey:UserId;references:Id;constraint:OnDelete:CASCADE"`
	Data      []byte
	ExpiresAt time.Time `gorm:"not null;index"`
	CreatedAt time.Time
}
