package service

import (
	"context"

	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/util/common"

	"gorm.io/gorm"
)

// QuestionService stores answered questions and their feedback.
type QuestionService struct {
	db *gorm.DB
}

func NewQuestionService(db *gorm.DB) *QuestionService {
	return &QuestionService{db: db}
}

// CreateQuestion stores q and fills in its id and creation time.
func (s *QuestionService) CreateQuestion(ctx context.Context, q *model.Question) (*model.Question, error) {
	if err := s.db.WithContext(ctx).Create(q).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, common.Wrap(common.KindIntegrity, common.ErrIntegrity.Msg, err)
		}
		return nil, err
	}
	return q, nil
}

// ListByOwner returns the questions of userID, oldest first.
func (s *QuestionService) ListByOwner(ctx context.Context, userID int) ([]model.Question, error) {
	questions := make([]model.Question, 0)
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&questions).
		Error
	if err != nil {
		return nil, err
	}
	return questions, nil
}

func (s *QuestionService) GetQuestion(ctx context.Context, id int) (*model.Question, error) {
	q := &model.Question{}
	err := s.db.WithContext(ctx).First(q, id).Error
	if database.IsNotFound(err) {
		return nil, common.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return q, nil
}

// CreateFeedback stores f. The question is not looked up first; a dangling
// reference fails on the foreign key with common.ErrIntegrity.
func (s *QuestionService) CreateFeedback(ctx context.Context, f *model.Feedback) (*model.Feedback, error) {
	if err := s.db.WithContext(ctx).Create(f).Error; err != nil {
		if database.IsForeignKeyViolation(err) {
			return nil, common.Wrap(common.KindIntegrity, common.ErrIntegrity.Msg, err)
		}
		return nil, err
	}
	return f, nil
}
