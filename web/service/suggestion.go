package service

import (
	"context"

	"github.com/ortosupport/course-assistant/database"
	"github.com/ortosupport/course-assistant/database/model"
	"github.com/ortosupport/course-assistant/util/common"

	"gorm.io/gorm"
)

// SuggestionInput holds the editable fields of a suggestion.
type SuggestionInput struct {
	Text     string
	Category *string
	Active   bool
}

// SuggestionService stores suggested questions. Callers enforce who may
// change them.
type SuggestionService struct {
	db *gorm.DB
}

func NewSuggestionService(db *gorm.DB) *SuggestionService {
	return &SuggestionService{db: db}
}

// List returns all suggestions, newest first.
func (s *SuggestionService) List(ctx context.Context) ([]model.Suggestion, error) {
	return s.find(s.db.WithContext(ctx))
}

// ListActive returns active suggestions only, newest first.
func (s *SuggestionService) ListActive(ctx context.Context) ([]model.Suggestion, error) {
	return s.find(s.db.WithContext(ctx).Where("active = ?", true))
}

func (s *SuggestionService) find(tx *gorm.DB) ([]model.Suggestion, error) {
	suggestions := make([]model.Suggestion, 0)
	if err := tx.Order("created_at DESC").Order("id DESC").Find(&suggestions).Error; err != nil {
		return nil, err
	}
	return suggestions, nil
}

func (s *SuggestionService) Get(ctx context.Context, id int) (*model.Suggestion, error) {
	suggestion := &model.Suggestion{}
	err := s.db.WithContext(ctx).First(suggestion, id).Error
	if database.IsNotFound(err) {
		return nil, common.ErrNotFound
	} else if err != nil {
		return nil, err
	}
	return suggestion, nil
}

func (s *SuggestionService) Create(ctx context.Context, in SuggestionInput) (*model.Suggestion, error) {
	suggestion := &model.Suggestion{
		Text:     in.Text,
		Category: in.Category,
		Active:   in.Active,
	}
	if err := s.db.WithContext(ctx).Create(suggestion).Error; err != nil {
		return nil, err
	}
	return suggestion, nil
}

// Update replaces the editable fields of suggestion id.
func (s *SuggestionService) Update(ctx context.Context, id int, in SuggestionInput) (*model.Suggestion, error) {
	res := s.db.WithContext(ctx).
		Model(&model.Suggestion{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"text":     in.Text,
			"category": in.Category,
			"active":   in.Active,
		})
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, common.ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SuggestionService) Delete(ctx context.Context, id int) error {
	res := s.db.WithContext(ctx).Delete(&model.Suggestion{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return common.ErrNotFound
	}
	return nil
}
