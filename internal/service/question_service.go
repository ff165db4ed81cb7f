package service

import (
	"fmt"
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"
)

type QuestionService struct {
	Questions *repository.QuestionRepository
}

func NewQuestionService(questions *repository.QuestionRepository) *QuestionService {
	return &QuestionService{Questions: questions}
}

type ChoiceRequest struct {
	QuestionID *uint   `json:"question_id"`
	ChoiceText *string `json:"choice_text"`
	IsCorrect  *bool   `json:"is_correct"`
	Order      *int    `json:"order"`
}

type QuestionRequest struct {
	QuestionText *string         `json:"question_text"`
	Explanation  *string         `json:"explanation"`
	Order        *int            `json:"order"`
	Choices      []ChoiceRequest `json:"choices"`
}

func (s *QuestionService) List(search string, page, limit int) ([]model.Question, int64, error) {
	return s.Questions.List(search, page, limit)
}

func (s *QuestionService) Get(id uint) (*model.Question, error) {
	q, err := s.Questions.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	return q, nil
}

// Create accepts the choices together with the question.
func (s *QuestionService) Create(req QuestionRequest) (*model.Question, error) {
	if req.QuestionText == nil || *req.QuestionText == "" {
		return nil, fmt.Errorf("%w: question_text is required", util.ErrValidation)
	}
	q := &model.Question{QuestionText: *req.QuestionText}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	for i, c := range req.Choices {
		if c.ChoiceText == nil || *c.ChoiceText == "" {
			return nil, fmt.Errorf("%w: choice %d needs choice_text", util.ErrValidation, i)
		}
		choice := model.Choice{ChoiceText: *c.ChoiceText, Order: i}
		if c.IsCorrect != nil {
			choice.IsCorrect = *c.IsCorrect
		}
		if c.Order != nil {
			choice.Order = *c.Order
		}
		q.Choices = append(q.Choices, choice)
	}
	if err := s.Questions.Create(q); err != nil {
		return nil, err
	}
	return q, nil
}

// Update changes the question itself; choices are managed through the choice endpoints.
func (s *QuestionService) Update(id uint, req QuestionRequest) (*model.Question, error) {
	q, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if req.QuestionText != nil {
		if *req.QuestionText == "" {
			return nil, fmt.Errorf("%w: question_text is required", util.ErrValidation)
		}
		q.QuestionText = *req.QuestionText
	}
	if req.Explanation != nil {
		q.Explanation = *req.Explanation
	}
	if req.Order != nil {
		q.Order = *req.Order
	}
	if err := s.Questions.Update(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *QuestionService) Delete(id uint) error {
	if _, err := s.Get(id); err != nil {
		return err
	}
	return s.Questions.Delete(id)
}

func (s *QuestionService) ListChoices(questionID uint) ([]model.Choice, error) {
	return s.Questions.ListChoices(questionID)
}

func (s *QuestionService) GetChoice(id uint) (*model.Choice, error) {
	c, err := s.Questions.FindChoiceByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrChoiceNotFound)
	}
	return c, nil
}

func (s *QuestionService) CreateChoice(req ChoiceRequest) (*model.Choice, error) {
	if req.QuestionID == nil || *req.QuestionID == 0 {
		return nil, fmt.Errorf("%w: question_id is required", util.ErrValidation)
	}
	if req.ChoiceText == nil || *req.ChoiceText == "" {
		return nil, fmt.Errorf("%w: choice_text is required", util.ErrValidation)
	}
	if _, err := s.Get(*req.QuestionID); err != nil {
		return nil, err
	}
	c := &model.Choice{QuestionID: *req.QuestionID, ChoiceText: *req.ChoiceText}
	if req.IsCorrect != nil {
		c.IsCorrect = *req.IsCorrect
	}
	if req.Order != nil {
		c.Order = *req.Order
	}
	if err := s.Questions.CreateChoice(c); err != nil {
		return nil, err
	}
	return c, nil
}

// UpdateChoice never rewrites past answers; their is_correct snapshot stays as graded.
func (s *QuestionService) UpdateChoice(id uint, req ChoiceRequest) (*model.Choice, error) {
	c, err := s.GetChoice(id)
	if err != nil {
		return nil, err
	}
	if req.QuestionID != nil && *req.QuestionID != c.QuestionID {
		if _, err := s.Get(*req.QuestionID); err != nil {
			return nil, err
		}
		c.QuestionID = *req.QuestionID
	}
	if req.ChoiceText != nil {
		if *req.ChoiceText == "" {
			return nil, fmt.Errorf("%w: choice_text is required", util.ErrValidation)
		}
		c.ChoiceText = *req.ChoiceText
	}
	if req.IsCorrect != nil {
		c.IsCorrect = *req.IsCorrect
	}
	if req.Order != nil {
		c.Order = *req.Order
	}
	if err := s.Questions.UpdateChoice(c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *QuestionService) DeleteChoice(id uint) error {
	if _, err := s.GetChoice(id); err != nil {
		return err
	}
	return s.Questions.DeleteChoice(id)
}
