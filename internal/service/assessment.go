package service

import (
	"errors"
	"fmt"
	"zenda_backend/internal/model"
	"zenda_backend/internal/util"

	"gorm.io/gorm"
)

const defaultQuestionPoints = 1

// weightedQuestion is the common shape of LessonQuizQuestion and FinalExamQuestion.
type weightedQuestion struct {
	Question *model.Question
	Points   int
	Order    int
}

// Links whose question was soft-deleted load with a nil Question and are left out of the total.
// QuestionService.Delete removes the links as well, so this only happens after out-of-band edits.
func fromQuizLinks(links []model.LessonQuizQuestion) []weightedQuestion {
	out := make([]weightedQuestion, 0, len(links))
	for _, l := range links {
		if l.Question == nil {
			continue
		}
		out = append(out, weightedQuestion{Question: l.Question, Points: l.Points, Order: l.Order})
	}
	return out
}

// Same rule as fromQuizLinks.
func fromExamLinks(links []model.FinalExamQuestion) []weightedQuestion {
	out := make([]weightedQuestion, 0, len(links))
	for _, l := range links {
		if l.Question == nil {
			continue
		}
		out = append(out, weightedQuestion{Question: l.Question, Points: l.Points, Order: l.Order})
	}
	return out
}

func gradeItems(questions []weightedQuestion) []GradeItem {
	items := make([]GradeItem, 0, len(questions))
	for _, q := range questions {
		items = append(items, GradeItem{QuestionID: q.Question.ID, Points: q.Points, Choices: q.Question.Choices})
	}
	return items
}

type ChoiceView struct {
	ID         uint   `json:"id"`
	ChoiceText string `json:"choice_text"`
	Order      int    `json:"order"`
	IsCorrect  *bool  `json:"is_correct,omitempty"`
}

type QuestionView struct {
	ID           uint         `json:"id"`
	QuestionText string       `json:"question_text"`
	Explanation  string       `json:"explanation,omitempty"`
	Points       int          `json:"points"`
	Order        int          `json:"order"`
	Choices      []ChoiceView `json:"choices"`
}

// questionViews hides is_correct and explanations unless reveal is set (staff).
func questionViews(questions []weightedQuestion, reveal bool) ([]QuestionView, int) {
	views := make([]QuestionView, 0, len(questions))
	totalPoints := 0
	for _, q := range questions {
		v := QuestionView{
			ID:           q.Question.ID,
			QuestionText: q.Question.QuestionText,
			Points:       q.Points,
			Order:        q.Order,
			Choices:      make([]ChoiceView, 0, len(q.Question.Choices)),
		}
		if reveal {
			v.Explanation = q.Question.Explanation
		}
		for _, c := range q.Question.Choices {
			cv := ChoiceView{ID: c.ID, ChoiceText: c.ChoiceText, Order: c.Order}
			if reveal {
				correct := c.IsCorrect
				cv.IsCorrect = &correct
			}
			v.Choices = append(v.Choices, cv)
		}
		totalPoints += q.Points
		views = append(views, v)
	}
	return views, totalPoints
}

// AddQuestionRequest links a question; points defaults to 1 and order to the current question count.
type AddQuestionRequest struct {
	QuestionID uint `json:"question_id" binding:"required"`
	Points     *int `json:"points"`
	Order      *int `json:"order"`
}

func (r AddQuestionRequest) resolve(count int64) (points, order int, err error) {
	points = defaultQuestionPoints
	if r.Points != nil {
		points = *r.Points
	}
	if points < 0 {
		return 0, 0, fmt.Errorf("%w: points must not be negative", util.ErrValidation)
	}
	order = int(count)
	if r.Order != nil {
		order = *r.Order
	}
	return points, order, nil
}

func validatePassingScore(score int) error {
	if score < 0 || score > 100 {
		return fmt.Errorf("%w: passing_score must be within 0-100", util.ErrValidation)
	}
	return nil
}

func validateTimeLimit(minutes *int) error {
	if minutes != nil && *minutes <= 0 {
		return fmt.Errorf("%w: time_limit_minutes must be positive", util.ErrValidation)
	}
	return nil
}

// notFound maps gorm.ErrRecordNotFound to target and leaves other errors untouched.
func notFound(err, target error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return err
}

func outcomeLabel(passed bool) string {
	if passed {
		return "passed"
	}
	return "failed"
}
