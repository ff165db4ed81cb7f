package service

import (
	"zenda_backend/internal/model"
	"zenda_backend/internal/util"
	"zenda_backend/pkg/logger"

	"go.uber.org/zap"
)

// GradeItem is one weighted question of a quiz or exam together with its choices.
type GradeItem struct {
	QuestionID uint
	Points     int
	Choices    []model.Choice
}

// SubmittedAnswer is one {question_id, choice_id} pair of a submission.
type SubmittedAnswer struct {
	QuestionID uint `json:"question_id" binding:"required"`
	ChoiceID   uint `json:"choice_id" binding:"required"`
}

type SubmitRequest struct {
	Answers []SubmittedAnswer `json:"answers" binding:"required,dive"`
}

type GradedAnswer struct {
	QuestionID uint
	ChoiceID   uint
	IsCorrect  bool
}

type GradeOutcome struct {
	Score          float64
	Earned         int
	Total          int
	TotalQuestions int
	CorrectAnswers int
	Passed         bool
	Answers        []GradedAnswer
	Skipped        int
}

// Grade scores answers against items.
//
// Pairs whose question is not part of items, or whose choice does not belong to the question,
// are skipped and produce no graded answer. When a question appears more than once only the first
// pair counts. score = earned/total*100 rounded to two decimals (0 when total is 0) and
// passed = score >= passingScore.
func Grade(items []GradeItem, answers []SubmittedAnswer, passingScore int) GradeOutcome {
	type entry struct {
		points  int
		choices map[uint]bool
	}

	byQuestion := make(map[uint]entry, len(items))
	out := GradeOutcome{TotalQuestions: len(items)}
	for _, item := range items {
		choices := make(map[uint]bool, len(item.Choices))
		for _, c := range item.Choices {
			choices[c.ID] = c.IsCorrect
		}
		byQuestion[item.QuestionID] = entry{points: item.Points, choices: choices}
		out.Total += item.Points
	}

	seen := make(map[uint]bool, len(answers))
	for _, a := range answers {
		e, ok := byQuestion[a.QuestionID]
		if !ok {
			logger.Log.Debug("skip answer for question outside assessment", zap.Uint("question_id", a.QuestionID))
			out.Skipped++
			continue
		}
		correct, ok := e.choices[a.ChoiceID]
		if !ok {
			logger.Log.Debug("skip answer with foreign choice",
				zap.Uint("question_id", a.QuestionID), zap.Uint("choice_id", a.ChoiceID))
			out.Skipped++
			continue
		}
		if seen[a.QuestionID] {
			out.Skipped++
			continue
		}
		seen[a.QuestionID] = true

		out.Answers = append(out.Answers, GradedAnswer{QuestionID: a.QuestionID, ChoiceID: a.ChoiceID, IsCorrect: correct})
		if correct {
			out.Earned += e.points
			out.CorrectAnswers++
		}
	}

	if out.Total > 0 {
		out.Score = util.Round2(float64(out.Earned) / float64(out.Total) * 100)
	}
	out.Passed = out.Score >= float64(passingScore)
	return out
}
