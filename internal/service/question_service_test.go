package service

import (
	"errors"
	"testing"
	"zenda_backend/internal/testutil"
	"zenda_backend/internal/util"
)

func boolPtr(b bool) *bool { return &b }

func TestCreateQuestionWithChoices(t *testing.T) {
	s := newTestServices(t)

	if _, err := s.question.Create(QuestionRequest{QuestionText: strPtr("")}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("empty text: want=%v got=%v", util.ErrValidation, err)
	}

	q, err := s.question.Create(QuestionRequest{
		QuestionText: strPtr("Qual é a taxa básica de juros?"),
		Choices: []ChoiceRequest{
			{ChoiceText: strPtr("IPCA")},
			{ChoiceText: strPtr("Selic"), IsCorrect: boolPtr(true)},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.question.Get(q.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(got.Choices) != 2 {
		t.Fatalf("choices: want=2 got=%d", len(got.Choices))
	}
	if got.Choices[0].IsCorrect || !got.Choices[1].IsCorrect {
		t.Fatalf("correct choice: want second got=%+v", got.Choices)
	}
}

func TestChoiceCRUD(t *testing.T) {
	s := newTestServices(t)
	q := testutil.Question(t, s.db, "2+2?", 0, "4", "5")

	if _, err := s.question.CreateChoice(ChoiceRequest{ChoiceText: strPtr("6")}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("missing question_id: want=%v got=%v", util.ErrValidation, err)
	}
	missing := uint(9999)
	if _, err := s.question.CreateChoice(ChoiceRequest{QuestionID: &missing, ChoiceText: strPtr("6")}); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("unknown question: want=%v got=%v", util.ErrQuestionNotFound, err)
	}

	c, err := s.question.CreateChoice(ChoiceRequest{QuestionID: &q.ID, ChoiceText: strPtr("6"), IsCorrect: boolPtr(true)})
	if err != nil {
		t.Fatalf("create choice: %v", err)
	}
	updated, err := s.question.UpdateChoice(c.ID, ChoiceRequest{IsCorrect: boolPtr(false)})
	if err != nil {
		t.Fatalf("update choice: %v", err)
	}
	if updated.IsCorrect || updated.ChoiceText != "6" {
		t.Fatalf("update choice: want 6/false got=%s/%v", updated.ChoiceText, updated.IsCorrect)
	}

	choices, err := s.question.ListChoices(q.ID)
	if err != nil {
		t.Fatalf("list choices: %v", err)
	}
	if len(choices) != 3 {
		t.Fatalf("list choices: want=3 got=%d", len(choices))
	}

	if err := s.question.DeleteChoice(c.ID); err != nil {
		t.Fatalf("delete choice: %v", err)
	}
	if _, err := s.question.GetChoice(c.ID); !errors.Is(err, util.ErrChoiceNotFound) {
		t.Fatalf("deleted choice: want=%v got=%v", util.ErrChoiceNotFound, err)
	}
}

func TestDeleteQuestionUnlinksAssessments(t *testing.T) {
	s := newTestServices(t)
	course := testutil.Course(t, s.db, "Investimentos")
	lesson := testutil.Lesson(t, s.db, course.ID, "Renda fixa", true, 1)
	quiz := testutil.Quiz(t, s.db, lesson.ID, 70)
	q := testutil.Question(t, s.db, "CDB tem FGC?", 0, "Sim", "Não")
	testutil.QuizQuestion(t, s.db, quiz.ID, q.ID, 1, 0)

	if err := s.question.Delete(q.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.question.Get(q.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("get deleted: want=%v got=%v", util.ErrQuestionNotFound, err)
	}
	count, err := s.quiz.Quizzes.CountQuestions(quiz.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("quiz links: want=0 got=%d", count)
	}
}
