package service

import (
	"context"
	"errors"
	"testing"
	"time"
	"zenda_backend/internal/model"
	"zenda_backend/internal/testutil"
	"zenda_backend/internal/util"
)

type quizFixture struct {
	learner *model.User
	lesson  *model.Lesson
	quiz    *model.LessonQuiz
	q1, q2  *model.Question
}

// q1 weighs 1 and q2 weighs 2; choice index 0 is correct for both.
func newQuizFixture(t *testing.T, s *testServices, free bool) quizFixture {
	t.Helper()
	learner := testutil.User(t, s.db, "learner@zenda.ao", false)
	course := testutil.Course(t, s.db, "financas")
	lesson := testutil.Lesson(t, s.db, course.ID, "orcamento", free, 1)
	quiz := testutil.Quiz(t, s.db, lesson.ID, 70)
	q1 := testutil.Question(t, s.db, "O que é um orçamento?", 0, "Plano", "Dívida")
	q2 := testutil.Question(t, s.db, "O que é poupança?", 0, "Reserva", "Gasto")
	testutil.QuizQuestion(t, s.db, quiz.ID, q1.ID, 1, 0)
	testutil.QuizQuestion(t, s.db, quiz.ID, q2.ID, 2, 1)
	return quizFixture{learner: learner, lesson: lesson, quiz: quiz, q1: q1, q2: q2}
}

func TestQuizSubmitRetakeOverwrites(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	ctx := context.Background()

	first, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, []SubmittedAnswer{
		{QuestionID: f.q1.ID, ChoiceID: f.q1.Choices[0].ID},
		{QuestionID: f.q2.ID, ChoiceID: f.q2.Choices[1].ID},
	})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if first.Score != 33.33 || first.Passed {
		t.Fatalf("first submit: want=33.33/false got=%v/%v", first.Score, first.Passed)
	}
	if first.TotalQuestions != 2 || first.CorrectAnswers != 1 {
		t.Fatalf("first counts: want=2/1 got=%d/%d", first.TotalQuestions, first.CorrectAnswers)
	}

	second, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, []SubmittedAnswer{
		{QuestionID: f.q1.ID, ChoiceID: f.q1.Choices[0].ID},
		{QuestionID: f.q2.ID, ChoiceID: f.q2.Choices[0].ID},
	})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if second.Score != 100 || !second.Passed {
		t.Fatalf("second submit: want=100/true got=%v/%v", second.Score, second.Passed)
	}

	var results []model.QuizResult
	s.db.Where("user_id = ? AND quiz_id = ?", f.learner.ID, f.quiz.ID).Find(&results)
	if len(results) != 1 || results[0].ID == first.ID {
		t.Fatalf("results: want only the second row got=%+v", results)
	}
	var answers int64
	s.db.Model(&model.UserQuizAnswer{}).Where("user_id = ? AND quiz_id = ?", f.learner.ID, f.quiz.ID).Count(&answers)
	if answers != 2 {
		t.Fatalf("stored answers: want=2 got=%d", answers)
	}
}

func TestQuizSubmitSkipsQuestionsOutsideQuiz(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	other := testutil.Question(t, s.db, "fora do quiz", 0, "a", "b")

	res, err := s.quiz.Submit(context.Background(), f.learner.ID, f.quiz.ID, []SubmittedAnswer{
		{QuestionID: other.ID, ChoiceID: other.Choices[0].ID},
		{QuestionID: f.q1.ID, ChoiceID: f.q2.Choices[0].ID},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if res.Score != 0 || len(res.Answers) != 0 {
		t.Fatalf("want score 0 and no stored answers got=%v/%d", res.Score, len(res.Answers))
	}
	if res.TotalQuestions != 2 {
		t.Fatalf("total questions counts the quiz, not the answers: want=2 got=%d", res.TotalQuestions)
	}
}

func TestQuizSubmitAccess(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, false)
	ctx := context.Background()
	answers := []SubmittedAnswer{{QuestionID: f.q1.ID, ChoiceID: f.q1.Choices[0].ID}}

	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, answers); !errors.Is(err, util.ErrAccessDenied) {
		t.Fatalf("no enrollment: want=%v got=%v", util.ErrAccessDenied, err)
	}

	enrollment := testutil.Enrollment(t, s.db, f.learner.ID, f.lesson.CourseID, model.EnrollmentPending)
	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, answers); !errors.Is(err, util.ErrAccessDenied) {
		t.Fatalf("pending enrollment: want=%v got=%v", util.ErrAccessDenied, err)
	}

	if _, err := s.enrollment.Approve(enrollment.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, answers); err != nil {
		t.Fatalf("active enrollment: want nil got=%v", err)
	}
}

func TestQuizSubmitInactiveIsNotFound(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	s.db.Model(&model.LessonQuiz{}).Where("id = ?", f.quiz.ID).Update("is_active", false)

	_, err := s.quiz.Submit(context.Background(), f.learner.ID, f.quiz.ID, nil)
	if !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("want=%v got=%v", util.ErrQuizNotFound, err)
	}
	if _, err := s.quiz.Submit(context.Background(), f.learner.ID, 9999, nil); !errors.Is(err, util.ErrQuizNotFound) {
		t.Fatalf("missing quiz: want=%v got=%v", util.ErrQuizNotFound, err)
	}
}

func TestQuizGetByLessonHidesCorrectness(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	ctx := context.Background()

	view, err := s.quiz.GetByLesson(ctx, learnerClaims(f.learner.ID), f.lesson.ID)
	if err != nil {
		t.Fatalf("learner view: %v", err)
	}
	if view.TotalPoints != 3 || len(view.Questions) != 2 {
		t.Fatalf("view: want 2 questions/3 points got=%d/%d", len(view.Questions), view.TotalPoints)
	}
	for _, q := range view.Questions {
		for _, c := range q.Choices {
			if c.IsCorrect != nil {
				t.Fatalf("learner must not see is_correct on choice %d", c.ID)
			}
		}
	}
	if view.PreviousResult != nil {
		t.Fatalf("previous result: want nil got=%+v", view.PreviousResult)
	}

	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, nil); err != nil {
		t.Fatalf("submit: %v", err)
	}
	view, err = s.quiz.GetByLesson(ctx, learnerClaims(f.learner.ID), f.lesson.ID)
	if err != nil {
		t.Fatalf("learner view after submit: %v", err)
	}
	if view.PreviousResult == nil || view.PreviousResult.Score != 0 {
		t.Fatalf("previous result: want score 0 got=%+v", view.PreviousResult)
	}

	staffView, err := s.quiz.GetByLesson(ctx, staffClaims(999), f.lesson.ID)
	if err != nil {
		t.Fatalf("staff view: %v", err)
	}
	if c := staffView.Questions[0].Choices[0]; c.IsCorrect == nil || !*c.IsCorrect {
		t.Fatalf("staff should see the correct choice, got=%+v", c)
	}
}

func TestQuizAdminQuestionLinks(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	extra := testutil.Question(t, s.db, "nova", 1, "x", "y")

	link, err := s.quiz.AddQuestion(f.quiz.ID, AddQuestionRequest{QuestionID: extra.ID})
	if err != nil {
		t.Fatalf("add question: %v", err)
	}
	if link.Points != 1 || link.Order != 2 {
		t.Fatalf("defaults: want points=1 order=2 got=%d/%d", link.Points, link.Order)
	}
	if _, err := s.quiz.AddQuestion(f.quiz.ID, AddQuestionRequest{QuestionID: extra.ID}); !errors.Is(err, util.ErrQuestionAlreadyAdded) {
		t.Fatalf("duplicate add: want=%v got=%v", util.ErrQuestionAlreadyAdded, err)
	}

	if err := s.quiz.RemoveQuestion(f.quiz.ID, extra.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.quiz.RemoveQuestion(f.quiz.ID, extra.ID); !errors.Is(err, util.ErrQuestionNotFound) {
		t.Fatalf("remove twice: want=%v got=%v", util.ErrQuestionNotFound, err)
	}
}

func TestQuizAdminCreateValidation(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)

	bad := 120
	if _, err := s.quiz.Create(QuizRequest{LessonID: &f.lesson.ID, PassingScore: &bad}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("passing score 120: want=%v got=%v", util.ErrValidation, err)
	}
	// the fixture lesson already has a quiz
	if _, err := s.quiz.Create(QuizRequest{LessonID: &f.lesson.ID}); !errors.Is(err, util.ErrValidation) {
		t.Fatalf("second quiz for lesson: want=%v got=%v", util.ErrValidation, err)
	}

	lesson := testutil.Lesson(t, s.db, f.lesson.CourseID, "juros", false, 2)
	inactive := false
	quiz, err := s.quiz.Create(QuizRequest{LessonID: &lesson.ID, IsActive: &inactive})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	stored, _ := s.quiz.AdminGet(quiz.ID)
	if stored.IsActive || stored.PassingScore != 70 || stored.Title != defaultQuizTitle {
		t.Fatalf("stored quiz: want inactive/70/%q got=%v/%d/%q", defaultQuizTitle, stored.IsActive, stored.PassingScore, stored.Title)
	}
}

func TestQuizGradeSurvivesChoiceEdit(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	ctx := context.Background()

	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, []SubmittedAnswer{
		{QuestionID: f.q1.ID, ChoiceID: f.q1.Choices[0].ID},
		{QuestionID: f.q2.ID, ChoiceID: f.q2.Choices[0].ID},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	if err := s.db.Model(&model.Choice{}).Where("id = ?", f.q2.Choices[0].ID).Update("is_correct", false).Error; err != nil {
		t.Fatalf("flip choice: %v", err)
	}

	answers, err := s.quiz.Quizzes.ListAnswers(f.learner.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("list answers: %v", err)
	}
	if len(answers) != 2 {
		t.Fatalf("answers: want=2 got=%d", len(answers))
	}
	for _, a := range answers {
		if !a.IsCorrect {
			t.Fatalf("answer %d: want is_correct=true got=false", a.QuestionID)
		}
	}
	result, err := s.quiz.Quizzes.FindResult(f.learner.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("find result: %v", err)
	}
	if result.Score != 100 || !result.Passed {
		t.Fatalf("stored result: want=100/true got=%v/%v", result.Score, result.Passed)
	}
}

func TestQuizReplaceConflictRollsBack(t *testing.T) {
	s := newTestServices(t)
	f := newQuizFixture(t, s, true)
	ctx := context.Background()

	if _, err := s.quiz.Submit(ctx, f.learner.ID, f.quiz.ID, []SubmittedAnswer{
		{QuestionID: f.q1.ID, ChoiceID: f.q1.Choices[0].ID},
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}

	// two rows for the same question hit the unique index like a concurrent submit would
	now := time.Now()
	dup := model.UserQuizAnswer{UserID: f.learner.ID, QuizID: f.quiz.ID, QuestionID: f.q2.ID, SelectedChoiceID: f.q2.Choices[0].ID, AnsweredAt: now}
	result := &model.QuizResult{UserID: f.learner.ID, QuizID: f.quiz.ID, TotalQuestions: 2, StartedAt: now, CompletedAt: &now}
	err := s.quiz.Quizzes.ReplaceAttempt(ctx, result, []model.UserQuizAnswer{dup, dup})
	if !errors.Is(err, util.ErrSubmissionInProgress) {
		t.Fatalf("replace: want=%v got=%v", util.ErrSubmissionInProgress, err)
	}

	kept, err := s.quiz.Quizzes.FindResult(f.learner.ID, f.quiz.ID)
	if err != nil {
		t.Fatalf("previous result after rollback: %v", err)
	}
	if kept.CorrectAnswers != 1 {
		t.Fatalf("previous result: want correct=1 got=%d", kept.CorrectAnswers)
	}
}
