package service

import (
	"context"
	"errors"
	"fmt"
	"time"
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"
	"zenda_backend/pkg/logger"
	"zenda_backend/pkg/monitoring"
	"zenda_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultQuizTitle = "Quiz da Aula"

type QuizService struct {
	Quizzes   *repository.QuizRepository
	Courses   *repository.CourseRepository
	Questions *repository.QuestionRepository
	Access    *AccessService
	Lock      *repository.SubmissionLock
}

func NewQuizService(
	quizzes *repository.QuizRepository,
	courses *repository.CourseRepository,
	questions *repository.QuestionRepository,
	access *AccessService,
	lock *repository.SubmissionLock,
) *QuizService {
	return &QuizService{Quizzes: quizzes, Courses: courses, Questions: questions, Access: access, Lock: lock}
}

type QuizView struct {
	ID               uint              `json:"id"`
	LessonID         uint              `json:"lesson_id"`
	Title            string            `json:"title"`
	Description      string            `json:"description"`
	PassingScore     int               `json:"passing_score"`
	TimeLimitMinutes *int              `json:"time_limit_minutes"`
	IsActive         bool              `json:"is_active"`
	TotalPoints      int               `json:"total_points"`
	Questions        []QuestionView    `json:"questions"`
	PreviousResult   *model.QuizResult `json:"previous_result"`
}

// QuizSubmission is the stored result plus the answers recorded for it.
type QuizSubmission struct {
	model.QuizResult
	PassingScore int                    `json:"passing_score"`
	Answers      []model.UserQuizAnswer `json:"answers"`
}

// GetByLesson returns the active quiz of a lesson. Staff skip the access check and see
// correct choices.
func (s *QuizService) GetByLesson(ctx context.Context, user *util.Claims, lessonID uint) (*QuizView, error) {
	quiz, err := s.Quizzes.FindByLessonID(lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return s.view(ctx, user, quiz.ID)
}

func (s *QuizService) Get(ctx context.Context, user *util.Claims, quizID uint) (*QuizView, error) {
	return s.view(ctx, user, quizID)
}

func (s *QuizService) view(ctx context.Context, user *util.Claims, quizID uint) (*QuizView, error) {
	_, span := tracing.Start(ctx, "QuizService.view", attribute.Int64("quiz.id", int64(quizID)))
	defer span.End()

	quiz, err := s.Quizzes.FindWithQuestions(quizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	admin := user.IsAdmin()
	if !quiz.IsActive && !admin {
		return nil, util.ErrQuizNotFound
	}
	var userID uint
	if user != nil {
		userID = user.UserID
	}

	if !admin {
		lesson, err := s.Courses.FindLessonByID(quiz.LessonID)
		if err != nil {
			return nil, notFound(err, util.ErrLessonNotFound)
		}
		ok, err := s.Access.CanAccessLesson(userID, lesson)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.ErrAccessDenied
		}
	}

	questions, totalPoints := questionViews(fromQuizLinks(quiz.Questions), admin)
	view := &QuizView{
		ID:               quiz.ID,
		LessonID:         quiz.LessonID,
		Title:            quiz.Title,
		Description:      quiz.Description,
		PassingScore:     quiz.PassingScore,
		TimeLimitMinutes: quiz.TimeLimitMinutes,
		IsActive:         quiz.IsActive,
		TotalPoints:      totalPoints,
		Questions:        questions,
	}

	previous, err := s.Quizzes.FindResult(userID, quiz.ID)
	switch {
	case err == nil:
		view.PreviousResult = previous
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}
	return view, nil
}

// Submit grades a quiz submission. A new submission always replaces the previous answers and
// result of the same learner; there is no attempt cap.
func (s *QuizService) Submit(ctx context.Context, userID, quizID uint, answers []SubmittedAnswer) (_ *QuizSubmission, err error) {
	ctx, span := tracing.Start(ctx, "QuizService.Submit",
		attribute.Int64("quiz.id", int64(quizID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() {
		if err != nil {
			monitoring.ObserveSubmission(util.AssessmentKindQuiz, submissionErrorLabel(err), nil)
		}
		tracing.End(span, err)
	}()

	quiz, err := s.Quizzes.FindWithQuestions(quizID)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	if !quiz.IsActive {
		return nil, util.ErrQuizNotFound
	}

	lesson, err := s.Courses.FindLessonByID(quiz.LessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	ok, err := s.Access.CanAccessLesson(userID, lesson)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrAccessDenied
	}

	release, acquired, err := s.Lock.Acquire(ctx, util.AssessmentKindQuiz, userID, quizID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, util.ErrSubmissionInProgress
	}
	defer release()

	startedAt := time.Now()
	outcome := Grade(gradeItems(fromQuizLinks(quiz.Questions)), answers, quiz.PassingScore)

	now := time.Now()
	stored := make([]model.UserQuizAnswer, 0, len(outcome.Answers))
	for _, a := range outcome.Answers {
		stored = append(stored, model.UserQuizAnswer{
			UserID:           userID,
			QuizID:           quizID,
			QuestionID:       a.QuestionID,
			SelectedChoiceID: a.ChoiceID,
			IsCorrect:        a.IsCorrect,
			AnsweredAt:       now,
		})
	}
	result := &model.QuizResult{
		UserID:         userID,
		QuizID:         quizID,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		CorrectAnswers: outcome.CorrectAnswers,
		Passed:         outcome.Passed,
		StartedAt:      startedAt,
		CompletedAt:    &now,
	}

	if err := s.Quizzes.ReplaceAttempt(ctx, result, stored); err != nil {
		return nil, err
	}

	monitoring.ObserveSubmission(util.AssessmentKindQuiz, outcomeLabel(result.Passed), &result.Score)
	logger.Log.Info("quiz submitted",
		zap.Uint("user_id", userID),
		zap.Uint("quiz_id", quizID),
		zap.Float64("score", result.Score),
		zap.Bool("passed", result.Passed),
		zap.Int("skipped", outcome.Skipped),
	)

	return &QuizSubmission{QuizResult: *result, PassingScore: quiz.PassingScore, Answers: stored}, nil
}

// ---- admin ----

type QuizRequest struct {
	LessonID         *uint   `json:"lesson_id"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PassingScore     *int    `json:"passing_score"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	IsActive         *bool   `json:"is_active"`
}

func (s *QuizService) List(lessonID uint) ([]model.LessonQuiz, error) {
	return s.Quizzes.List(lessonID)
}

// AdminGet returns the quiz with its full question set, correct choices included.
func (s *QuizService) AdminGet(id uint) (*model.LessonQuiz, error) {
	quiz, err := s.Quizzes.FindWithQuestions(id)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	return quiz, nil
}

func (s *QuizService) Create(req QuizRequest) (*model.LessonQuiz, error) {
	if req.LessonID == nil || *req.LessonID == 0 {
		return nil, fmt.Errorf("%w: lesson_id is required", util.ErrValidation)
	}
	if _, err := s.Courses.FindLessonByID(*req.LessonID); err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	if _, err := s.Quizzes.FindByLessonID(*req.LessonID); err == nil {
		return nil, fmt.Errorf("%w: lesson already has a quiz", util.ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	quiz := &model.LessonQuiz{
		LessonID:     *req.LessonID,
		Title:        defaultQuizTitle,
		PassingScore: 70,
		IsActive:     true,
	}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.Quizzes.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func (s *QuizService) Update(id uint, req QuizRequest) (*model.LessonQuiz, error) {
	quiz, err := s.Quizzes.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	if req.LessonID != nil && *req.LessonID != quiz.LessonID {
		if _, err := s.Courses.FindLessonByID(*req.LessonID); err != nil {
			return nil, notFound(err, util.ErrLessonNotFound)
		}
		if other, err := s.Quizzes.FindByLessonID(*req.LessonID); err == nil && other.ID != quiz.ID {
			return nil, fmt.Errorf("%w: lesson already has a quiz", util.ErrValidation)
		}
		quiz.LessonID = *req.LessonID
	}
	if err := applyQuizRequest(quiz, req); err != nil {
		return nil, err
	}
	if err := s.Quizzes.Update(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}

func applyQuizRequest(quiz *model.LessonQuiz, req QuizRequest) error {
	if req.Title != nil && *req.Title != "" {
		quiz.Title = *req.Title
	}
	if req.Description != nil {
		quiz.Description = *req.Description
	}
	if req.PassingScore != nil {
		if err := validatePassingScore(*req.PassingScore); err != nil {
			return err
		}
		quiz.PassingScore = *req.PassingScore
	}
	if req.TimeLimitMinutes != nil {
		if err := validateTimeLimit(req.TimeLimitMinutes); err != nil {
			return err
		}
		quiz.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.IsActive != nil {
		quiz.IsActive = *req.IsActive
	}
	return nil
}

func (s *QuizService) Delete(id uint) error {
	if _, err := s.Quizzes.FindByID(id); err != nil {
		return notFound(err, util.ErrQuizNotFound)
	}
	return s.Quizzes.Delete(id)
}

func (s *QuizService) AddQuestion(quizID uint, req AddQuestionRequest) (*model.LessonQuizQuestion, error) {
	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return nil, notFound(err, util.ErrQuizNotFound)
	}
	question, err := s.Questions.FindByID(req.QuestionID)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	linked, err := s.Quizzes.QuestionLinked(quizID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, util.ErrQuestionAlreadyAdded
	}

	count, err := s.Quizzes.CountQuestions(quizID)
	if err != nil {
		return nil, err
	}
	points, order, err := req.resolve(count)
	if err != nil {
		return nil, err
	}

	link := &model.LessonQuizQuestion{QuizID: quizID, QuestionID: req.QuestionID, Points: points, Order: order}
	if err := s.Quizzes.AddQuestion(link); err != nil {
		return nil, err
	}
	link.Question = question
	return link, nil
}

func (s *QuizService) RemoveQuestion(quizID, questionID uint) error {
	if _, err := s.Quizzes.FindByID(quizID); err != nil {
		return notFound(err, util.ErrQuizNotFound)
	}
	removed, err := s.Quizzes.RemoveQuestion(quizID, questionID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return util.ErrQuestionNotFound
	}
	return nil
}

func submissionErrorLabel(err error) string {
	switch {
	case errors.Is(err, util.ErrAccessDenied), errors.Is(err, util.ErrEnrollmentRequired):
		return "denied"
	case errors.Is(err, util.ErrAttemptLimitExceeded):
		return "limit_exceeded"
	case errors.Is(err, util.ErrSubmissionInProgress):
		return "conflict"
	case util.IsNotFound(err):
		return "not_found"
	default:
		return "error"
	}
}
