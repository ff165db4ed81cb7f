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

const (
	defaultExamTitle       = "Exame Final"
	defaultExamMaxAttempts = 3
)

type ExamService struct {
	Exams     *repository.ExamRepository
	Courses   *repository.CourseRepository
	Questions *repository.QuestionRepository
	Access    *AccessService
	Lock      *repository.SubmissionLock
}

func NewExamService(
	exams *repository.ExamRepository,
	courses *repository.CourseRepository,
	questions *repository.QuestionRepository,
	access *AccessService,
	lock *repository.SubmissionLock,
) *ExamService {
	return &ExamService{Exams: exams, Courses: courses, Questions: questions, Access: access, Lock: lock}
}

type ExamView struct {
	ID                uint              `json:"id"`
	CourseID          uint              `json:"course_id"`
	Title             string            `json:"title"`
	Description       string            `json:"description"`
	PassingScore      int               `json:"passing_score"`
	TimeLimitMinutes  *int              `json:"time_limit_minutes"`
	MaxAttempts       int               `json:"max_attempts"`
	IsActive          bool              `json:"is_active"`
	TotalPoints       int               `json:"total_points"`
	AttemptsUsed      int               `json:"attempts_used"`
	RemainingAttempts *int              `json:"remaining_attempts"`
	Questions         []QuestionView    `json:"questions"`
	LastResult        *model.ExamResult `json:"last_result"`
}

type ExamSubmission struct {
	model.ExamResult
	PassingScore      int  `json:"passing_score"`
	MaxAttempts       int  `json:"max_attempts"`
	RemainingAttempts *int `json:"remaining_attempts"`
}

// remaining is nil when attempts are unlimited.
func remainingAttempts(maxAttempts, used int) *int {
	if maxAttempts <= 0 {
		return nil
	}
	left := maxAttempts - used
	if left < 0 {
		left = 0
	}
	return &left
}

// GetByCourse returns the active final exam of a course. Learners need an active enrollment.
func (s *ExamService) GetByCourse(ctx context.Context, user *util.Claims, courseID uint) (*ExamView, error) {
	_, span := tracing.Start(ctx, "ExamService.GetByCourse", attribute.Int64("course.id", int64(courseID)))
	defer span.End()

	exam, err := s.Exams.FindByCourseID(courseID)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	admin := user.IsAdmin()
	if !exam.IsActive && !admin {
		return nil, util.ErrExamNotFound
	}
	var userID uint
	if user != nil {
		userID = user.UserID
	}

	if !admin {
		ok, err := s.Access.HasActiveEnrollment(userID, courseID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, util.ErrEnrollmentRequired
		}
	}

	exam, err = s.Exams.FindWithQuestions(exam.ID)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	attempts, err := s.Exams.ListAttempts(userID, exam.ID)
	if err != nil {
		return nil, err
	}

	questions, totalPoints := questionViews(fromExamLinks(exam.Questions), admin)
	view := &ExamView{
		ID:                exam.ID,
		CourseID:          exam.CourseID,
		Title:             exam.Title,
		Description:       exam.Description,
		PassingScore:      exam.PassingScore,
		TimeLimitMinutes:  exam.TimeLimitMinutes,
		MaxAttempts:       exam.MaxAttempts,
		IsActive:          exam.IsActive,
		TotalPoints:       totalPoints,
		AttemptsUsed:      len(attempts),
		RemainingAttempts: remainingAttempts(exam.MaxAttempts, len(attempts)),
		Questions:         questions,
	}
	if n := len(attempts); n > 0 {
		last := attempts[n-1]
		last.Answers = nil
		view.LastResult = &last
	}
	return view, nil
}

// Submit grades one exam attempt. attempt_number = count(previous attempts)+1; the attempt is
// rejected before anything is stored once max_attempts (when > 0) is reached.
func (s *ExamService) Submit(ctx context.Context, userID, examID uint, answers []SubmittedAnswer) (_ *ExamSubmission, err error) {
	ctx, span := tracing.Start(ctx, "ExamService.Submit",
		attribute.Int64("exam.id", int64(examID)),
		attribute.Int64("user.id", int64(userID)),
	)
	defer func() {
		if err != nil {
			monitoring.ObserveSubmission(util.AssessmentKindExam, submissionErrorLabel(err), nil)
		}
		tracing.End(span, err)
	}()

	exam, err := s.Exams.FindWithQuestions(examID)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	if !exam.IsActive {
		return nil, util.ErrExamNotFound
	}

	ok, err := s.Access.HasActiveEnrollment(userID, exam.CourseID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrEnrollmentRequired
	}

	used, err := s.Exams.CountAttempts(userID, examID)
	if err != nil {
		return nil, err
	}
	if exam.MaxAttempts > 0 && used >= int64(exam.MaxAttempts) {
		return nil, util.ErrAttemptLimitExceeded
	}

	release, acquired, err := s.Lock.Acquire(ctx, util.AssessmentKindExam, userID, examID)
	if err != nil {
		return nil, err
	}
	if !acquired {
		return nil, util.ErrSubmissionInProgress
	}
	defer release()

	startedAt := time.Now()
	outcome := Grade(gradeItems(fromExamLinks(exam.Questions)), answers, exam.PassingScore)

	now := time.Now()
	stored := make([]model.UserExamAnswer, 0, len(outcome.Answers))
	for _, a := range outcome.Answers {
		stored = append(stored, model.UserExamAnswer{
			UserID:           userID,
			ExamID:           examID,
			QuestionID:       a.QuestionID,
			SelectedChoiceID: a.ChoiceID,
			IsCorrect:        a.IsCorrect,
			AnsweredAt:       now,
		})
	}
	result := &model.ExamResult{
		UserID:         userID,
		ExamID:         examID,
		Score:          outcome.Score,
		TotalQuestions: outcome.TotalQuestions,
		CorrectAnswers: outcome.CorrectAnswers,
		Passed:         outcome.Passed,
		StartedAt:      startedAt,
		CompletedAt:    &now,
	}

	// the limit is checked again inside the transaction
	if err := s.Exams.CreateAttempt(ctx, result, stored, exam.MaxAttempts); err != nil {
		return nil, err
	}

	monitoring.ObserveSubmission(util.AssessmentKindExam, outcomeLabel(result.Passed), &result.Score)
	logger.Log.Info("exam submitted",
		zap.Uint("user_id", userID),
		zap.Uint("exam_id", examID),
		zap.Int("attempt", result.AttemptNumber),
		zap.Float64("score", result.Score),
		zap.Bool("passed", result.Passed),
		zap.Int("skipped", outcome.Skipped),
	)

	return &ExamSubmission{
		ExamResult:        *result,
		PassingScore:      exam.PassingScore,
		MaxAttempts:       exam.MaxAttempts,
		RemainingAttempts: remainingAttempts(exam.MaxAttempts, result.AttemptNumber),
	}, nil
}

// ListAttempts returns the learner's attempts in order, each with the answers of that attempt.
func (s *ExamService) ListAttempts(userID, examID uint) ([]model.ExamResult, error) {
	exam, err := s.Exams.FindByID(examID)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	if !exam.IsActive {
		return nil, util.ErrExamNotFound
	}
	return s.Exams.ListAttempts(userID, examID)
}

// ---- admin ----

type ExamRequest struct {
	CourseID         *uint   `json:"course_id"`
	Title            *string `json:"title"`
	Description      *string `json:"description"`
	PassingScore     *int    `json:"passing_score"`
	TimeLimitMinutes *int    `json:"time_limit_minutes"`
	MaxAttempts      *int    `json:"max_attempts"`
	IsActive         *bool   `json:"is_active"`
}

func (s *ExamService) List(courseID uint) ([]model.FinalExam, error) {
	return s.Exams.List(courseID)
}

func (s *ExamService) AdminGet(id uint) (*model.FinalExam, error) {
	exam, err := s.Exams.FindWithQuestions(id)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	return exam, nil
}

func (s *ExamService) Create(req ExamRequest) (*model.FinalExam, error) {
	if req.CourseID == nil || *req.CourseID == 0 {
		return nil, fmt.Errorf("%w: course_id is required", util.ErrValidation)
	}
	if _, err := s.Courses.FindCourseByID(*req.CourseID); err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if _, err := s.Exams.FindByCourseID(*req.CourseID); err == nil {
		return nil, fmt.Errorf("%w: course already has a final exam", util.ErrValidation)
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	exam := &model.FinalExam{
		CourseID:     *req.CourseID,
		Title:        defaultExamTitle,
		PassingScore: 70,
		MaxAttempts:  defaultExamMaxAttempts,
		IsActive:     true,
	}
	if err := applyExamRequest(exam, req); err != nil {
		return nil, err
	}
	if err := s.Exams.Create(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func (s *ExamService) Update(id uint, req ExamRequest) (*model.FinalExam, error) {
	exam, err := s.Exams.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	if req.CourseID != nil && *req.CourseID != exam.CourseID {
		if _, err := s.Courses.FindCourseByID(*req.CourseID); err != nil {
			return nil, notFound(err, util.ErrCourseNotFound)
		}
		if other, err := s.Exams.FindByCourseID(*req.CourseID); err == nil && other.ID != exam.ID {
			return nil, fmt.Errorf("%w: course already has a final exam", util.ErrValidation)
		}
		exam.CourseID = *req.CourseID
	}
	if err := applyExamRequest(exam, req); err != nil {
		return nil, err
	}
	if err := s.Exams.Update(exam); err != nil {
		return nil, err
	}
	return exam, nil
}

func applyExamRequest(exam *model.FinalExam, req ExamRequest) error {
	if req.Title != nil && *req.Title != "" {
		exam.Title = *req.Title
	}
	if req.Description != nil {
		exam.Description = *req.Description
	}
	if req.PassingScore != nil {
		if err := validatePassingScore(*req.PassingScore); err != nil {
			return err
		}
		exam.PassingScore = *req.PassingScore
	}
	if req.TimeLimitMinutes != nil {
		if err := validateTimeLimit(req.TimeLimitMinutes); err != nil {
			return err
		}
		exam.TimeLimitMinutes = req.TimeLimitMinutes
	}
	if req.MaxAttempts != nil {
		// <= 0 means unlimited
		exam.MaxAttempts = *req.MaxAttempts
	}
	if req.IsActive != nil {
		exam.IsActive = *req.IsActive
	}
	return nil
}

func (s *ExamService) Delete(id uint) error {
	if _, err := s.Exams.FindByID(id); err != nil {
		return notFound(err, util.ErrExamNotFound)
	}
	return s.Exams.Delete(id)
}

func (s *ExamService) AddQuestion(examID uint, req AddQuestionRequest) (*model.FinalExamQuestion, error) {
	if _, err := s.Exams.FindByID(examID); err != nil {
		return nil, notFound(err, util.ErrExamNotFound)
	}
	question, err := s.Questions.FindByID(req.QuestionID)
	if err != nil {
		return nil, notFound(err, util.ErrQuestionNotFound)
	}
	linked, err := s.Exams.QuestionLinked(examID, req.QuestionID)
	if err != nil {
		return nil, err
	}
	if linked {
		return nil, util.ErrQuestionAlreadyAdded
	}

	count, err := s.Exams.CountQuestions(examID)
	if err != nil {
		return nil, err
	}
	points, order, err := req.resolve(count)
	if err != nil {
		return nil, err
	}

	link := &model.FinalExamQuestion{ExamID: examID, QuestionID: req.QuestionID, Points: points, Order: order}
	if err := s.Exams.AddQuestion(link); err != nil {
		return nil, err
	}
	link.Question = question
	return link, nil
}

func (s *ExamService) RemoveQuestion(examID, questionID uint) error {
	if _, err := s.Exams.FindByID(examID); err != nil {
		return notFound(err, util.ErrExamNotFound)
	}
	removed, err := s.Exams.RemoveQuestion(examID, questionID)
	if err != nil {
		return err
	}
	if removed == 0 {
		return util.ErrQuestionNotFound
	}
	return nil
}
