package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
	"zenda_backend/internal/config"
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"
	"zenda_backend/pkg/logger"
	"zenda_backend/pkg/tracing"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const DefaultCoursePassThreshold = 70.0

type EnrollmentService struct {
	Enrollments *repository.EnrollmentRepository
	Courses     *repository.CourseRepository
	Quizzes     *repository.QuizRepository

	mu            sync.RWMutex
	passThreshold float64
}

func NewEnrollmentService(
	enrollments *repository.EnrollmentRepository,
	courses *repository.CourseRepository,
	quizzes *repository.QuizRepository,
	passThreshold float64,
) *EnrollmentService {
	return &EnrollmentService{
		Enrollments:   enrollments,
		Courses:       courses,
		Quizzes:       quizzes,
		passThreshold: passThreshold,
	}
}

func (s *EnrollmentService) PassThreshold() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.passThreshold
}

// ApplyConfig is registered as a config reload callback.
func (s *EnrollmentService) ApplyConfig(cfg *config.Config) {
	s.mu.Lock()
	old := s.passThreshold
	s.passThreshold = cfg.Assessment.CoursePassThreshold
	s.mu.Unlock()

	if old != cfg.Assessment.CoursePassThreshold {
		logger.Log.Info("course pass threshold updated",
			zap.Float64("old", old), zap.Float64("new", cfg.Assessment.CoursePassThreshold))
	}
}

type EnrollRequest struct {
	CourseID uint `json:"course_id" binding:"required"`
}

// Enroll creates a pending enrollment; an existing enrollment of any status is a validation error.
func (s *EnrollmentService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	course, err := s.Courses.FindCourseByID(courseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !course.IsActive {
		return nil, util.ErrCourseNotFound
	}

	if _, err := s.Enrollments.FindByUserAndCourse(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		Status:     model.EnrollmentPending,
		EnrolledAt: time.Now(),
	}
	if err := s.Enrollments.Create(enrollment); err != nil {
		return nil, err
	}
	enrollment.Course = course
	return enrollment, nil
}

func (s *EnrollmentService) List(userID uint) ([]model.Enrollment, error) {
	return s.Enrollments.ListByUser(userID)
}

// Get returns the enrollment only to its owner; others get not-found.
func (s *EnrollmentService) Get(userID, id uint) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	if enrollment.UserID != userID {
		return nil, util.ErrEnrollmentNotFound
	}
	return enrollment, nil
}

type LessonQuizScore struct {
	LessonID     uint       `json:"lesson_id"`
	LessonTitle  string     `json:"lesson_title"`
	LessonOrder  int        `json:"lesson_order"`
	QuizID       uint       `json:"quiz_id"`
	QuizTitle    string     `json:"quiz_title"`
	PassingScore int        `json:"passing_score"`
	Score        *float64   `json:"score"`
	Passed       *bool      `json:"passed"`
	CompletedAt  *time.Time `json:"completed_at"`
}

type CourseQuizReport struct {
	EnrollmentID     uint              `json:"enrollment_id"`
	CourseID         uint              `json:"course_id"`
	CourseTitle      string            `json:"course_title"`
	Quizzes          []LessonQuizScore `json:"quizzes"`
	TotalQuizzes     int               `json:"total_quizzes"`
	CompletedQuizzes int               `json:"completed_quizzes"`
	AverageScore     float64           `json:"average_score"`
	PassThreshold    float64           `json:"pass_threshold"`
	CoursePassed     bool              `json:"course_passed"`
}

// QuizResults averages the learner's scores over completed quizzes only. Lessons without an
// active quiz are left out; quizzes without a result are listed with a null score.
func (s *EnrollmentService) QuizResults(ctx context.Context, userID, enrollmentID uint) (*CourseQuizReport, error) {
	_, span := tracing.Start(ctx, "EnrollmentService.QuizResults", attribute.Int64("enrollment.id", int64(enrollmentID)))
	defer span.End()

	enrollment, err := s.Get(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	course, err := s.Courses.FindCourseWithLessons(enrollment.CourseID)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}

	lessonIDs := make([]uint, 0, len(course.Lessons))
	for _, l := range course.Lessons {
		lessonIDs = append(lessonIDs, l.ID)
	}
	quizzes, err := s.Quizzes.ListActiveByLessonIDs(lessonIDs)
	if err != nil {
		return nil, err
	}
	quizByLesson := make(map[uint]model.LessonQuiz, len(quizzes))
	quizIDs := make([]uint, 0, len(quizzes))
	for _, q := range quizzes {
		quizByLesson[q.LessonID] = q
		quizIDs = append(quizIDs, q.ID)
	}
	results, err := s.Quizzes.ListResults(userID, quizIDs)
	if err != nil {
		return nil, err
	}
	resultByQuiz := make(map[uint]model.QuizResult, len(results))
	for _, r := range results {
		resultByQuiz[r.QuizID] = r
	}

	threshold := s.PassThreshold()
	report := &CourseQuizReport{
		EnrollmentID:  enrollment.ID,
		CourseID:      course.ID,
		CourseTitle:   course.Title,
		Quizzes:       make([]LessonQuizScore, 0, len(quizzes)),
		PassThreshold: threshold,
	}

	sum := 0.0
	for _, lesson := range course.Lessons {
		quiz, ok := quizByLesson[lesson.ID]
		if !ok {
			continue
		}
		row := LessonQuizScore{
			LessonID:     lesson.ID,
			LessonTitle:  lesson.Title,
			LessonOrder:  lesson.Order,
			QuizID:       quiz.ID,
			QuizTitle:    quiz.Title,
			PassingScore: quiz.PassingScore,
		}
		if r, ok := resultByQuiz[quiz.ID]; ok {
			score, passed := r.Score, r.Passed
			row.Score = &score
			row.Passed = &passed
			row.CompletedAt = r.CompletedAt
			sum += r.Score
			report.CompletedQuizzes++
		}
		report.Quizzes = append(report.Quizzes, row)
	}

	report.TotalQuizzes = len(report.Quizzes)
	if report.CompletedQuizzes > 0 {
		report.AverageScore = util.Round2(sum / float64(report.CompletedQuizzes))
	}
	report.CoursePassed = report.AverageScore >= threshold
	return report, nil
}

// RetakeCourse wipes lesson progress, quiz answers/results and exam attempts of the learner for
// the enrollment's course. The enrollment status is not changed.
func (s *EnrollmentService) RetakeCourse(ctx context.Context, userID, enrollmentID uint) (*model.Enrollment, error) {
	ctx, span := tracing.Start(ctx, "EnrollmentService.RetakeCourse", attribute.Int64("enrollment.id", int64(enrollmentID)))
	defer span.End()

	enrollment, err := s.Get(userID, enrollmentID)
	if err != nil {
		return nil, err
	}
	if err := s.Enrollments.ResetCourseProgress(ctx, userID, enrollment.CourseID); err != nil {
		return nil, err
	}
	logger.Log.Info("course progress reset",
		zap.Uint("user_id", userID), zap.Uint("course_id", enrollment.CourseID))
	return enrollment, nil
}

// ---- admin ----

func (s *EnrollmentService) ListAll(status string, courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	st := model.EnrollmentStatus(status)
	if status != "" && !st.Valid() {
		return nil, 0, fmt.Errorf("%w: %s", util.ErrInvalidStatus, status)
	}
	return s.Enrollments.ListAll(st, courseID, page, limit)
}

func (s *EnrollmentService) AdminGet(id uint) (*model.Enrollment, error) {
	enrollment, err := s.Enrollments.FindByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrEnrollmentNotFound)
	}
	return enrollment, nil
}

// Approve activates the enrollment and stamps activated_at.
func (s *EnrollmentService) Approve(id uint) (*model.Enrollment, error) {
	enrollment, err := s.AdminGet(id)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	enrollment.Status = model.EnrollmentActive
	enrollment.ActivatedAt = &now
	if err := s.Enrollments.Update(enrollment); err != nil {
		return nil, err
	}
	logger.Log.Info("enrollment approved", zap.Uint("enrollment_id", id), zap.Uint("user_id", enrollment.UserID))
	return enrollment, nil
}

func (s *EnrollmentService) Cancel(id uint) (*model.Enrollment, error) {
	enrollment, err := s.AdminGet(id)
	if err != nil {
		return nil, err
	}
	enrollment.Status = model.EnrollmentCancelled
	if err := s.Enrollments.Update(enrollment); err != nil {
		return nil, err
	}
	return enrollment, nil
}

func (s *EnrollmentService) Delete(id uint) error {
	if _, err := s.AdminGet(id); err != nil {
		return err
	}
	return s.Enrollments.Delete(id)
}
