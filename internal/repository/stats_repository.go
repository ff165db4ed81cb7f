package repository

import (
	"zenda_backend/internal/model"

	"gorm.io/gorm"
)

type AdminStats struct {
	TotalUsers           int64   `json:"total_users"`
	StaffUsers           int64   `json:"staff_users"`
	TotalCourses         int64   `json:"total_courses"`
	ActiveCourses        int64   `json:"active_courses"`
	TotalLessons         int64   `json:"total_lessons"`
	TotalQuestions       int64   `json:"total_questions"`
	PendingEnrollments   int64   `json:"pending_enrollments"`
	ActiveEnrollments    int64   `json:"active_enrollments"`
	CancelledEnrollments int64   `json:"cancelled_enrollments"`
	QuizSubmissions      int64   `json:"quiz_submissions"`
	QuizPassed           int64   `json:"quiz_passed"`
	AverageQuizScore     float64 `json:"average_quiz_score"`
	ExamAttempts         int64   `json:"exam_attempts"`
	ExamPassed           int64   `json:"exam_passed"`
}

type StatsRepository struct {
	DB *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{DB: db}
}

func (r *StatsRepository) Collect() (*AdminStats, error) {
	var s AdminStats
	counts := []struct {
		dest  *int64
		query *gorm.DB
	}{
		{&s.TotalUsers, r.DB.Model(&model.User{})},
		{&s.StaffUsers, r.DB.Model(&model.User{}).Where("is_staff = ? OR is_superuser = ?", true, true)},
		{&s.TotalCourses, r.DB.Model(&model.Course{})},
		{&s.ActiveCourses, r.DB.Model(&model.Course{}).Where("is_active = ?", true)},
		{&s.TotalLessons, r.DB.Model(&model.Lesson{})},
		{&s.TotalQuestions, r.DB.Model(&model.Question{})},
		{&s.PendingEnrollments, r.DB.Model(&model.Enrollment{}).Where("status = ?", model.EnrollmentPending)},
		{&s.ActiveEnrollments, r.DB.Model(&model.Enrollment{}).Where("status = ?", model.EnrollmentActive)},
		{&s.CancelledEnrollments, r.DB.Model(&model.Enrollment{}).Where("status = ?", model.EnrollmentCancelled)},
		{&s.QuizSubmissions, r.DB.Model(&model.QuizResult{})},
		{&s.QuizPassed, r.DB.Model(&model.QuizResult{}).Where("passed = ?", true)},
		{&s.ExamAttempts, r.DB.Model(&model.ExamResult{})},
		{&s.ExamPassed, r.DB.Model(&model.ExamResult{}).Where("passed = ?", true)},
	}
	for _, c := range counts {
		if err := c.query.Count(c.dest).Error; err != nil {
			return nil, err
		}
	}

	var avg *float64
	if err := r.DB.Model(&model.QuizResult{}).Select("AVG(score)").Scan(&avg).Error; err != nil {
		return nil, err
	}
	if avg != nil {
		s.AverageQuizScore = *avg
	}
	return &s, nil
}
