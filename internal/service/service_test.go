package service

import (
	"testing"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/testutil"
	"zenda_backend/internal/util"

	"gorm.io/gorm"
)

type testServices struct {
	db         *gorm.DB
	quiz       *QuizService
	exam       *ExamService
	enrollment *EnrollmentService
	course     *CourseService
	question   *QuestionService
	user       *UserService
	stats      *StatsService
}

func newTestServices(t *testing.T) *testServices {
	t.Helper()
	db := testutil.NewDB(t)

	users := repository.NewUserRepository(db)
	courses := repository.NewCourseRepository(db)
	enrollments := repository.NewEnrollmentRepository(db)
	questions := repository.NewQuestionRepository(db)
	quizzes := repository.NewQuizRepository(db)
	exams := repository.NewExamRepository(db)
	lock := repository.NewSubmissionLock(nil, 0)
	access := NewAccessService(enrollments)

	return &testServices{
		db:         db,
		quiz:       NewQuizService(quizzes, courses, questions, access, lock),
		exam:       NewExamService(exams, courses, questions, access, lock),
		enrollment: NewEnrollmentService(enrollments, courses, quizzes, DefaultCoursePassThreshold),
		course:     NewCourseService(courses, enrollments, access),
		question:   NewQuestionService(questions),
		user:       NewUserService(users),
		stats:      NewStatsService(repository.NewStatsRepository(db)),
	}
}

func learnerClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id}
}

func staffClaims(id uint) *util.Claims {
	return &util.Claims{UserID: id, IsStaff: true}
}
