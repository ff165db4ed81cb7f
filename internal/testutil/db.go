// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"
	"zenda_backend/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database migrated with the production model list.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	// one connection keeps the in-memory database alive and shared
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(model.All()...); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("create %T: %v", value, err)
	}
}

func User(t *testing.T, db *gorm.DB, email string, staff bool) *model.User {
	t.Helper()
	u := &model.User{Email: email, Username: email, IsActive: true, IsStaff: staff}
	mustCreate(t, db, u)
	return u
}

func Course(t *testing.T, db *gorm.DB, title string) *model.Course {
	t.Helper()
	c := &model.Course{Title: title, Slug: fmt.Sprintf("%s-%d", title, time.Now().UnixNano()), IsActive: true}
	mustCreate(t, db, c)
	return c
}

func Lesson(t *testing.T, db *gorm.DB, courseID uint, title string, free bool, order int) *model.Lesson {
	t.Helper()
	l := &model.Lesson{CourseID: courseID, Title: title, Slug: fmt.Sprintf("%s-%d", title, order), IsFree: free, Order: order}
	mustCreate(t, db, l)
	return l
}

func Enrollment(t *testing.T, db *gorm.DB, userID, courseID uint, status model.EnrollmentStatus) *model.Enrollment {
	t.Helper()
	e := &model.Enrollment{UserID: userID, CourseID: courseID, Status: status, EnrolledAt: time.Now()}
	mustCreate(t, db, e)
	return e
}

// Question creates a question with len(choices) choices; correct is the index of the right one.
func Question(t *testing.T, db *gorm.DB, text string, correct int, choices ...string) *model.Question {
	t.Helper()
	q := &model.Question{QuestionText: text}
	for i, c := range choices {
		q.Choices = append(q.Choices, model.Choice{ChoiceText: c, IsCorrect: i == correct, Order: i})
	}
	mustCreate(t, db, q)
	return q
}

func Quiz(t *testing.T, db *gorm.DB, lessonID uint, passingScore int) *model.LessonQuiz {
	t.Helper()
	q := &model.LessonQuiz{LessonID: lessonID, Title: "Quiz", PassingScore: passingScore, IsActive: true}
	mustCreate(t, db, q)
	return q
}

func QuizQuestion(t *testing.T, db *gorm.DB, quizID, questionID uint, points, order int) {
	t.Helper()
	mustCreate(t, db, &model.LessonQuizQuestion{QuizID: quizID, QuestionID: questionID, Points: points, Order: order})
}

func Exam(t *testing.T, db *gorm.DB, courseID uint, passingScore, maxAttempts int) *model.FinalExam {
	t.Helper()
	e := &model.FinalExam{CourseID: courseID, Title: "Exame", PassingScore: passingScore, MaxAttempts: maxAttempts, IsActive: true}
	mustCreate(t, db, e)
	return e
}

func ExamQuestion(t *testing.T, db *gorm.DB, examID, questionID uint, points, order int) {
	t.Helper()
	mustCreate(t, db, &model.FinalExamQuestion{ExamID: examID, QuestionID: questionID, Points: points, Order: order})
}
