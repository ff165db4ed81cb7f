package model

import (
	"time"

	"gorm.io/gorm"
)

// swagger:model
type BaseModel struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// Record is used by learner-owned rows that are replaced on retake. They have no soft delete so
// their unique indexes free up as soon as a row is removed.
type Record struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every model managed by AutoMigrate.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Course{},
		&Lesson{},
		&Enrollment{},
		&Progress{},
		&Question{},
		&Choice{},
		&LessonQuiz{},
		&LessonQuizQuestion{},
		&FinalExam{},
		&FinalExamQuestion{},
		&UserQuizAnswer{},
		&QuizResult{},
		&ExamResult{},
		&UserExamAnswer{},
	}
}
