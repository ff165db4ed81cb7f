package model

import "time"

type EnrollmentStatus string

const (
	EnrollmentPending   EnrollmentStatus = "pending"
	EnrollmentActive    EnrollmentStatus = "active"
	EnrollmentCancelled EnrollmentStatus = "cancelled"
)

func (s EnrollmentStatus) Valid() bool {
	switch s {
	case EnrollmentPending, EnrollmentActive, EnrollmentCancelled:
		return true
	}
	return false
}

// swagger:model Enrollment
type Enrollment struct {
	BaseModel
	UserID      uint             `gorm:"not null;uniqueIndex:idx_enrollment_user_course" json:"user_id"`
	User        *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CourseID    uint             `gorm:"not null;index;uniqueIndex:idx_enrollment_user_course" json:"course_id"`
	Course      *Course          `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	Status      EnrollmentStatus `gorm:"size:20;default:'pending'" json:"status"`
	EnrolledAt  time.Time        `json:"enrolled_at"`
	ActivatedAt *time.Time       `json:"activated_at"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

// Progress records lesson completion for a learner.
type Progress struct {
	Record
	UserID      uint       `gorm:"not null;uniqueIndex:idx_progress_user_lesson" json:"user_id"`
	LessonID    uint       `gorm:"not null;index;uniqueIndex:idx_progress_user_lesson" json:"lesson_id"`
	Lesson      *Lesson    `gorm:"foreignKey:LessonID" json:"lesson,omitempty"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

func (Progress) TableName() string {
	return "progress"
}
