package model

import "time"

// FinalExam is tied 1:1 to a course.
// swagger:model FinalExam
type FinalExam struct {
	BaseModel
	CourseID         uint                `gorm:"not null;uniqueIndex" json:"course_id"`
	Title            string              `gorm:"size:200;default:'Exame Final'" json:"title"`
	Description      string              `gorm:"type:text" json:"description"`
	PassingScore     int                 `gorm:"not null" json:"passing_score"`
	TimeLimitMinutes *int                `json:"time_limit_minutes"`
	MaxAttempts      int                 `gorm:"not null" json:"max_attempts"` // <= 0 means unlimited
	IsActive         bool                `json:"is_active"`
	Questions        []FinalExamQuestion `gorm:"foreignKey:ExamID" json:"questions,omitempty"`
}

func (FinalExam) TableName() string {
	return "final_exams"
}

type FinalExamQuestion struct {
	Record
	ExamID     uint      `gorm:"not null;uniqueIndex:idx_exam_question" json:"exam_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_exam_question" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Points     int       `gorm:"not null" json:"points"`
	Order      int       `gorm:"default:0" json:"order"`
}

func (FinalExamQuestion) TableName() string {
	return "final_exam_questions"
}

// ExamResult is one row per attempt.
// swagger:model ExamResult
type ExamResult struct {
	Record
	UserID         uint             `gorm:"not null;uniqueIndex:idx_exam_result_attempt" json:"user_id"`
	ExamID         uint             `gorm:"not null;index;uniqueIndex:idx_exam_result_attempt" json:"exam_id"`
	AttemptNumber  int              `gorm:"not null;default:1;uniqueIndex:idx_exam_result_attempt" json:"attempt_number"`
	Score          float64          `gorm:"type:decimal(5,2);not null" json:"score"`
	TotalQuestions int              `gorm:"not null" json:"total_questions"`
	CorrectAnswers int              `gorm:"not null" json:"correct_answers"`
	Passed         bool             `gorm:"default:false" json:"passed"`
	StartedAt      time.Time        `json:"started_at"`
	CompletedAt    *time.Time       `json:"completed_at"`
	Answers        []UserExamAnswer `gorm:"foreignKey:ExamResultID" json:"answers,omitempty"`
}

func (ExamResult) TableName() string {
	return "exam_results"
}

// UserExamAnswer belongs to exactly one attempt through ExamResultID.
type UserExamAnswer struct {
	Record
	ExamResultID     uint      `gorm:"not null;uniqueIndex:idx_exam_answer_attempt_question" json:"exam_result_id"`
	UserID           uint      `gorm:"not null;index" json:"user_id"`
	ExamID           uint      `gorm:"not null;index" json:"exam_id"`
	QuestionID       uint      `gorm:"not null;uniqueIndex:idx_exam_answer_attempt_question" json:"question_id"`
	SelectedChoiceID uint      `gorm:"not null" json:"selected_choice_id"`
	IsCorrect        bool      `gorm:"default:false" json:"is_correct"`
	AnsweredAt       time.Time `json:"answered_at"`
}

func (UserExamAnswer) TableName() string {
	return "user_exam_answers"
}
