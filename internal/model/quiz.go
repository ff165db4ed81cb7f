package model

import "time"

// LessonQuiz is tied 1:1 to a lesson.
// swagger:model LessonQuiz
type LessonQuiz struct {
	BaseModel
	LessonID         uint                 `gorm:"not null;uniqueIndex" json:"lesson_id"`
	Title            string               `gorm:"size:200;default:'Quiz da Aula'" json:"title"`
	Description      string               `gorm:"type:text" json:"description"`
	PassingScore     int                  `gorm:"not null" json:"passing_score"`
	TimeLimitMinutes *int                 `json:"time_limit_minutes"`
	IsActive         bool                 `json:"is_active"`
	Questions        []LessonQuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (LessonQuiz) TableName() string {
	return "lesson_quizzes"
}

// LessonQuizQuestion links a question to a quiz with its weight.
type LessonQuizQuestion struct {
	Record
	QuizID     uint      `gorm:"not null;uniqueIndex:idx_quiz_question" json:"quiz_id"`
	QuestionID uint      `gorm:"not null;uniqueIndex:idx_quiz_question" json:"question_id"`
	Question   *Question `gorm:"foreignKey:QuestionID" json:"question,omitempty"`
	Points     int       `gorm:"not null" json:"points"`
	Order      int       `gorm:"default:0" json:"order"`
}

func (LessonQuizQuestion) TableName() string {
	return "lesson_quiz_questions"
}

// UserQuizAnswer stores the selected choice and the correctness observed at submission time.
type UserQuizAnswer struct {
	Record
	UserID           uint      `gorm:"not null;uniqueIndex:idx_quiz_answer_user_quiz_question" json:"user_id"`
	QuizID           uint      `gorm:"not null;index;uniqueIndex:idx_quiz_answer_user_quiz_question" json:"quiz_id"`
	QuestionID       uint      `gorm:"not null;uniqueIndex:idx_quiz_answer_user_quiz_question" json:"question_id"`
	SelectedChoiceID uint      `gorm:"not null" json:"selected_choice_id"`
	IsCorrect        bool      `gorm:"default:false" json:"is_correct"`
	AnsweredAt       time.Time `json:"answered_at"`
}

func (UserQuizAnswer) TableName() string {
	return "user_quiz_answers"
}

// QuizResult holds the latest outcome per (user, quiz).
// swagger:model QuizResult
type QuizResult struct {
	Record
	UserID         uint       `gorm:"not null;uniqueIndex:idx_quiz_result_user_quiz" json:"user_id"`
	QuizID         uint       `gorm:"not null;index;uniqueIndex:idx_quiz_result_user_quiz" json:"quiz_id"`
	Score          float64    `gorm:"type:decimal(5,2);not null" json:"score"`
	TotalQuestions int        `gorm:"not null" json:"total_questions"`
	CorrectAnswers int        `gorm:"not null" json:"correct_answers"`
	Passed         bool       `gorm:"default:false" json:"passed"`
	StartedAt      time.Time  `json:"started_at"`
	CompletedAt    *time.Time `json:"completed_at"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
