package util

// gin 上下文键
const (
	UserKey      = "user"
	RequestIDKey = "request_id"
)

const RequestIDHeader = "X-Request-Id"

const (
	AssessmentKindQuiz = "quiz"
	AssessmentKindExam = "exam"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	MaxPageSize     = 100
)
