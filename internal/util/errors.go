package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrLessonNotFound       = errors.New("lesson not found")
	ErrEnrollmentNotFound   = errors.New("enrollment not found")
	ErrQuizNotFound         = errors.New("quiz not found")
	ErrExamNotFound         = errors.New("final exam not found")
	ErrQuestionNotFound     = errors.New("question not found")
	ErrChoiceNotFound       = errors.New("choice not found")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrAccessDenied         = errors.New("access denied: free lesson or active enrollment required")
	ErrEnrollmentRequired   = errors.New("an active enrollment is required")
	ErrAttemptLimitExceeded = errors.New("maximum number of attempts reached")
	ErrAlreadyEnrolled      = errors.New("already enrolled in this course")
	ErrQuestionAlreadyAdded = errors.New("question already added")
	ErrInvalidStatus        = errors.New("invalid enrollment status")
	ErrSubmissionInProgress = errors.New("a submission for this assessment is already in progress")
	ErrValidation           = errors.New("validation failed")
)

// IsNotFound 判断是否为各类"不存在"错误
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound, ErrCourseNotFound, ErrLessonNotFound, ErrEnrollmentNotFound,
		ErrQuizNotFound, ErrExamNotFound, ErrQuestionNotFound, ErrChoiceNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
