package service

import (
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
)

// AccessService answers "may this learner use this lesson/course".
type AccessService struct {
	Enrollments *repository.EnrollmentRepository
}

func NewAccessService(enrollments *repository.EnrollmentRepository) *AccessService {
	return &AccessService{Enrollments: enrollments}
}

// CanAccessLesson: free lessons are open to every signed-in learner, the rest need an active enrollment.
func (s *AccessService) CanAccessLesson(userID uint, lesson *model.Lesson) (bool, error) {
	if lesson.IsFree {
		return true, nil
	}
	return s.HasActiveEnrollment(userID, lesson.CourseID)
}

func (s *AccessService) HasActiveEnrollment(userID, courseID uint) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.Enrollments.HasActive(userID, courseID)
}
