package service

import (
	"errors"
	"fmt"
	"time"
	"zenda_backend/internal/model"
	"zenda_backend/internal/repository"
	"zenda_backend/internal/util"

	"gorm.io/gorm"
)

type CourseService struct {
	Courses     *repository.CourseRepository
	Enrollments *repository.EnrollmentRepository
	Access      *AccessService
}

func NewCourseService(courses *repository.CourseRepository, enrollments *repository.EnrollmentRepository, access *AccessService) *CourseService {
	return &CourseService{Courses: courses, Enrollments: enrollments, Access: access}
}

type EnrollmentSummary struct {
	Status      model.EnrollmentStatus `json:"status"`
	EnrolledAt  time.Time              `json:"enrolled_at"`
	ActivatedAt *time.Time             `json:"activated_at"`
}

type CourseView struct {
	model.Course
	LessonsCount     int64              `json:"lessons_count"`
	FreeLessonsCount int64              `json:"free_lessons_count"`
	EnrollmentStatus *EnrollmentSummary `json:"enrollment_status"`
}

type LessonProgress struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at"`
}

// LessonView carries the caller's progress; progress is null for guests.
type LessonView struct {
	model.Lesson
	Progress *LessonProgress `json:"progress"`
}

type CourseDetail struct {
	CourseView
	Lessons []LessonView `json:"lessons"`
}

func (s *CourseService) courseViews(user *util.Claims, courses []model.Course) ([]CourseView, error) {
	ids := make([]uint, 0, len(courses))
	for _, c := range courses {
		ids = append(ids, c.ID)
	}
	total, free, err := s.Courses.CountLessons(ids)
	if err != nil {
		return nil, err
	}

	var enrollments map[uint]model.Enrollment
	if user != nil {
		if enrollments, err = s.Enrollments.ByCourse(user.UserID); err != nil {
			return nil, err
		}
	}

	views := make([]CourseView, 0, len(courses))
	for _, c := range courses {
		v := CourseView{Course: c, LessonsCount: total[c.ID], FreeLessonsCount: free[c.ID]}
		v.Course.Lessons = nil
		if e, ok := enrollments[c.ID]; ok {
			v.EnrollmentStatus = &EnrollmentSummary{Status: e.Status, EnrolledAt: e.EnrolledAt, ActivatedAt: e.ActivatedAt}
		}
		views = append(views, v)
	}
	return views, nil
}

func (s *CourseService) lessonViews(user *util.Claims, lessons []model.Lesson) ([]LessonView, error) {
	views := make([]LessonView, 0, len(lessons))
	var progress map[uint]model.Progress
	if user != nil {
		rows, err := s.Enrollments.ListProgress(user.UserID, 0)
		if err != nil {
			return nil, err
		}
		progress = make(map[uint]model.Progress, len(rows))
		for _, p := range rows {
			progress[p.LessonID] = p
		}
	}
	for _, l := range lessons {
		v := LessonView{Lesson: l}
		if user != nil {
			v.Progress = &LessonProgress{}
			if p, ok := progress[l.ID]; ok {
				v.Progress.Completed = p.Completed
				v.Progress.CompletedAt = p.CompletedAt
			}
		}
		views = append(views, v)
	}
	return views, nil
}

// ListCourses returns active courses; user may be nil for guests.
func (s *CourseService) ListCourses(user *util.Claims) ([]CourseView, error) {
	courses, err := s.Courses.ListCourses(true)
	if err != nil {
		return nil, err
	}
	return s.courseViews(user, courses)
}

func (s *CourseService) GetCourse(user *util.Claims, id uint) (*CourseDetail, error) {
	course, err := s.Courses.FindCourseWithLessons(id)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	if !course.IsActive && !user.IsAdmin() {
		return nil, util.ErrCourseNotFound
	}

	lessons := course.Lessons
	views, err := s.courseViews(user, []model.Course{*course})
	if err != nil {
		return nil, err
	}
	lessonViews, err := s.lessonViews(user, lessons)
	if err != nil {
		return nil, err
	}
	return &CourseDetail{CourseView: views[0], Lessons: lessonViews}, nil
}

func (s *CourseService) FreeLessons(user *util.Claims) ([]LessonView, error) {
	lessons, err := s.Courses.ListFreeLessons()
	if err != nil {
		return nil, err
	}
	return s.lessonViews(user, lessons)
}

func (s *CourseService) ListLessons(user *util.Claims, courseID uint) ([]LessonView, error) {
	lessons, err := s.Courses.ListLessons(courseID)
	if err != nil {
		return nil, err
	}
	return s.lessonViews(user, lessons)
}

func (s *CourseService) GetLesson(user *util.Claims, id uint) (*LessonView, error) {
	lesson, err := s.Courses.FindLessonByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	views, err := s.lessonViews(user, []model.Lesson{*lesson})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// MarkCompleted records the lesson as completed for a learner with access to it.
func (s *CourseService) MarkCompleted(userID, lessonID uint) (*model.Progress, error) {
	lesson, err := s.Courses.FindLessonByID(lessonID)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	ok, err := s.Access.CanAccessLesson(userID, lesson)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, util.ErrAccessDenied
	}

	now := time.Now()
	progress := &model.Progress{UserID: userID, LessonID: lessonID, Completed: true, CompletedAt: &now}
	if existing, err := s.Enrollments.FindProgress(userID, lessonID); err == nil {
		if existing.Completed && existing.CompletedAt != nil {
			progress.CompletedAt = existing.CompletedAt
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := s.Enrollments.UpsertProgress(progress); err != nil {
		return nil, err
	}
	saved, err := s.Enrollments.FindProgress(userID, lessonID)
	if err != nil {
		return nil, err
	}
	saved.Lesson = lesson
	return saved, nil
}

func (s *CourseService) ListProgress(userID, courseID uint) ([]model.Progress, error) {
	return s.Enrollments.ListProgress(userID, courseID)
}

// ---- admin ----

type CourseRequest struct {
	Title            *string  `json:"title"`
	Slug             *string  `json:"slug"`
	Description      *string  `json:"description"`
	ShortDescription *string  `json:"short_description"`
	Price            *float64 `json:"price"`
	Image            *string  `json:"image"`
	IsActive         *bool    `json:"is_active"`
	Order            *int     `json:"order"`
}

type LessonRequest struct {
	CourseID    *uint   `json:"course_id"`
	Title       *string `json:"title"`
	Slug        *string `json:"slug"`
	Description *string `json:"description"`
	VideoURL    *string `json:"video_url"`
	Duration    *int    `json:"duration"`
	Content     *string `json:"content"`
	IsFree      *bool   `json:"is_free"`
	Order       *int    `json:"order"`
}

func (s *CourseService) AdminListCourses() ([]CourseView, error) {
	courses, err := s.Courses.ListCourses(false)
	if err != nil {
		return nil, err
	}
	return s.courseViews(nil, courses)
}

// uniqueSlug appends -2, -3... until exists reports the slug as free.
func uniqueSlug(base string, exists func(string) (bool, error)) (string, error) {
	if base == "" {
		return "", fmt.Errorf("%w: slug cannot be derived from title", util.ErrValidation)
	}
	slug := base
	for i := 2; ; i++ {
		taken, err := exists(slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, i)
	}
}

func (s *CourseService) CreateCourse(req CourseRequest) (*model.Course, error) {
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	course := &model.Course{IsActive: true}
	applyCourseRequest(course, req)
	if course.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", util.ErrValidation)
	}

	base := util.Slugify(course.Title)
	if req.Slug != nil && *req.Slug != "" {
		base = util.Slugify(*req.Slug)
	}
	slug, err := uniqueSlug(base, func(slug string) (bool, error) {
		return s.Courses.CourseSlugExists(slug, 0)
	})
	if err != nil {
		return nil, err
	}
	course.Slug = slug

	if err := s.Courses.CreateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(id uint, req CourseRequest) (*model.Course, error) {
	course, err := s.Courses.FindCourseByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}
	applyCourseRequest(course, req)
	if course.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if course.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", util.ErrValidation)
	}
	if req.Slug != nil && *req.Slug != "" {
		slug := util.Slugify(*req.Slug)
		taken, err := s.Courses.CourseSlugExists(slug, course.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, fmt.Errorf("%w: slug %q already in use", util.ErrValidation, slug)
		}
		course.Slug = slug
	}
	if err := s.Courses.UpdateCourse(course); err != nil {
		return nil, err
	}
	return course, nil
}

func applyCourseRequest(course *model.Course, req CourseRequest) {
	if req.Title != nil {
		course.Title = *req.Title
	}
	if req.Description != nil {
		course.Description = *req.Description
	}
	if req.ShortDescription != nil {
		course.ShortDescription = *req.ShortDescription
	}
	if req.Price != nil {
		course.Price = *req.Price
	}
	if req.Image != nil {
		course.Image = *req.Image
	}
	if req.IsActive != nil {
		course.IsActive = *req.IsActive
	}
	if req.Order != nil {
		course.Order = *req.Order
	}
}

func (s *CourseService) DeleteCourse(id uint) error {
	if _, err := s.Courses.FindCourseByID(id); err != nil {
		return notFound(err, util.ErrCourseNotFound)
	}
	return s.Courses.DeleteCourse(id)
}

func (s *CourseService) CreateLesson(req LessonRequest) (*model.Lesson, error) {
	if req.CourseID == nil || *req.CourseID == 0 {
		return nil, fmt.Errorf("%w: course_id is required", util.ErrValidation)
	}
	if req.Title == nil || *req.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}
	if _, err := s.Courses.FindCourseByID(*req.CourseID); err != nil {
		return nil, notFound(err, util.ErrCourseNotFound)
	}

	lesson := &model.Lesson{CourseID: *req.CourseID}
	if err := applyLessonRequest(lesson, req); err != nil {
		return nil, err
	}

	base := util.Slugify(lesson.Title)
	if req.Slug != nil && *req.Slug != "" {
		base = util.Slugify(*req.Slug)
	}
	slug, err := uniqueSlug(base, func(slug string) (bool, error) {
		return s.Courses.LessonSlugExists(lesson.CourseID, slug, 0)
	})
	if err != nil {
		return nil, err
	}
	lesson.Slug = slug

	if err := s.Courses.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func (s *CourseService) UpdateLesson(id uint, req LessonRequest) (*model.Lesson, error) {
	lesson, err := s.Courses.FindLessonByID(id)
	if err != nil {
		return nil, notFound(err, util.ErrLessonNotFound)
	}
	if req.CourseID != nil && *req.CourseID != lesson.CourseID {
		if _, err := s.Courses.FindCourseByID(*req.CourseID); err != nil {
			return nil, notFound(err, util.ErrCourseNotFound)
		}
		lesson.CourseID = *req.CourseID
	}
	if err := applyLessonRequest(lesson, req); err != nil {
		return nil, err
	}
	if lesson.Title == "" {
		return nil, fmt.Errorf("%w: title is required", util.ErrValidation)
	}

	slug := lesson.Slug
	if req.Slug != nil && *req.Slug != "" {
		slug = util.Slugify(*req.Slug)
	}
	taken, err := s.Courses.LessonSlugExists(lesson.CourseID, slug, lesson.ID)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, fmt.Errorf("%w: slug %q already in use in this course", util.ErrValidation, slug)
	}
	lesson.Slug = slug

	if err := s.Courses.UpdateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

func applyLessonRequest(lesson *model.Lesson, req LessonRequest) error {
	if req.Title != nil {
		lesson.Title = *req.Title
	}
	if req.Description != nil {
		lesson.Description = *req.Description
	}
	if req.VideoURL != nil {
		lesson.VideoURL = *req.VideoURL
	}
	if req.Duration != nil {
		if *req.Duration < 0 {
			return fmt.Errorf("%w: duration must not be negative", util.ErrValidation)
		}
		lesson.Duration = *req.Duration
	}
	if req.Content != nil {
		lesson.Content = *req.Content
	}
	if req.IsFree != nil {
		lesson.IsFree = *req.IsFree
	}
	if req.Order != nil {
		lesson.Order = *req.Order
	}
	return nil
}

func (s *CourseService) DeleteLesson(id uint) error {
	if _, err := s.Courses.FindLessonByID(id); err != nil {
		return notFound(err, util.ErrLessonNotFound)
	}
	return s.Courses.DeleteLesson(id)
}
