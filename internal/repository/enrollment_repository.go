package repository

import (
	"context"
	"zenda_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EnrollmentRepository struct {
	DB *gorm.DB
}

func NewEnrollmentRepository(db *gorm.DB) *EnrollmentRepository {
	return &EnrollmentRepository{DB: db}
}

func (r *EnrollmentRepository) Create(enrollment *model.Enrollment) error {
	return r.DB.Create(enrollment).Error
}

func (r *EnrollmentRepository) Update(enrollment *model.Enrollment) error {
	return r.DB.Omit("Course", "User").Save(enrollment).Error
}

func (r *EnrollmentRepository) FindByID(id uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Preload("Course").First(&enrollment, id).Error
	return &enrollment, err
}

func (r *EnrollmentRepository) FindByUserAndCourse(userID, courseID uint) (*model.Enrollment, error) {
	var enrollment model.Enrollment
	err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&enrollment).Error
	return &enrollment, err
}

// ByCourse 课程ID -> 该用户的报名
func (r *EnrollmentRepository) ByCourse(userID uint) (map[uint]model.Enrollment, error) {
	var enrollments []model.Enrollment
	if err := r.DB.Where("user_id = ?", userID).Find(&enrollments).Error; err != nil {
		return nil, err
	}
	byCourse := make(map[uint]model.Enrollment, len(enrollments))
	for _, e := range enrollments {
		byCourse[e.CourseID] = e
	}
	return byCourse, nil
}

func (r *EnrollmentRepository) Delete(id uint) error {
	return r.DB.Unscoped().Delete(&model.Enrollment{}, id).Error
}

func (r *EnrollmentRepository) HasActive(userID, courseID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND status = ?", userID, courseID, model.EnrollmentActive).
		Count(&count).Error
	return count > 0, err
}

func (r *EnrollmentRepository) ListByUser(userID uint) ([]model.Enrollment, error) {
	var enrollments []model.Enrollment
	err := r.DB.Preload("Course").Where("user_id = ?", userID).Order("enrolled_at desc, id desc").Find(&enrollments).Error
	return enrollments, err
}

// ListAll 管理后台，可按状态/课程过滤
func (r *EnrollmentRepository) ListAll(status model.EnrollmentStatus, courseID uint, page, limit int) ([]model.Enrollment, int64, error) {
	query := r.DB.Model(&model.Enrollment{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var enrollments []model.Enrollment
	err := query.Preload("Course").Preload("User").
		Order("enrolled_at desc, id desc").
		Offset((page - 1) * limit).Limit(limit).
		Find(&enrollments).Error
	return enrollments, total, err
}

func (r *EnrollmentRepository) FindProgress(userID, lessonID uint) (*model.Progress, error) {
	var progress model.Progress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).First(&progress).Error
	return &progress, err
}

// UpsertProgress 按 (user, lesson) 插入或更新进度
func (r *EnrollmentRepository) UpsertProgress(progress *model.Progress) error {
	return r.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "lesson_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"completed", "completed_at", "updated_at"}),
	}).Create(progress).Error
}

func (r *EnrollmentRepository) ListProgress(userID uint, courseID uint) ([]model.Progress, error) {
	var progress []model.Progress
	query := r.DB.Preload("Lesson").Where("progress.user_id = ?", userID)
	if courseID > 0 {
		query = query.Joins("JOIN lessons ON lessons.id = progress.lesson_id").Where("lessons.course_id = ?", courseID)
	}
	err := query.Order("progress.updated_at desc").Find(&progress).Error
	return progress, err
}

// ResetCourseProgress 清除用户在该课程下的全部学习记录，报名本身不变
func (r *EnrollmentRepository) ResetCourseProgress(ctx context.Context, userID, courseID uint) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Model(&model.Lesson{}).Where("course_id = ?", courseID).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}

		if len(lessonIDs) > 0 {
			if err := tx.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).Delete(&model.Progress{}).Error; err != nil {
				return err
			}

			var quizIDs []uint
			if err := tx.Unscoped().Model(&model.LessonQuiz{}).Where("lesson_id IN ?", lessonIDs).Pluck("id", &quizIDs).Error; err != nil {
				return err
			}
			if len(quizIDs) > 0 {
				if err := tx.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).Delete(&model.UserQuizAnswer{}).Error; err != nil {
					return err
				}
				if err := tx.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).Delete(&model.QuizResult{}).Error; err != nil {
					return err
				}
			}
		}

		var examIDs []uint
		if err := tx.Unscoped().Model(&model.FinalExam{}).Where("course_id = ?", courseID).Pluck("id", &examIDs).Error; err != nil {
			return err
		}
		if len(examIDs) > 0 {
			if err := tx.Where("user_id = ? AND exam_id IN ?", userID, examIDs).Delete(&model.UserExamAnswer{}).Error; err != nil {
				return err
			}
			if err := tx.Where("user_id = ? AND exam_id IN ?", userID, examIDs).Delete(&model.ExamResult{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
