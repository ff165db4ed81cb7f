package repository

import (
	"zenda_backend/internal/model"

	"gorm.io/gorm"
)

const orderByPosition = "`order` asc, id asc"

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

func (r *CourseRepository) ListCourses(activeOnly bool) ([]model.Course, error) {
	var courses []model.Course
	query := r.DB.Model(&model.Course{})
	if activeOnly {
		query = query.Where("is_active = ?", true)
	}
	err := query.Order(orderByPosition).Find(&courses).Error
	return courses, err
}

func (r *CourseRepository) FindCourseByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

// FindCourseWithLessons 预加载按顺序排列的课时
func (r *CourseRepository) FindCourseWithLessons(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.Preload("Lessons", func(db *gorm.DB) *gorm.DB {
		return db.Order(orderByPosition)
	}).First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) CourseSlugExists(slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Unscoped().Model(&model.Course{}).Where("slug = ? AND id <> ?", slug, excludeID).Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) CreateCourse(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) UpdateCourse(course *model.Course) error {
	return r.DB.Omit("Lessons").Save(course).Error
}

// DeleteCourse 删除课程及其课时、测验、考试、学员记录和报名
func (r *CourseRepository) DeleteCourse(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var lessonIDs []uint
		if err := tx.Unscoped().Model(&model.Lesson{}).Where("course_id = ?", id).Pluck("id", &lessonIDs).Error; err != nil {
			return err
		}
		if err := deleteLessonsTx(tx, lessonIDs); err != nil {
			return err
		}
		var examIDs []uint
		if err := tx.Unscoped().Model(&model.FinalExam{}).Where("course_id = ?", id).Pluck("id", &examIDs).Error; err != nil {
			return err
		}
		if err := deleteExamsTx(tx, examIDs); err != nil {
			return err
		}
		if err := tx.Unscoped().Where("course_id = ?", id).Delete(&model.Enrollment{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&model.Course{}, id).Error
	})
}

// CountLessons 按课程ID返回课时总数和免费课时数
func (r *CourseRepository) CountLessons(courseIDs []uint) (map[uint]int64, map[uint]int64, error) {
	total := make(map[uint]int64, len(courseIDs))
	free := make(map[uint]int64, len(courseIDs))
	if len(courseIDs) == 0 {
		return total, free, nil
	}

	type row struct {
		CourseID  uint
		Total     int64
		FreeCount int64
	}
	var rows []row
	err := r.DB.Model(&model.Lesson{}).
		Select("course_id, COUNT(*) AS total, SUM(CASE WHEN is_free THEN 1 ELSE 0 END) AS free_count").
		Where("course_id IN ?", courseIDs).
		Group("course_id").
		Scan(&rows).Error
	if err != nil {
		return nil, nil, err
	}
	for _, rw := range rows {
		total[rw.CourseID] = rw.Total
		free[rw.CourseID] = rw.FreeCount
	}
	return total, free, nil
}

func (r *CourseRepository) ListLessons(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	query := r.DB.Model(&model.Lesson{})
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("course_id asc, " + orderByPosition).Find(&lessons).Error
	return lessons, err
}

// ListFreeLessons 仅返回已上架课程中的免费课时
func (r *CourseRepository) ListFreeLessons() ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Model(&model.Lesson{}).
		Joins("JOIN courses ON courses.id = lessons.course_id AND courses.deleted_at IS NULL").
		Where("lessons.is_free = ? AND courses.is_active = ?", true, true).
		Order("lessons.course_id asc, lessons.`order` asc, lessons.id asc").
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepository) ListLessonIDs(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.DB.Model(&model.Lesson{}).Where("course_id = ?", courseID).Order(orderByPosition).Pluck("id", &ids).Error
	return ids, err
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) LessonSlugExists(courseID uint, slug string, excludeID uint) (bool, error) {
	var count int64
	err := r.DB.Unscoped().Model(&model.Lesson{}).
		Where("course_id = ? AND slug = ? AND id <> ?", courseID, slug, excludeID).
		Count(&count).Error
	return count > 0, err
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) UpdateLesson(lesson *model.Lesson) error {
	return r.DB.Save(lesson).Error
}

func (r *CourseRepository) DeleteLesson(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteLessonsTx(tx, []uint{id})
	})
}
