package repository

import (
	"context"
	"errors"
	"zenda_backend/internal/model"
	"zenda_backend/internal/util"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) FindByID(id uint) (*model.FinalExam, error) {
	var exam model.FinalExam
	err := r.DB.First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) FindWithQuestions(id uint) (*model.FinalExam, error) {
	var exam model.FinalExam
	err := r.DB.
		Preload("Questions", preloadQuestionSet).
		Preload("Questions.Question").
		Preload("Questions.Question.Choices", preloadChoices).
		First(&exam, id).Error
	return &exam, err
}

func (r *ExamRepository) FindByCourseID(courseID uint) (*model.FinalExam, error) {
	var exam model.FinalExam
	err := r.DB.Where("course_id = ?", courseID).First(&exam).Error
	return &exam, err
}

func (r *ExamRepository) List(courseID uint) ([]model.FinalExam, error) {
	var exams []model.FinalExam
	query := r.DB.Model(&model.FinalExam{})
	if courseID > 0 {
		query = query.Where("course_id = ?", courseID)
	}
	err := query.Order("id asc").Find(&exams).Error
	return exams, err
}

func (r *ExamRepository) Create(exam *model.FinalExam) error {
	return r.DB.Omit("Questions").Create(exam).Error
}

func (r *ExamRepository) Update(exam *model.FinalExam) error {
	return r.DB.Omit("Questions").Save(exam).Error
}

func (r *ExamRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteExamsTx(tx, []uint{id})
	})
}

func (r *ExamRepository) CountQuestions(examID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.FinalExamQuestion{}).Where("exam_id = ?", examID).Count(&count).Error
	return count, err
}

func (r *ExamRepository) QuestionLinked(examID, questionID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.FinalExamQuestion{}).
		Where("exam_id = ? AND question_id = ?", examID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *ExamRepository) AddQuestion(link *model.FinalExamQuestion) error {
	return r.DB.Omit("Question").Create(link).Error
}

func (r *ExamRepository) RemoveQuestion(examID, questionID uint) (int64, error) {
	res := r.DB.Where("exam_id = ? AND question_id = ?", examID, questionID).Delete(&model.FinalExamQuestion{})
	return res.RowsAffected, res.Error
}

func (r *ExamRepository) CountAttempts(userID, examID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.ExamResult{}).Where("user_id = ? AND exam_id = ?", userID, examID).Count(&count).Error
	return count, err
}

// ListAttempts 按尝试次数升序返回，附带每次的作答
func (r *ExamRepository) ListAttempts(userID, examID uint) ([]model.ExamResult, error) {
	var results []model.ExamResult
	err := r.DB.Preload("Answers", func(db *gorm.DB) *gorm.DB {
		return db.Order("id asc")
	}).
		Where("user_id = ? AND exam_id = ?", userID, examID).
		Order("attempt_number asc").
		Find(&results).Error
	return results, err
}

// CreateAttempt 尝试次数 = 已有次数+1，连同作答一起写入。
// maxAttempts > 0 时达到上限即拒绝；并发提交抢到同一次数时返回 ErrSubmissionInProgress
func (r *ExamRepository) CreateAttempt(ctx context.Context, result *model.ExamResult, answers []model.UserExamAnswer, maxAttempts int) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.ExamResult{}).
			Where("user_id = ? AND exam_id = ?", result.UserID, result.ExamID).
			Count(&count).Error; err != nil {
			return err
		}
		if maxAttempts > 0 && count >= int64(maxAttempts) {
			return util.ErrAttemptLimitExceeded
		}

		result.AttemptNumber = int(count) + 1
		if err := tx.Omit("Answers").Create(result).Error; err != nil {
			return err
		}

		if len(answers) == 0 {
			return nil
		}
		for i := range answers {
			answers[i].ExamResultID = result.ID
		}
		if err := tx.Create(&answers).Error; err != nil {
			return err
		}
		result.Answers = answers
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSubmissionInProgress
	}
	return err
}
