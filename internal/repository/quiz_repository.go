package repository

import (
	"context"
	"errors"
	"zenda_backend/internal/model"
	"zenda_backend/internal/util"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func preloadQuestionSet(db *gorm.DB) *gorm.DB {
	return db.Order(orderByPosition)
}

func (r *QuizRepository) FindByID(id uint) (*model.LessonQuiz, error) {
	var quiz model.LessonQuiz
	err := r.DB.First(&quiz, id).Error
	return &quiz, err
}

// FindWithQuestions 预加载带分值的题目及全部选项
func (r *QuizRepository) FindWithQuestions(id uint) (*model.LessonQuiz, error) {
	var quiz model.LessonQuiz
	err := r.DB.
		Preload("Questions", preloadQuestionSet).
		Preload("Questions.Question").
		Preload("Questions.Question.Choices", preloadChoices).
		First(&quiz, id).Error
	return &quiz, err
}

func (r *QuizRepository) FindByLessonID(lessonID uint) (*model.LessonQuiz, error) {
	var quiz model.LessonQuiz
	err := r.DB.Where("lesson_id = ?", lessonID).First(&quiz).Error
	return &quiz, err
}

func (r *QuizRepository) ListActiveByLessonIDs(lessonIDs []uint) ([]model.LessonQuiz, error) {
	var quizzes []model.LessonQuiz
	if len(lessonIDs) == 0 {
		return quizzes, nil
	}
	err := r.DB.Where("lesson_id IN ? AND is_active = ?", lessonIDs, true).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) List(lessonID uint) ([]model.LessonQuiz, error) {
	var quizzes []model.LessonQuiz
	query := r.DB.Model(&model.LessonQuiz{})
	if lessonID > 0 {
		query = query.Where("lesson_id = ?", lessonID)
	}
	err := query.Order("id asc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Create(quiz *model.LessonQuiz) error {
	return r.DB.Omit("Questions").Create(quiz).Error
}

func (r *QuizRepository) Update(quiz *model.LessonQuiz) error {
	return r.DB.Omit("Questions").Save(quiz).Error
}

func (r *QuizRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		return deleteQuizzesTx(tx, []uint{id})
	})
}

func (r *QuizRepository) CountQuestions(quizID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonQuizQuestion{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

func (r *QuizRepository) QuestionLinked(quizID, questionID uint) (bool, error) {
	var count int64
	err := r.DB.Model(&model.LessonQuizQuestion{}).
		Where("quiz_id = ? AND question_id = ?", quizID, questionID).
		Count(&count).Error
	return count > 0, err
}

func (r *QuizRepository) AddQuestion(link *model.LessonQuizQuestion) error {
	return r.DB.Omit("Question").Create(link).Error
}

// RemoveQuestion 返回删除的关联数
func (r *QuizRepository) RemoveQuestion(quizID, questionID uint) (int64, error) {
	res := r.DB.Where("quiz_id = ? AND question_id = ?", quizID, questionID).Delete(&model.LessonQuizQuestion{})
	return res.RowsAffected, res.Error
}

func (r *QuizRepository) FindResult(userID, quizID uint) (*model.QuizResult, error) {
	var result model.QuizResult
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).First(&result).Error
	return &result, err
}

func (r *QuizRepository) ListResults(userID uint, quizIDs []uint) ([]model.QuizResult, error) {
	var results []model.QuizResult
	if len(quizIDs) == 0 {
		return results, nil
	}
	err := r.DB.Where("user_id = ? AND quiz_id IN ?", userID, quizIDs).Find(&results).Error
	return results, err
}

func (r *QuizRepository) ListAnswers(userID, quizID uint) ([]model.UserQuizAnswer, error) {
	var answers []model.UserQuizAnswer
	err := r.DB.Where("user_id = ? AND quiz_id = ?", userID, quizID).Order("id asc").Find(&answers).Error
	return answers, err
}

// ReplaceAttempt 在同一事务内删除 (user, quiz) 之前的作答和结果并写入新的。
// 与同一学员的并发提交冲突时返回 ErrSubmissionInProgress
func (r *QuizRepository) ReplaceAttempt(ctx context.Context, result *model.QuizResult, answers []model.UserQuizAnswer) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND quiz_id = ?", result.UserID, result.QuizID).Delete(&model.UserQuizAnswer{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? AND quiz_id = ?", result.UserID, result.QuizID).Delete(&model.QuizResult{}).Error; err != nil {
			return err
		}
		if len(answers) > 0 {
			if err := tx.Create(&answers).Error; err != nil {
				return err
			}
		}
		return tx.Create(result).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return util.ErrSubmissionInProgress
	}
	return err
}
