package repository

import (
	"zenda_backend/internal/model"

	"gorm.io/gorm"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

func preloadChoices(db *gorm.DB) *gorm.DB {
	return db.Order(orderByPosition)
}

func (r *QuestionRepository) List(search string, page, limit int) ([]model.Question, int64, error) {
	query := r.DB.Model(&model.Question{})
	if search != "" {
		query = query.Where("question_text LIKE ?", "%"+search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var questions []model.Question
	err := query.Preload("Choices", preloadChoices).
		Order(orderByPosition).
		Offset((page - 1) * limit).Limit(limit).
		Find(&questions).Error
	return questions, total, err
}

func (r *QuestionRepository) FindByID(id uint) (*model.Question, error) {
	var question model.Question
	err := r.DB.Preload("Choices", preloadChoices).First(&question, id).Error
	return &question, err
}

// Create 题目与选项一并写入
func (r *QuestionRepository) Create(question *model.Question) error {
	return r.DB.Create(question).Error
}

func (r *QuestionRepository) Update(question *model.Question) error {
	return r.DB.Omit("Choices").Save(question).Error
}

// Delete 删除题目、选项及其在测验/考试中的关联；学员作答保留快照不动
func (r *QuestionRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("question_id = ?", id).Delete(&model.Choice{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.LessonQuizQuestion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("question_id = ?", id).Delete(&model.FinalExamQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Question{}, id).Error
	})
}

func (r *QuestionRepository) ListChoices(questionID uint) ([]model.Choice, error) {
	var choices []model.Choice
	query := r.DB.Model(&model.Choice{})
	if questionID > 0 {
		query = query.Where("question_id = ?", questionID)
	}
	err := query.Order("question_id asc, " + orderByPosition).Find(&choices).Error
	return choices, err
}

func (r *QuestionRepository) FindChoiceByID(id uint) (*model.Choice, error) {
	var choice model.Choice
	err := r.DB.First(&choice, id).Error
	return &choice, err
}

func (r *QuestionRepository) CreateChoice(choice *model.Choice) error {
	return r.DB.Create(choice).Error
}

func (r *QuestionRepository) UpdateChoice(choice *model.Choice) error {
	return r.DB.Save(choice).Error
}

func (r *QuestionRepository) DeleteChoice(id uint) error {
	return r.DB.Delete(&model.Choice{}, id).Error
}
