package model

// Question is reusable across quizzes and exams.
// swagger:model Question
type Question struct {
	BaseModel
	QuestionText string   `gorm:"type:text;not null" json:"question_text"`
	Explanation  string   `gorm:"type:text" json:"explanation"`
	Order        int      `gorm:"default:0" json:"order"`
	Choices      []Choice `gorm:"foreignKey:QuestionID" json:"choices,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model Choice
type Choice struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"question_id"`
	ChoiceText string `gorm:"size:500;not null" json:"choice_text"`
	IsCorrect  bool   `gorm:"default:false" json:"is_correct"`
	Order      int    `gorm:"default:0" json:"order"`
}

func (Choice) TableName() string {
	return "choices"
}
