package model

// swagger:model Course
type Course struct {
	BaseModel
	Title            string   `gorm:"size:200;not null" json:"title"`
	Slug             string   `gorm:"size:200;uniqueIndex;not null" json:"slug"`
	Description      string   `gorm:"type:text" json:"description"`
	ShortDescription string   `gorm:"size:300" json:"short_description"`
	Price            float64  `gorm:"type:decimal(10,2);default:0" json:"price"`
	Image            string   `gorm:"size:255" json:"image"`
	IsActive         bool     `json:"is_active"`
	Order            int      `gorm:"default:0" json:"order"`
	Lessons          []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// swagger:model Lesson
type Lesson struct {
	BaseModel
	CourseID    uint   `gorm:"index;not null;uniqueIndex:idx_lesson_course_slug" json:"course_id"`
	Title       string `gorm:"size:200;not null" json:"title"`
	Slug        string `gorm:"size:200;not null;uniqueIndex:idx_lesson_course_slug" json:"slug"`
	Description string `gorm:"type:text" json:"description"`
	VideoURL    string `gorm:"size:500" json:"video_url"`
	Duration    int    `gorm:"default:0" json:"duration"` // minutes
	Content     string `gorm:"type:text" json:"content"`
	IsFree      bool   `gorm:"default:false" json:"is_free"`
	Order       int    `gorm:"default:0" json:"order"`
}

func (Lesson) TableName() string {
	return "lessons"
}
