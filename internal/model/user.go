package model

import "time"

// swagger:model User
type User struct {
	BaseModel
	Email       string     `gorm:"size:150;uniqueIndex;not null" json:"email"`
	Username    string     `gorm:"size:150" json:"username"`
	FirstName   string     `gorm:"size:100" json:"first_name"`
	LastName    string     `gorm:"size:100" json:"last_name"`
	Phone       string     `gorm:"size:30" json:"phone"`
	IsActive    bool       `json:"is_active"`
	IsStaff     bool       `gorm:"default:false" json:"is_staff"`
	IsSuperuser bool       `gorm:"default:false" json:"is_superuser"`
	LastLogin   *time.Time `json:"last_login,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user may use the admin surface.
func (u *User) IsAdmin() bool {
	return u.IsStaff || u.IsSuperuser
}
