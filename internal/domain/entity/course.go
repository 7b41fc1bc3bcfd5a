package entity

import (
	"time"
)

// Course представляет курс, объединяющий викторины и задания
type Course struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:200;not null" json:"title"`
	Description string    `gorm:"size:1000;not null;default:''" json:"description"`
	IsPublished bool      `gorm:"not null;default:false" json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Course) TableName() string {
	return "courses"
}

// Enrollment представляет запись пользователя на курс
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index;uniqueIndex:idx_user_course_enrollment" json:"user_id"`
	CourseID  uint      `gorm:"not null;index;uniqueIndex:idx_user_course_enrollment" json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Enrollment) TableName() string {
	return "enrollments"
}
