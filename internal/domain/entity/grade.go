package entity

import (
	"time"
)

// Grade представляет агрегированную оценку пользователя по курсу.
// Одна строка на пару (user, course); создаётся лениво при первом
// релевантном событии и пересчитывается на месте при каждом следующем.
// Компоненты nil, пока по ним нет данных; FinalGrade - детерминированная
// взвешенная функция ненулевых компонент (веса - внешняя конфигурация,
// перенормируются на отсутствующие компоненты).
type Grade struct {
	ID                   uint       `gorm:"primaryKey" json:"id"`
	UserID               uint       `gorm:"not null;index;uniqueIndex:idx_user_course_grade" json:"user_id"`
	CourseID             uint       `gorm:"not null;index;uniqueIndex:idx_user_course_grade" json:"course_id"`
	QuizAverage          *float64   `json:"quiz_average"`
	AssignmentAverage    *float64   `json:"assignment_average"`
	ParticipationScore   *float64   `json:"participation_score"`
	FinalGrade           *float64   `json:"final_grade"`
	CompletedQuizzes     int        `gorm:"not null;default:0" json:"completed_quizzes"`
	TotalQuizzes         int        `gorm:"not null;default:0" json:"total_quizzes"`
	CompletedAssignments int        `gorm:"not null;default:0" json:"completed_assignments"`
	TotalAssignments     int        `gorm:"not null;default:0" json:"total_assignments"`
	CalculatedAt         *time.Time `json:"calculated_at"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Grade) TableName() string {
	return "grades"
}
