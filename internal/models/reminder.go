package models

import "time"

// Reminder represents the reminders table
type Reminder struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	TaskID       uint      `gorm:"not null;index" json:"taskId"`
	ReminderDate time.Time `gorm:"not null;index" json:"reminderDate"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
	Task         *Task     `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"task,omitempty"`
}

// TableName specifies the table name for Reminder model
func (Reminder) TableName() string {
	return "reminders"
}
