package models

import "time"

// Default workflow statuses seeded at startup
const (
	StatusTodo       = "TODO"
	StatusInProgress = "IN_PROGRESS"
	StatusDone       = "DONE"
)

// Status represents the statuses table
type Status struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Status string `gorm:"uniqueIndex;not null;size:50" json:"status"`
}

// TableName specifies the table name for Status model
func (Status) TableName() string {
	return "statuses"
}

// Task represents the tasks table. UserID is the owner.
type Task struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	Title       string      `gorm:"size:255;not null" json:"title"`
	Description string      `gorm:"type:text" json:"description"`
	StatusID    uint        `gorm:"not null;index" json:"statusId"`
	UserID      uint        `gorm:"not null;index" json:"userId"`
	DueDate     time.Time   `gorm:"not null;index" json:"dueDate"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Status      *Status     `gorm:"foreignKey:StatusID" json:"status,omitempty"`
	User        *User       `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Shares      []TaskShare `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"sharedUsers,omitempty"`
	SubTasks    []SubTask   `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE" json:"subTasks,omitempty"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}

// TaskShare represents the many-to-many relationship between tasks and the users they are shared with
type TaskShare struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	TaskID    uint      `gorm:"not null;uniqueIndex:idx_task_share,priority:1" json:"taskId"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_task_share,priority:2;index" json:"userId"`
	CreatedAt time.Time `json:"createdAt"`

	// Relationships
	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

// TableName specifies the table name for TaskShare model
func (TaskShare) TableName() string {
	return "task_shares"
}

// SubTask represents the subtasks table
type SubTask struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	StatusID    uint      `gorm:"not null;index" json:"statusId"`
	TaskID      uint      `gorm:"not null;index" json:"taskId"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Status      *Status   `gorm:"foreignKey:StatusID" json:"status,omitempty"`
}

// TableName specifies the table name for SubTask model
func (SubTask) TableName() string {
	return "subtasks"
}
