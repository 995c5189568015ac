package repository

import "errors"

var (
	ErrUserNotFound     = errors.New("user not found")
	ErrTokenNotFound    = errors.New("token not found")
	ErrTaskNotFound     = errors.New("task not found")
	ErrStatusNotFound   = errors.New("status not found")
	ErrSubTaskNotFound  = errors.New("subtask not found")
	ErrReminderNotFound = errors.New("reminder not found")
	ErrAlreadyShared    = errors.New("task already shared with user")
)
