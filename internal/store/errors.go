package store

import (
	"errors"
	"strings"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrEmailTaken        = errors.New("email already registered")
	ErrCategoryExists    = errors.New("category already exists")
	ErrCategoryNotFound  = errors.New("category not found")
	ErrInvalidTransition = errors.New("invalid order status transition")
	ErrEmptyOrder        = errors.New("order has no items")
)

// isUniqueViolation matches SQLite's "UNIQUE constraint failed: table.column".
func isUniqueViolation(err error, column string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") && strings.Contains(msg, column)
}

func isForeignKeyViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "FOREIGN KEY constraint failed")
}
