package models

import "fmt"

type OrderStatus string

const (
	StatusPending   OrderStatus = "Pending"
	StatusCompleted OrderStatus = "Completed"
	StatusCancelled OrderStatus = "Cancelled"
)

// OrderStatuses lists every valid status in display order.
var OrderStatuses = []OrderStatus{StatusPending, StatusCompleted, StatusCancelled}

// ParseOrderStatus accepts only the exact status names.
func ParseOrderStatus(s string) (OrderStatus, error) {
	for _, st := range OrderStatuses {
		if string(st) == s {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid order status %q", s)
}

// Terminal reports whether no further status change is allowed.
func (s OrderStatus) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether an order in s may be moved to next.
// Pending may move to any valid status (including itself).
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if _, err := ParseOrderStatus(string(next)); err != nil {
		return false
	}
	return s == StatusPending
}
