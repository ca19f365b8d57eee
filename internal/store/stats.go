package store

import (
	"context"

	"github.com/alextreichler/foodorder/internal/models"
)

type DashboardStats struct {
	TotalOrders     int
	PendingOrders   int
	CompletedOrders int
	CancelledOrders int
	TotalUsers      int
	TotalMenuItems  int
}

func (s *Store) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	stats := &DashboardStats{}

	err := s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&stats.TotalOrders)
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, "SELECT status, COUNT(*) FROM orders GROUP BY status")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status models.OrderStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		switch status {
		case models.StatusPending:
			stats.PendingOrders = count
		case models.StatusCompleted:
			stats.CompletedOrders = count
		case models.StatusCancelled:
			stats.CancelledOrders = count
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if stats.TotalUsers, err = s.CountUsers(ctx); err != nil {
		return nil, err
	}
	err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM menu_items").Scan(&stats.TotalMenuItems)
	if err != nil {
		return nil, err
	}

	return stats, nil
}
