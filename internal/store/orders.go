package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/alextreichler/foodorder/internal/models"
)

// PlaceOrder writes the order and all of its items in one transaction.
// Either everything is committed or nothing is.
func (s *Store) PlaceOrder(ctx context.Context, userID int64, lines []models.OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyOrder
	}

	var total float64
	for _, l := range lines {
		if l.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for menu item %d", l.Quantity, l.MenuItemID)
		}
		total += l.Price * float64(l.Quantity)
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin checkout: %w", err)
	}
	defer tx.Rollback() // No-op once committed

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO orders (user_id, total, status, created_at) VALUES (?, ?, ?, ?)`,
		userID, total, models.StatusPending, now)
	if err != nil {
		return nil, fmt.Errorf("failed to insert order: %w", err)
	}
	orderID, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	order := &models.Order{
		ID:        orderID,
		UserID:    userID,
		Total:     total,
		Status:    models.StatusPending,
		CreatedAt: now,
	}

	for _, l := range lines {
		res, err := tx.ExecContext(ctx,
			`INSERT INTO order_items (order_id, menu_item_id, quantity, price) VALUES (?, ?, ?, ?)`,
			orderID, l.MenuItemID, l.Quantity, l.Price)
		if err != nil {
			return nil, fmt.Errorf("failed to insert item %d: %w", l.MenuItemID, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:         itemID,
			OrderID:    orderID,
			MenuItemID: l.MenuItemID,
			Quantity:   l.Quantity,
			Price:      l.Price,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit checkout: %w", err)
	}
	return order, nil
}

const orderSelect = `
	SELECT o.id, o.user_id, u.username, o.total, o.status, o.created_at
	FROM orders o
	JOIN users u ON u.id = o.user_id
`

func scanOrder(row interface{ Scan(...any) error }) (*models.Order, error) {
	var o models.Order
	if err := row.Scan(&o.ID, &o.UserID, &o.Username, &o.Total, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// GetOrder loads an order with its items.
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	order, err := scanOrder(s.DB.QueryRowContext(ctx, orderSelect+` WHERE o.id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := s.DB.QueryContext(ctx, `
		SELECT oi.id, oi.order_id, oi.menu_item_id, m.name, oi.quantity, oi.price
		FROM order_items oi
		JOIN menu_items m ON m.id = oi.menu_item_id
		WHERE oi.order_id = ?
		ORDER BY oi.id
	`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var oi models.OrderItem
		if err := rows.Scan(&oi.ID, &oi.OrderID, &oi.MenuItemID, &oi.MenuItemName, &oi.Quantity, &oi.Price); err != nil {
			return nil, err
		}
		order.Items = append(order.Items, oi)
	}
	return order, rows.Err()
}

func (s *Store) queryOrders(ctx context.Context, query string, args ...any) ([]models.Order, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var orders []models.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

// ListOrdersByUser returns the user's orders, newest first.
func (s *Store) ListOrdersByUser(ctx context.Context, userID int64) ([]models.Order, error) {
	return s.queryOrders(ctx, orderSelect+` WHERE o.user_id = ? ORDER BY o.created_at DESC, o.id DESC`, userID)
}

// ListOrders pages through all orders, optionally filtered by status
// (empty status means all).
func (s *Store) ListOrders(ctx context.Context, status models.OrderStatus, limit, offset int) ([]models.Order, error) {
	if status == "" {
		return s.queryOrders(ctx, orderSelect+` ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?`, limit, offset)
	}
	return s.queryOrders(ctx, orderSelect+` WHERE o.status = ? ORDER BY o.created_at DESC, o.id DESC LIMIT ? OFFSET ?`,
		status, limit, offset)
}

func (s *Store) CountOrders(ctx context.Context, status models.OrderStatus) (int, error) {
	var count int
	var err error
	if status == "" {
		err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders").Scan(&count)
	} else {
		err = s.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders WHERE status = ?", status).Scan(&count)
	}
	return count, err
}

// UpdateOrderStatus moves a Pending order to status. Orders already
// Completed or Cancelled are left unchanged and ErrInvalidTransition is
// returned.
func (s *Store) UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) error {
	if _, err := models.ParseOrderStatus(string(status)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidTransition, err)
	}

	res, err := s.DB.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE id = ? AND status = ?`,
		status, id, models.StatusPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 1 {
		return nil
	}

	// Nothing updated: either the order is missing or it is terminal.
	var current models.OrderStatus
	err = s.DB.QueryRowContext(ctx, `SELECT status FROM orders WHERE id = ?`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: order %d is %s", ErrInvalidTransition, id, current)
}
