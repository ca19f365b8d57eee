package models

import (
	"time"
)

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"-"` // Store hashed password
	IsAdmin  bool   `json:"is_admin"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type MenuItem struct {
	ID           int64   `json:"id"`
	Name         string  `json:"name"`
	Description  string  `json:"description"`
	Price        float64 `json:"price"`
	Image        string  `json:"image"`
	CategoryID   int64   `json:"category_id"`
	CategoryName string  `json:"category_name"` // For display convenience
}

// DefaultImage is assigned to every new menu item; uploads are not handled.
const DefaultImage = "default.jpg"

type Order struct {
	ID        int64       `json:"id"`
	UserID    int64       `json:"user_id"`
	Username  string      `json:"username"` // For display convenience
	Total     float64     `json:"total"`
	Status    OrderStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	Items     []OrderItem `json:"items,omitempty"`
}

type OrderItem struct {
	ID           int64   `json:"id"`
	OrderID      int64   `json:"order_id"`
	MenuItemID   int64   `json:"menu_item_id"`
	MenuItemName string  `json:"menu_item_name"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"` // Snapshot taken at checkout
}

// Subtotal is the line amount.
func (oi OrderItem) Subtotal() float64 {
	return oi.Price * float64(oi.Quantity)
}

// OrderLine is one checkout line handed to the store.
type OrderLine struct {
	MenuItemID int64
	Quantity   int
	Price      float64
}
