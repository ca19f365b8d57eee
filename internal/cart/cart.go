// Package cart holds the per-session shopping cart and the stores that keep it
// between requests.
package cart

import (
	"errors"
	"fmt"

	"github.com/alextreichler/foodorder/internal/models"
)

var (
	ErrItemNotInCart = errors.New("item not in cart")
	ErrUnknownAction = errors.New("unknown cart action")
)

// Action is a cart line update.
type Action string

const (
	ActionIncrease Action = "increase"
	ActionDecrease Action = "decrease"
	ActionRemove   Action = "remove"
)

// Entry is one cart line. Price is captured when the item is first added.
type Entry struct {
	ItemID   int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image"`
}

func (e Entry) Subtotal() float64 {
	return e.Price * float64(e.Quantity)
}

// Cart keeps entries in insertion order; each menu item appears at most once.
type Cart struct {
	Entries []Entry `json:"entries"`
}

func (c *Cart) Empty() bool {
	return c == nil || len(c.Entries) == 0
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, e := range c.Entries {
		n += e.Quantity
	}
	return n
}

// Total is computed on every call and never cached.
func (c *Cart) Total() float64 {
	var total float64
	for _, e := range c.Entries {
		total += e.Subtotal()
	}
	return total
}

// Add increments the entry for item, or appends a new one with quantity 1.
// It returns the resulting quantity.
func (c *Cart) Add(item models.MenuItem) int {
	for i := range c.Entries {
		if c.Entries[i].ItemID == item.ID {
			c.Entries[i].Quantity++
			return c.Entries[i].Quantity
		}
	}
	c.Entries = append(c.Entries, Entry{
		ItemID:   item.ID,
		Name:     item.Name,
		Price:    item.Price,
		Quantity: 1,
		Image:    item.Image,
	})
	return 1
}

// Update applies action to the entry for itemID. Decreasing to zero removes it.
func (c *Cart) Update(itemID int64, action Action) error {
	idx := c.indexOf(itemID)
	if idx < 0 {
		return fmt.Errorf("update item %d: %w", itemID, ErrItemNotInCart)
	}

	switch action {
	case ActionIncrease:
		c.Entries[idx].Quantity++
	case ActionDecrease:
		c.Entries[idx].Quantity--
		if c.Entries[idx].Quantity <= 0 {
			c.remove(idx)
		}
	case ActionRemove:
		c.remove(idx)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return nil
}

func (c *Cart) Clear() {
	c.Entries = nil
}

// Lines converts the cart into checkout lines with snapshotted prices.
func (c *Cart) Lines() []models.OrderLine {
	lines := make([]models.OrderLine, 0, len(c.Entries))
	for _, e := range c.Entries {
		lines = append(lines, models.OrderLine{
			MenuItemID: e.ItemID,
			Quantity:   e.Quantity,
			Price:      e.Price,
		})
	}
	return lines
}

func (c *Cart) indexOf(itemID int64) int {
	for i, e := range c.Entries {
		if e.ItemID == itemID {
			return i
		}
	}
	return -1
}

func (c *Cart) remove(idx int) {
	c.Entries = append(c.Entries[:idx], c.Entries[idx+1:]...)
}
