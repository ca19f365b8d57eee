package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alextreichler/foodorder/internal/models"
)

var (
	burger = models.MenuItem{ID: 1, Name: "Burger", Price: 5.00, Image: "default.jpg"}
	fries  = models.MenuItem{ID: 2, Name: "Fries", Price: 3.50, Image: "default.jpg"}
)

func TestAddSameItemTwiceIncrementsQuantity(t *testing.T) {
	var c Cart

	assert.Equal(t, 1, c.Add(burger))
	assert.Equal(t, 2, c.Add(burger))

	require.Len(t, c.Entries, 1)
	assert.Equal(t, 2, c.Entries[0].Quantity)
	assert.Equal(t, "Burger", c.Entries[0].Name)
}

func TestTotalIsSumOfLines(t *testing.T) {
	var c Cart
	assert.Zero(t, c.Total())
	assert.True(t, c.Empty())

	c.Add(burger)
	c.Add(burger)
	c.Add(fries)

	assert.InDelta(t, 13.50, c.Total(), 1e-9)
	assert.Equal(t, 3, c.Count())

	require.NoError(t, c.Update(fries.ID, ActionIncrease))
	assert.InDelta(t, 17.00, c.Total(), 1e-9)
}

func TestUpdateActions(t *testing.T) {
	var c Cart
	c.Add(burger)
	c.Add(fries)

	require.NoError(t, c.Update(burger.ID, ActionIncrease))
	assert.Equal(t, 2, c.Entries[0].Quantity)

	require.NoError(t, c.Update(burger.ID, ActionDecrease))
	assert.Equal(t, 1, c.Entries[0].Quantity)

	// Decrease to zero removes the entry.
	require.NoError(t, c.Update(burger.ID, ActionDecrease))
	require.Len(t, c.Entries, 1)
	assert.Equal(t, fries.ID, c.Entries[0].ItemID)

	require.NoError(t, c.Update(fries.ID, ActionRemove))
	assert.True(t, c.Empty())
}

func TestUpdateIsKeyedByItemID(t *testing.T) {
	var c Cart
	c.Add(burger)
	c.Add(fries)

	// Removing the first line must not shift the target of a later update.
	require.NoError(t, c.Update(burger.ID, ActionRemove))
	require.NoError(t, c.Update(fries.ID, ActionIncrease))

	require.Len(t, c.Entries, 1)
	assert.Equal(t, 2, c.Entries[0].Quantity)
}

func TestUpdateErrors(t *testing.T) {
	var c Cart
	c.Add(burger)

	err := c.Update(99, ActionIncrease)
	assert.ErrorIs(t, err, ErrItemNotInCart)

	err = c.Update(burger.ID, Action("double"))
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Equal(t, 1, c.Entries[0].Quantity)
}

func TestLinesSnapshotPrices(t *testing.T) {
	var c Cart
	c.Add(burger)
	c.Add(burger)
	c.Add(fries)

	lines := c.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, models.OrderLine{MenuItemID: 1, Quantity: 2, Price: 5.00}, lines[0])
	assert.Equal(t, models.OrderLine{MenuItemID: 2, Quantity: 1, Price: 3.50}, lines[1])

	c.Clear()
	assert.True(t, c.Empty())
	assert.Empty(t, c.Lines())
}
