package view

import (
	"testing"

	"meadowmarket/internal/app/storefront/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== JoinCart Tests ====================

func TestJoinCart_MatchesProducts(t *testing.T) {
	// Arrange
	items := []entity.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 2, Quantity: 1},
	}
	products := []entity.Product{
		{ID: 1, Title: "Honey", Price: 1250, Stock: 10},
		{ID: 2, Title: "Jam", Price: 800, Stock: 3},
	}

	// Act
	lines, missing := JoinCart(items, products)

	// Assert
	require.Len(t, lines, 2)
	assert.Equal(t, 0, missing)
	assert.Equal(t, "Honey", lines[0].Product.Title)
	assert.Equal(t, "12.50", lines[0].PriceDisplay)
	assert.InDelta(t, 25.0, lines[0].LineSubtotal, 0.0001)
	assert.True(t, lines[0].CanDecrement)
	assert.True(t, lines[0].CanIncrement)
}

func TestJoinCart_DropsMissingProductsSilently(t *testing.T) {
	// Позиция с неизвестным товаром выпадает из строк и из подытога
	items := []entity.CartItem{
		{ProductID: 1, Quantity: 2},
		{ProductID: 99, Quantity: 5},
	}
	products := []entity.Product{
		{ID: 1, Title: "Honey", Price: 1000, Stock: 10},
	}

	lines, missing := JoinCart(items, products)

	require.Len(t, lines, 1)
	assert.Equal(t, 1, missing)
	assert.InDelta(t, 20.0, Subtotal(lines), 0.0001)
}

func TestJoinCart_EmptyCart(t *testing.T) {
	lines, missing := JoinCart(nil, nil)

	assert.Empty(t, lines)
	assert.Equal(t, 0, missing)
}

// ==================== CartView Tests ====================

func TestNewCartView_TotalComesFromBackend(t *testing.T) {
	items := []entity.CartItem{{ProductID: 1, Quantity: 1}}
	products := []entity.Product{{ID: 1, Price: 1000, Stock: 5}}

	// Итог backend'а авторитетен даже когда расходится с подытогом строк
	v := NewCartView(items, products, 900)

	assert.Equal(t, "10.00", v.SubtotalDisplay)
	assert.Equal(t, "9.00", v.TotalDisplay)
}

func TestNewCartView_QuantityBoundsPerLine(t *testing.T) {
	items := []entity.CartItem{
		{ProductID: 1, Quantity: 1},
		{ProductID: 2, Quantity: 3},
	}
	products := []entity.Product{
		{ID: 1, Price: 100, Stock: 5},
		{ID: 2, Price: 100, Stock: 3},
	}

	v := NewCartView(items, products, 400)

	require.Len(t, v.Lines, 2)
	assert.False(t, v.Lines[0].CanDecrement)
	assert.True(t, v.Lines[0].CanIncrement)
	assert.True(t, v.Lines[1].CanDecrement)
	assert.False(t, v.Lines[1].CanIncrement)
}

// ==================== OrderView Tests ====================

func TestNewOrderView(t *testing.T) {
	order := entity.Order{
		ID:    1,
		User:  "alice",
		Total: 2500,
		Items: []entity.OrderLine{
			{ProductID: 1, Quantity: 2},
			{ProductID: 99, Quantity: 1},
		},
	}
	products := []entity.Product{{ID: 1, Title: "Honey", Price: 1250}}

	v := NewOrderView(order, products)

	require.Len(t, v.Lines, 1)
	assert.Equal(t, 1, v.MissingLines)
	assert.Equal(t, "Honey", v.Lines[0].Title)
	assert.Equal(t, "25.00", v.TotalDisplay)
}
